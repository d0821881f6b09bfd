package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/placeorder/internal/db"
	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/nikolayk812/placeorder/internal/outbox"
	"github.com/nikolayk812/placeorder/internal/port"
	"github.com/samber/lo"
)

var ErrNoRowsUpdated = errors.New("no rows updated")

type outboxRepository struct {
	q *db.Queries
}

// OutboxRepository appends events and serves them to outbox.Relay.
type OutboxRepository interface {
	port.OutboxRepository
	outbox.Store
}

func NewOutbox(pool *pgxpool.Pool) OutboxRepository {
	return &outboxRepository{
		q: db.New(pool),
	}
}

func NewOutboxWithTx(tx pgx.Tx) port.OutboxRepository {
	return &outboxRepository{
		q: db.New(tx),
	}
}

func (r *outboxRepository) AppendOrderPlaced(ctx context.Context, ev domain.OrderPlaced) error {
	if ev.OrderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	event, err := outbox.NewOrderPlacedEvent(ctx, ev)
	if err != nil {
		return fmt.Errorf("outbox.NewOrderPlacedEvent: %w", err)
	}

	if err := r.q.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Type:          event.Type,
		Payload:       event.Payload,
		Headers:       emptyIfNil(event.Headers),
		Traceparent:   event.Traceparent,
	}); err != nil {
		return fmt.Errorf("q.InsertOutboxEvent: %w", err)
	}

	return nil
}

func (r *outboxRepository) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	rows, err := r.q.LockOutboxBatch(ctx, db.LockOutboxBatchParams{
		RelayID:   relayID,
		LeaseMs:   lease.Milliseconds(),
		BatchSize: int32(batchSize),
	})
	if err != nil {
		return nil, fmt.Errorf("q.LockOutboxBatch: %w", err)
	}

	return lo.Map(rows, func(row db.LockOutboxBatchRow, _ int) outbox.Event {
		return outbox.Event{
			ID:            row.ID,
			AggregateType: row.AggregateType,
			AggregateID:   row.AggregateID,
			Type:          row.Type,
			Payload:       row.Payload,
			Headers:       row.Headers,
			Traceparent:   row.Traceparent,
			RetryCount:    int(row.RetryCount),
			CreatedAt:     row.CreatedAt,
		}
	}), nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, relayID string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	rowsAffected, err := r.q.MarkOutboxSent(ctx, db.MarkOutboxSentParams{
		Ids:     ids,
		RelayID: relayID,
	})
	if err != nil {
		return fmt.Errorf("q.MarkOutboxSent: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("q.MarkOutboxSent: %w", ErrNoRowsUpdated)
	}

	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, relayID string, id int64, errMsg string, maxRetries int) error {
	rowsAffected, err := r.q.MarkOutboxFailed(ctx, db.MarkOutboxFailedParams{
		MaxRetries: int32(maxRetries),
		LastError:  errMsg,
		ID:         id,
		RelayID:    relayID,
	})
	if err != nil {
		return fmt.Errorf("q.MarkOutboxFailed: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("q.MarkOutboxFailed: %w", ErrNoRowsUpdated)
	}

	return nil
}

func emptyIfNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

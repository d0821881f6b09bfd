package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Store interface {
	// LockBatch leases up to batchSize pending events to relayID.
	LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error)
	MarkSent(ctx context.Context, relayID string, ids []int64) error
	// MarkFailed returns the event to pending, or to failed once maxRetries attempts were made.
	MarkFailed(ctx context.Context, relayID string, id int64, errMsg string, maxRetries int) error
}

type RelayConfig struct {
	ID         string
	BatchSize  int
	Interval   time.Duration
	Lease      time.Duration
	MaxRetries int
}

type Relay struct {
	log      *zap.Logger
	store    Store
	dispatch *Dispatcher
	cfg      RelayConfig
}

func NewRelay(log *zap.Logger, store Store, dispatch *Dispatcher, cfg RelayConfig) (*Relay, error) {
	if log == nil {
		return nil, errors.New("log is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if dispatch == nil {
		return nil, errors.New("dispatch is nil")
	}
	if cfg.ID == "" {
		return nil, errors.New("relay id is empty")
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 500 * time.Millisecond
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 5 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}

	return &Relay{
		log:      log.With(zap.String("relay_id", cfg.ID)),
		store:    store,
		dispatch: dispatch,
		cfg:      cfg,
	}, nil
}

// Run polls the store until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.cfg.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("relay stopping")
			return nil
		case <-t.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.Error("relay iteration failed", zap.Error(err))
			}
		}
	}
}

// RunOnce dispatches a single batch and returns the number of events sent.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	events, err := r.store.LockBatch(ctx, r.cfg.ID, r.cfg.BatchSize, r.cfg.Lease)
	if err != nil {
		return 0, fmt.Errorf("store.LockBatch: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	var (
		sent []int64
		errs []error
	)

	for _, e := range events {
		if err := r.dispatch.Dispatch(ctx, e); err != nil {
			if markErr := r.store.MarkFailed(ctx, r.cfg.ID, e.ID, err.Error(), r.cfg.MaxRetries); markErr != nil {
				errs = append(errs, fmt.Errorf("store.MarkFailed[%d]: %w", e.ID, markErr))
			}
			continue
		}
		sent = append(sent, e.ID)
	}

	if len(sent) > 0 {
		if err := r.store.MarkSent(ctx, r.cfg.ID, sent); err != nil {
			errs = append(errs, fmt.Errorf("store.MarkSent: %w", err))
		}
	}

	r.log.Debug("relay batch done", zap.Int("locked", len(events)), zap.Int("sent", len(sent)))

	return len(sent), errors.Join(errs...)
}

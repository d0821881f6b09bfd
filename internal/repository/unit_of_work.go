package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/placeorder/internal/port"
)

type unitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) (port.UnitOfWork, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}

	return &unitOfWork{pool: pool}, nil
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos port.TxRepositories) error) error {
	_, err := inTx(ctx, u.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(port.TxRepositories{
			Orders:   NewOrderWithTx(tx),
			Products: NewProductWithTx(tx),
			Outbox:   NewOutboxWithTx(tx),
		})
	})
	return err
}

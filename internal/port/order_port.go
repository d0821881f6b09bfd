package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/placeorder/internal/domain"
)

type OrderRepository interface {
	// CreateOrder stores the order and its items and returns them with store-assigned ids.
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
}

type OutboxRepository interface {
	AppendOrderPlaced(ctx context.Context, event domain.OrderPlaced) error
}

// TxRepositories share one database transaction.
type TxRepositories struct {
	Orders   OrderRepository
	Products ProductRepository
	Outbox   OutboxRepository
}

type UnitOfWork interface {
	// Do commits if fn returns nil and rolls back otherwise.
	Do(ctx context.Context, fn func(repos TxRepositories) error) error
}

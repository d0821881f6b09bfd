package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/placeorder/internal/domain"
)

type ProductRepository interface {
	// FindAllByID returns the products found, unmatched ids are absent, order is not guaranteed.
	FindAllByID(ctx context.Context, productIDs []uuid.UUID) ([]domain.Product, error)

	// UpdateQuantity sets absolute stock levels in one batch.
	UpdateQuantity(ctx context.Context, updates []domain.QuantityUpdate) error

	// DecrementStock applies all decrements or none of them. It fails with
	// *domain.InsufficientStockError if any product has less stock than requested.
	DecrementStock(ctx context.Context, decrements []domain.StockDecrement) error

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID       uuid.UUID
	Name     string
	Price    Money
	Quantity int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuantityUpdate sets the absolute stock level of a product.
type QuantityUpdate struct {
	ProductID uuid.UUID
	Quantity  int
}

// StockDecrement removes Amount units from a product, only if that many are available.
type StockDecrement struct {
	ProductID uuid.UUID
	Amount    int
}

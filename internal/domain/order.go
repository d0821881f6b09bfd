package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID       uuid.UUID
	Customer Customer
	Items    []OrderItem
	Total    Money

	CreatedAt time.Time
}

// OrderItem is a product line of an order. Price is a snapshot taken when the order was placed.
type OrderItem struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     Money

	CreatedAt time.Time
}

// StockDecrements sums item quantities per product, keeping the order of first appearance.
func (o Order) StockDecrements() []StockDecrement {
	var (
		result []StockDecrement
		index  = make(map[uuid.UUID]int, len(o.Items))
	)

	for _, item := range o.Items {
		if i, ok := index[item.ProductID]; ok {
			result[i].Amount += item.Quantity
			continue
		}

		index[item.ProductID] = len(result)
		result = append(result, StockDecrement{ProductID: item.ProductID, Amount: item.Quantity})
	}

	return result
}

// OrderPlaced is published once an order and its stock decrement are committed.
type OrderPlaced struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	Items      []OrderItem
	Total      Money
	PlacedAt   time.Time
}

func NewOrderPlaced(o Order) OrderPlaced {
	return OrderPlaced{
		OrderID:    o.ID,
		CustomerID: o.Customer.ID,
		Items:      o.Items,
		Total:      o.Total,
		PlacedAt:   o.CreatedAt,
	}
}

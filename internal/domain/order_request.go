package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type OrderRequest struct {
	CustomerID uuid.UUID
	Products   []RequestedProduct
}

type RequestedProduct struct {
	ID       uuid.UUID
	Quantity int
}

func (r OrderRequest) Validate() error {
	if r.CustomerID == uuid.Nil {
		return errors.New("customerID is empty")
	}

	if len(r.Products) == 0 {
		return errors.New("products are empty")
	}

	for i, p := range r.Products {
		if p.ID == uuid.Nil {
			return fmt.Errorf("products[%d]: id is empty", i)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("products[%d]: quantity[%d] is not positive", i, p.Quantity)
		}
	}

	return nil
}

func (r OrderRequest) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Products))
	seen := make(map[uuid.UUID]struct{}, len(r.Products))

	for _, p := range r.Products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		ids = append(ids, p.ID)
	}

	return ids
}

// QuantityByProduct sums requested quantities per product id.
func (r OrderRequest) QuantityByProduct() map[uuid.UUID]int {
	result := make(map[uuid.UUID]int, len(r.Products))
	for _, p := range r.Products {
		result[p.ID] += p.Quantity
	}
	return result
}

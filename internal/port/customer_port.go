package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/placeorder/internal/domain"
)

type CustomerRepository interface {
	// FindByID fails with domain.ErrCustomerNotFound when the customer does not exist.
	FindByID(ctx context.Context, customerID uuid.UUID) (domain.Customer, error)

	InsertCustomer(ctx context.Context, customer domain.Customer) (uuid.UUID, error)
}

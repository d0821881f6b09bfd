package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/placeorder/internal/db"
	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/nikolayk812/placeorder/internal/port"
)

type customerRepository struct {
	q *db.Queries
}

func NewCustomer(pool *pgxpool.Pool) port.CustomerRepository {
	return &customerRepository{
		q: db.New(pool),
	}
}

func (r *customerRepository) FindByID(ctx context.Context, customerID uuid.UUID) (domain.Customer, error) {
	var c domain.Customer

	if customerID == uuid.Nil {
		return c, fmt.Errorf("customerID is empty")
	}

	row, err := r.q.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, fmt.Errorf("q.GetCustomer: %w", domain.ErrCustomerNotFound)
		}
		return c, fmt.Errorf("q.GetCustomer: %w", err)
	}

	return domain.Customer{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *customerRepository) InsertCustomer(ctx context.Context, customer domain.Customer) (uuid.UUID, error) {
	if customer.Name == "" {
		return uuid.Nil, fmt.Errorf("name is empty")
	}

	customerID, err := r.q.InsertCustomer(ctx, db.InsertCustomerParams{
		Name:  customer.Name,
		Email: customer.Email,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertCustomer: %w", err)
	}

	return customerID, nil
}

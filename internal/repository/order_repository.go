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
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty")
	}

	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetOrder: %w", domain.ErrOrderNotFound)
			}
			return o, fmt.Errorf("q.GetOrder: %w", err)
		}

		dbOrderItems, err := q.GetOrderItems(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderItems)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

// CreateOrder stores the order header and its items, keeping item order,
// and returns the order with store-assigned ids and timestamps.
func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if order.Customer.ID == uuid.Nil {
		return o, fmt.Errorf("customerID is empty")
	}
	if len(order.Items) == 0 {
		return o, errors.New("no items in order")
	}
	if err := order.Total.Validate(); err != nil {
		return o, fmt.Errorf("total.Validate: %w", err)
	}

	created, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		row, err := q.InsertOrder(ctx, db.InsertOrderParams{
			CustomerID:    order.Customer.ID,
			TotalAmount:   order.Total.Amount,
			TotalCurrency: order.Total.Currency.String(),
		})
		if err != nil {
			return o, fmt.Errorf("q.InsertOrder: %w", err)
		}

		result := order
		result.ID = row.ID
		result.CreatedAt = row.CreatedAt
		result.Items = make([]domain.OrderItem, 0, len(order.Items))

		// TODO: batch insert via unnest once items carry more than a handful of lines
		for i, item := range order.Items {
			itemRow, err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
				OrderID:       row.ID,
				Position:      int32(i),
				ProductID:     item.ProductID,
				Quantity:      int32(item.Quantity),
				PriceAmount:   item.Price.Amount,
				PriceCurrency: item.Price.Currency.String(),
			})
			if err != nil {
				return o, fmt.Errorf("q.InsertOrderItem[%d]: %w", i, err)
			}

			item.ID = itemRow.ID
			item.CreatedAt = itemRow.CreatedAt
			result.Items = append(result.Items, item)
		}

		return result, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return created, nil
}

func mapGetOrderItemRowToDomain(row db.GetOrderItemsRow) (domain.OrderItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderItem{
		ID:        row.ID,
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapGetOrderItemRowsToDomain(rows []db.GetOrderItemsRow) ([]domain.OrderItem, error) {
	var items []domain.OrderItem

	for _, row := range rows {
		item, err := mapGetOrderItemRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetOrderItemRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapDBOrderToDomain(dbOrder db.GetOrderRow, dbOrderItems []db.GetOrderItemsRow) (domain.Order, error) {
	var o domain.Order

	items, err := mapGetOrderItemRowsToDomain(dbOrderItems)
	if err != nil {
		return o, fmt.Errorf("mapGetOrderItemRowsToDomain: %w", err)
	}

	totalCurrency, err := currency.ParseISO(dbOrder.TotalCurrency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", dbOrder.TotalCurrency, err)
	}

	return domain.Order{
		ID: dbOrder.ID,
		Customer: domain.Customer{
			ID:        dbOrder.CustomerID,
			Name:      dbOrder.CustomerName,
			Email:     dbOrder.CustomerEmail,
			CreatedAt: dbOrder.CustomerCreatedAt,
		},
		Items:     items,
		Total:     domain.Money{Amount: dbOrder.TotalAmount, Currency: totalCurrency},
		CreatedAt: dbOrder.CreatedAt,
	}, nil
}

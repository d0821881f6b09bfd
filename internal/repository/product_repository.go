package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/placeorder/internal/db"
	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/nikolayk812/placeorder/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type productRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *productRepository) FindAllByID(ctx context.Context, productIDs []uuid.UUID) ([]domain.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	rows, err := r.q.GetProducts(ctx, lo.Uniq(productIDs))
	if err != nil {
		return nil, fmt.Errorf("q.GetProducts: %w", err)
	}

	products, err := mapProductsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapProductsToDomain: %w", err)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if product.Name == "" {
		return uuid.Nil, fmt.Errorf("name is empty")
	}
	if err := product.Price.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("price.Validate: %w", err)
	}
	if product.Quantity < 0 {
		return uuid.Nil, fmt.Errorf("quantity[%d] is negative", product.Quantity)
	}

	productID, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		Name:          product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Quantity:      int32(product.Quantity),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.InsertProduct: %w", err)
	}

	return productID, nil
}

// UpdateQuantity sets absolute stock levels, all or nothing.
func (r *productRepository) UpdateQuantity(ctx context.Context, updates []domain.QuantityUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(updates))
	for i, u := range updates {
		if u.ProductID == uuid.Nil {
			return fmt.Errorf("updates[%d]: productID is empty", i)
		}
		if u.Quantity < 0 {
			return fmt.Errorf("updates[%d]: quantity[%d] is negative", i, u.Quantity)
		}
		if _, ok := seen[u.ProductID]; ok {
			return fmt.Errorf("updates[%d]: duplicate productID[%s]", i, u.ProductID)
		}
		seen[u.ProductID] = struct{}{}
	}

	if _, err := withTx(ctx, r.dbtx, func(q *db.Queries) (struct{}, error) {
		rowsAffected, err := q.UpdateProductQuantities(ctx, db.UpdateProductQuantitiesParams{
			Ids: lo.Map(updates, func(u domain.QuantityUpdate, _ int) uuid.UUID {
				return u.ProductID
			}),
			Quantities: lo.Map(updates, func(u domain.QuantityUpdate, _ int) int32 {
				return int32(u.Quantity)
			}),
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.UpdateProductQuantities: %w", err)
		}

		if int(rowsAffected) != len(updates) {
			return struct{}{}, fmt.Errorf("q.UpdateProductQuantities: %w", domain.ErrProductNotFound)
		}

		return struct{}{}, nil
	}); err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

// DecrementStock subtracts the amounts only where enough stock is left.
// If any product falls short nothing is applied and the first short product
// in input order is reported.
func (r *productRepository) DecrementStock(ctx context.Context, decrements []domain.StockDecrement) error {
	if len(decrements) == 0 {
		return nil
	}

	for i, d := range decrements {
		if d.ProductID == uuid.Nil {
			return fmt.Errorf("decrements[%d]: productID is empty", i)
		}
		if d.Amount <= 0 {
			return fmt.Errorf("decrements[%d]: amount[%d] is not positive", i, d.Amount)
		}
	}

	merged := mergeDecrements(decrements)

	if _, err := withTx(ctx, r.dbtx, func(q *db.Queries) (struct{}, error) {
		updatedIDs, err := q.DecrementProductQuantities(ctx, db.DecrementProductQuantitiesParams{
			Ids: lo.Map(merged, func(d domain.StockDecrement, _ int) uuid.UUID {
				return d.ProductID
			}),
			Amounts: lo.Map(merged, func(d domain.StockDecrement, _ int) int32 {
				return int32(d.Amount)
			}),
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.DecrementProductQuantities: %w", err)
		}

		if len(updatedIDs) == len(merged) {
			return struct{}{}, nil
		}

		updated := lo.SliceToMap(updatedIDs, func(id uuid.UUID) (uuid.UUID, struct{}) {
			return id, struct{}{}
		})

		short, _ := lo.Find(merged, func(d domain.StockDecrement) bool {
			_, ok := updated[d.ProductID]
			return !ok
		})

		return struct{}{}, shortageError(ctx, q, short)
	}); err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func shortageError(ctx context.Context, q *db.Queries, d domain.StockDecrement) error {
	rows, err := q.GetProducts(ctx, []uuid.UUID{d.ProductID})
	if err != nil {
		return fmt.Errorf("q.GetProducts: %w", err)
	}

	if len(rows) == 0 {
		return &domain.ProductNotFoundError{ProductID: d.ProductID}
	}

	return &domain.InsufficientStockError{
		ProductID:   d.ProductID,
		ProductName: rows[0].Name,
		Requested:   d.Amount,
		Available:   int(rows[0].Quantity),
	}
}

func mergeDecrements(decrements []domain.StockDecrement) []domain.StockDecrement {
	items := lo.Map(decrements, func(d domain.StockDecrement, _ int) domain.OrderItem {
		return domain.OrderItem{ProductID: d.ProductID, Quantity: d.Amount}
	})

	return domain.Order{Items: items}.StockDecrements()
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:        row.ID,
		Name:      row.Name,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapProductsToDomain(rows []db.Product) ([]domain.Product, error) {
	var products []domain.Product

	for _, row := range rows {
		product, err := mapProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/nikolayk812/placeorder/internal/port"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/nikolayk812/placeorder/internal/service"

type OrderService struct {
	customers port.CustomerRepository
	products  port.ProductRepository
	uow       port.UnitOfWork
	log       *zap.Logger
	tracer    trace.Tracer
}

func NewOrder(
	customers port.CustomerRepository,
	products port.ProductRepository,
	uow port.UnitOfWork,
	log *zap.Logger,
) (*OrderService, error) {
	if customers == nil {
		return nil, errors.New("customers is nil")
	}
	if products == nil {
		return nil, errors.New("products is nil")
	}
	if uow == nil {
		return nil, errors.New("uow is nil")
	}
	if log == nil {
		return nil, errors.New("log is nil")
	}

	return &OrderService{
		customers: customers,
		products:  products,
		uow:       uow,
		log:       log,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// PlaceOrder validates the request against current customers, products and stock,
// then stores the order, decrements stock and records an OrderPlaced event in one transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.OrderRequest) (_ domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.String("customer.id", req.CustomerID.String()),
		attribute.Int("order.item_count", len(req.Products)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := s.log.With(zap.Stringer("customer_id", req.CustomerID))

	order, err := s.prepareOrder(ctx, req)
	if err != nil {
		if isRejection(err) {
			log.Warn("order rejected", zap.Error(err))
		}
		return domain.Order{}, err
	}

	var created domain.Order

	if err := s.uow.Do(ctx, func(repos port.TxRepositories) error {
		stored, err := repos.Orders.CreateOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("orders.CreateOrder: %w", err)
		}
		created = stored

		if err := repos.Products.DecrementStock(ctx, created.StockDecrements()); err != nil {
			return fmt.Errorf("products.DecrementStock: %w", err)
		}

		if err := repos.Outbox.AppendOrderPlaced(ctx, domain.NewOrderPlaced(created)); err != nil {
			return fmt.Errorf("outbox.AppendOrderPlaced: %w", err)
		}

		return nil
	}); err != nil {
		if isRejection(err) {
			log.Warn("order rejected at commit", zap.Error(err))
		}
		return domain.Order{}, fmt.Errorf("uow.Do: %w", err)
	}

	span.SetAttributes(attribute.String("order.id", created.ID.String()))
	log.Info("order placed",
		zap.Stringer("order_id", created.ID),
		zap.Int("items", len(created.Items)),
		zap.Stringer("total", created.Total),
	)

	return created, nil
}

// prepareOrder runs every read-only check and builds the order to persist.
func (s *OrderService) prepareOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	var o domain.Order

	if err := req.Validate(); err != nil {
		return o, fmt.Errorf("%w: %w", domain.ErrInvalidOrderRequest, err)
	}

	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return o, fmt.Errorf("customers.FindByID: %w", err)
	}

	products, err := s.products.FindAllByID(ctx, req.ProductIDs())
	if err != nil {
		return o, fmt.Errorf("products.FindAllByID: %w", err)
	}

	if len(products) == 0 {
		return o, domain.ErrNoProductsFound
	}

	byID := lo.KeyBy(products, func(p domain.Product) uuid.UUID {
		return p.ID
	})

	for _, requested := range req.Products {
		if _, ok := byID[requested.ID]; !ok {
			return o, &domain.ProductNotFoundError{ProductID: requested.ID}
		}
	}

	totals := req.QuantityByProduct()
	for _, requested := range req.Products {
		product := byID[requested.ID]
		if totals[requested.ID] > product.Quantity {
			return o, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   totals[requested.ID],
				Available:   product.Quantity,
			}
		}
	}

	items := lo.Map(req.Products, func(requested domain.RequestedProduct, _ int) domain.OrderItem {
		return domain.OrderItem{
			ProductID: requested.ID,
			Quantity:  requested.Quantity,
			Price:     byID[requested.ID].Price,
		}
	})

	total, err := orderTotal(items)
	if err != nil {
		return o, fmt.Errorf("orderTotal: %w", err)
	}

	return domain.Order{
		Customer: customer,
		Items:    items,
		Total:    total,
	}, nil
}

func orderTotal(items []domain.OrderItem) (domain.Money, error) {
	total := domain.Money{Currency: items[0].Price.Currency}

	for _, item := range items {
		var err error

		total, err = total.Add(item.Price.Mul(item.Quantity))
		if err != nil {
			return domain.Money{}, err
		}
	}

	return total, nil
}

func isRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidOrderRequest) ||
		errors.Is(err, domain.ErrCustomerNotFound) ||
		errors.Is(err, domain.ErrNoProductsFound) ||
		errors.Is(err, domain.ErrProductNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock)
}

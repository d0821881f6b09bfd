package service_test

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/nikolayk812/placeorder/internal/port"
)

type fakeCustomers struct {
	customers map[uuid.UUID]domain.Customer
	calls     int
}

func (f *fakeCustomers) FindByID(_ context.Context, customerID uuid.UUID) (domain.Customer, error) {
	f.calls++

	c, ok := f.customers[customerID]
	if !ok {
		return domain.Customer{}, fmt.Errorf("find: %w", domain.ErrCustomerNotFound)
	}
	return c, nil
}

func (f *fakeCustomers) InsertCustomer(_ context.Context, c domain.Customer) (uuid.UUID, error) {
	c.ID = uuid.New()
	f.customers[c.ID] = c
	return c.ID, nil
}

type fakeProducts struct {
	mu          sync.Mutex
	products    map[uuid.UUID]domain.Product
	findCalls   int
	mutateCalls int

	// afterFind runs after each FindAllByID, simulating concurrent writers.
	afterFind func()
}

func (f *fakeProducts) FindAllByID(_ context.Context, productIDs []uuid.UUID) ([]domain.Product, error) {
	f.mu.Lock()
	f.findCalls++

	var result []domain.Product
	for _, id := range productIDs {
		if p, ok := f.products[id]; ok {
			result = append(result, p)
		}
	}
	f.mu.Unlock()

	if f.afterFind != nil {
		f.afterFind()
	}

	return result, nil
}

func (f *fakeProducts) UpdateQuantity(_ context.Context, updates []domain.QuantityUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mutateCalls++
	for _, u := range updates {
		p, ok := f.products[u.ProductID]
		if !ok {
			return &domain.ProductNotFoundError{ProductID: u.ProductID}
		}
		p.Quantity = u.Quantity
		f.products[u.ProductID] = p
	}
	return nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, decrements []domain.StockDecrement) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mutateCalls++
	for _, d := range decrements {
		p, ok := f.products[d.ProductID]
		if !ok {
			return &domain.ProductNotFoundError{ProductID: d.ProductID}
		}
		if p.Quantity < d.Amount {
			return &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   d.Amount,
				Available:   p.Quantity,
			}
		}
	}

	for _, d := range decrements {
		p := f.products[d.ProductID]
		p.Quantity -= d.Amount
		f.products[d.ProductID] = p
	}
	return nil
}

func (f *fakeProducts) InsertProduct(_ context.Context, p domain.Product) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = uuid.New()
	f.products[p.ID] = p
	return p.ID, nil
}

func (f *fakeProducts) quantity(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.products[id].Quantity
}

type fakeOrders struct {
	orders    map[uuid.UUID]domain.Order
	createErr error
}

func (f *fakeOrders) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	if f.createErr != nil {
		return domain.Order{}, f.createErr
	}

	now := time.Now()

	order.ID = uuid.New()
	order.CreatedAt = now

	items := make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		item.ID = uuid.New()
		item.CreatedAt = now
		items[i] = item
	}
	order.Items = items

	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

type fakeOutbox struct {
	events    []domain.OrderPlaced
	appendErr error
}

func (f *fakeOutbox) AppendOrderPlaced(_ context.Context, ev domain.OrderPlaced) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, ev)
	return nil
}

// fakeUnitOfWork restores every fake to its pre-transaction state when fn fails.
type fakeUnitOfWork struct {
	products *fakeProducts
	orders   *fakeOrders
	outbox   *fakeOutbox
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(repos port.TxRepositories) error) error {
	u.products.mu.Lock()
	products := maps.Clone(u.products.products)
	u.products.mu.Unlock()

	orders := maps.Clone(u.orders.orders)
	events := len(u.outbox.events)

	if err := fn(port.TxRepositories{
		Orders:   u.orders,
		Products: u.products,
		Outbox:   u.outbox,
	}); err != nil {
		u.products.mu.Lock()
		u.products.products = products
		u.products.mu.Unlock()

		u.orders.orders = orders
		u.outbox.events = u.outbox.events[:events]
		return err
	}

	return nil
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/placeorder/internal/db"
	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/nikolayk812/placeorder/internal/outbox"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"migrate":      migrate,
	"add-customer": addCustomer,
	"add-product":  addProduct,
	"set-stock":    setStock,
	"place":        place,
	"get-order":    getOrder,
	"relay":        relay,
}

var stdout io.Writer = os.Stdout

func migrate(ctx context.Context, a *app, _ []string) error {
	if _, err := a.pool.Exec(ctx, db.Schema); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	a.log.Info("schema applied")
	return nil
}

func addCustomer(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("add-customer", flag.ContinueOnError)
	name := fs.String("name", "", "customer name")
	email := fs.String("email", "", "customer email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := a.customers.InsertCustomer(ctx, domain.Customer{Name: *name, Email: *email})
	if err != nil {
		return fmt.Errorf("customers.InsertCustomer: %w", err)
	}

	return printJSON(map[string]string{"id": id.String()})
}

func addProduct(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("add-product", flag.ContinueOnError)
	name := fs.String("name", "", "product name")
	price := fs.String("price", "", "unit price, e.g. 9.99")
	cur := fs.String("currency", "USD", "ISO 4217 currency code")
	quantity := fs.Int("quantity", 0, "initial stock")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(*price)
	if err != nil {
		return fmt.Errorf("price[%s] is not valid: %w", *price, err)
	}

	unit, err := currency.ParseISO(*cur)
	if err != nil {
		return fmt.Errorf("currency[%s] is not valid: %w", *cur, err)
	}

	id, err := a.products.InsertProduct(ctx, domain.Product{
		Name:     *name,
		Price:    domain.Money{Amount: amount, Currency: unit},
		Quantity: *quantity,
	})
	if err != nil {
		return fmt.Errorf("products.InsertProduct: %w", err)
	}

	return printJSON(map[string]string{"id": id.String()})
}

func setStock(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("set-stock", flag.ContinueOnError)
	stock := fs.String("stock", "", "PRODUCT_ID=N pairs separated by commas")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var updates []domain.QuantityUpdate
	for _, pair := range strings.Split(*stock, ",") {
		id, qty, err := parsePair(pair, "=")
		if err != nil {
			return fmt.Errorf("stock: %w", err)
		}
		updates = append(updates, domain.QuantityUpdate{ProductID: id, Quantity: qty})
	}

	if err := a.products.UpdateQuantity(ctx, updates); err != nil {
		return fmt.Errorf("products.UpdateQuantity: %w", err)
	}

	return printJSON(map[string]int{"updated": len(updates)})
}

func place(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("place", flag.ContinueOnError)
	customer := fs.String("customer", "", "customer id")

	var items []domain.RequestedProduct
	fs.Func("item", "PRODUCT_ID:N, repeatable", func(s string) error {
		id, qty, err := parsePair(s, ":")
		if err != nil {
			return err
		}
		items = append(items, domain.RequestedProduct{ID: id, Quantity: qty})
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return err
	}

	customerID, err := uuid.Parse(*customer)
	if err != nil {
		return fmt.Errorf("customer[%s] is not valid: %w", *customer, err)
	}

	order, err := a.orderSvc.PlaceOrder(ctx, domain.OrderRequest{
		CustomerID: customerID,
		Products:   items,
	})
	if err != nil {
		return fmt.Errorf("orderSvc.PlaceOrder: %w", err)
	}

	return printJSON(toOrderView(order))
}

func getOrder(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("get-order", flag.ContinueOnError)
	rawID := fs.String("id", "", "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orderID, err := uuid.Parse(*rawID)
	if err != nil {
		return fmt.Errorf("id[%s] is not valid: %w", *rawID, err)
	}

	order, err := a.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("orders.GetOrder: %w", err)
	}

	return printJSON(toOrderView(order))
}

func relay(ctx context.Context, a *app, _ []string) error {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(a.cfg.KafkaBrokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	defer func() {
		if err := writer.Close(); err != nil {
			a.log.Warn("kafka writer close failed", zap.Error(err))
		}
	}()

	dispatcher, err := outbox.NewDispatcher(a.log, writer, a.cfg.OrderEventsTopic)
	if err != nil {
		return fmt.Errorf("outbox.NewDispatcher: %w", err)
	}

	r, err := outbox.NewRelay(a.log, a.outbox, dispatcher, outbox.RelayConfig{
		ID:         relayID(a.cfg),
		BatchSize:  a.cfg.RelayBatchSize,
		Interval:   a.cfg.RelayInterval,
		Lease:      a.cfg.RelayLease,
		MaxRetries: a.cfg.RelayMaxRetries,
	})
	if err != nil {
		return fmt.Errorf("outbox.NewRelay: %w", err)
	}

	a.log.Info("relay started",
		zap.Strings("brokers", a.cfg.KafkaBrokers),
		zap.String("topic", a.cfg.OrderEventsTopic),
	)

	return r.Run(ctx)
}

func parsePair(s, sep string) (uuid.UUID, int, error) {
	rawID, rawQty, ok := strings.Cut(strings.TrimSpace(s), sep)
	if !ok {
		return uuid.Nil, 0, fmt.Errorf("%q: expected PRODUCT_ID%sN", s, sep)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("%q: %w", rawID, err)
	}

	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("%q: %w", rawQty, err)
	}

	return id, qty, nil
}

type orderView struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Items      []orderItemView `json:"items"`
	Total      string          `json:"total"`
	CreatedAt  string          `json:"created_at"`
}

type orderItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

func toOrderView(o domain.Order) orderView {
	return orderView{
		ID:         o.ID.String(),
		CustomerID: o.Customer.ID.String(),
		Items: lo.Map(o.Items, func(item domain.OrderItem, _ int) orderItemView {
			return orderItemView{
				ID:        item.ID.String(),
				ProductID: item.ProductID.String(),
				Quantity:  item.Quantity,
				Price:     item.Price.String(),
			}
		}),
		Total:     o.Total.String(),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("enc.Encode: %w", err)
	}
	return nil
}

package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/propagation"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

const (
	AggregateOrder  = "order"
	TypeOrderPlaced = "order.placed"

	headerTraceparent = "traceparent"
	headerEventType   = "event_type"
)

type Event struct {
	ID            int64
	AggregateType string
	AggregateID   string
	Type          string
	Payload       []byte
	Headers       map[string]string
	Traceparent   string
	RetryCount    int
	CreatedAt     time.Time
}

var propagator = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

type orderPlacedPayload struct {
	OrderID    string             `json:"order_id"`
	CustomerID string             `json:"customer_id"`
	Items      []orderItemPayload `json:"items"`
	Total      moneyPayload       `json:"total"`
	PlacedAt   time.Time          `json:"placed_at"`
}

type orderItemPayload struct {
	ProductID string       `json:"product_id"`
	Quantity  int          `json:"quantity"`
	Price     moneyPayload `json:"price"`
}

type moneyPayload struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// NewOrderPlacedEvent builds the outbox record for an order, carrying the
// trace context of ctx so consumers continue the placement trace.
func NewOrderPlacedEvent(ctx context.Context, ev domain.OrderPlaced) (Event, error) {
	payload, err := json.Marshal(orderPlacedPayload{
		OrderID:    ev.OrderID.String(),
		CustomerID: ev.CustomerID.String(),
		Items: lo.Map(ev.Items, func(item domain.OrderItem, _ int) orderItemPayload {
			return orderItemPayload{
				ProductID: item.ProductID.String(),
				Quantity:  item.Quantity,
				Price:     toMoneyPayload(item.Price),
			}
		}),
		Total:    toMoneyPayload(ev.Total),
		PlacedAt: ev.PlacedAt.UTC(),
	})
	if err != nil {
		return Event{}, fmt.Errorf("json.Marshal: %w", err)
	}

	headers := propagation.MapCarrier{}
	propagator.Inject(ctx, headers)

	traceparent := headers[headerTraceparent]
	delete(headers, headerTraceparent)

	return Event{
		AggregateType: AggregateOrder,
		AggregateID:   ev.OrderID.String(),
		Type:          TypeOrderPlaced,
		Payload:       payload,
		Headers:       headers,
		Traceparent:   traceparent,
	}, nil
}

func toMoneyPayload(m domain.Money) moneyPayload {
	return moneyPayload{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency.String(),
	}
}

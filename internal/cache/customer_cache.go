package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/nikolayk812/placeorder/internal/port"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CustomerCache is a read-through Redis cache in front of a CustomerRepository.
// Only found customers are cached; Redis failures fall back to the repository.
type CustomerCache struct {
	next port.CustomerRepository
	rdb  redis.UniversalClient
	ttl  time.Duration
	log  *zap.Logger
}

var _ port.CustomerRepository = (*CustomerCache)(nil)

func NewCustomerCache(next port.CustomerRepository, rdb redis.UniversalClient, ttl time.Duration, log *zap.Logger) (*CustomerCache, error) {
	if next == nil {
		return nil, errors.New("next is nil")
	}
	if rdb == nil {
		return nil, errors.New("rdb is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl[%s] is not positive", ttl)
	}
	if log == nil {
		return nil, errors.New("log is nil")
	}

	return &CustomerCache{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log,
	}, nil
}

type cachedCustomer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func Key(customerID uuid.UUID) string {
	return "customer:" + customerID.String()
}

func (c *CustomerCache) FindByID(ctx context.Context, customerID uuid.UUID) (domain.Customer, error) {
	key := Key(customerID)

	customer, err := c.get(ctx, key)
	switch {
	case err == nil:
		return customer, nil
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("customer cache read failed", zap.String("key", key), zap.Error(err))
	}

	customer, err = c.next.FindByID(ctx, customerID)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := c.set(ctx, key, customer); err != nil {
		c.log.Warn("customer cache write failed", zap.String("key", key), zap.Error(err))
	}

	return customer, nil
}

func (c *CustomerCache) InsertCustomer(ctx context.Context, customer domain.Customer) (uuid.UUID, error) {
	return c.next.InsertCustomer(ctx, customer)
}

func (c *CustomerCache) get(ctx context.Context, key string) (domain.Customer, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return domain.Customer{}, err
	}

	var cached cachedCustomer
	if err := json.Unmarshal(raw, &cached); err != nil {
		return domain.Customer{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return domain.Customer{
		ID:        cached.ID,
		Name:      cached.Name,
		Email:     cached.Email,
		CreatedAt: cached.CreatedAt,
	}, nil
}

func (c *CustomerCache) set(ctx context.Context, key string, customer domain.Customer) error {
	raw, err := json.Marshal(cachedCustomer{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}

	return nil
}

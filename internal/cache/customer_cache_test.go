package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/placeorder/internal/cache"
	"github.com/nikolayk812/placeorder/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type countingCustomers struct {
	customers map[uuid.UUID]domain.Customer
	calls     int
}

func (c *countingCustomers) FindByID(_ context.Context, customerID uuid.UUID) (domain.Customer, error) {
	c.calls++

	customer, ok := c.customers[customerID]
	if !ok {
		return domain.Customer{}, fmt.Errorf("find: %w", domain.ErrCustomerNotFound)
	}
	return customer, nil
}

func (c *countingCustomers) InsertCustomer(_ context.Context, customer domain.Customer) (uuid.UUID, error) {
	customer.ID = uuid.New()
	c.customers[customer.ID] = customer
	return customer.ID, nil
}

type customerCacheSuite struct {
	suite.Suite

	container *tcredis.RedisContainer
	rdb       *redis.Client
}

// entry point to run the tests in the suite
func TestCustomerCacheSuite(t *testing.T) {
	suite.Run(t, new(customerCacheSuite))
}

// before all tests in the suite
func (suite *customerCacheSuite) SetupSuite() {
	ctx := suite.T().Context()

	var err error

	suite.container, err = tcredis.Run(ctx, "redis:7-alpine")
	suite.Require().NoError(err)

	connStr, err := suite.container.ConnectionString(ctx)
	suite.Require().NoError(err)

	opts, err := redis.ParseURL(connStr)
	suite.Require().NoError(err)

	suite.rdb = redis.NewClient(opts)
}

// after all tests in the suite
func (suite *customerCacheSuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.rdb != nil {
		suite.NoError(suite.rdb.Close())
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *customerCacheSuite) newCache(ttl time.Duration) (*cache.CustomerCache, *countingCustomers) {
	next := &countingCustomers{customers: map[uuid.UUID]domain.Customer{}}

	c, err := cache.NewCustomerCache(next, suite.rdb, ttl, zaptest.NewLogger(suite.T()))
	suite.Require().NoError(err)

	return c, next
}

func (suite *customerCacheSuite) TestReadThrough() {
	t := suite.T()
	ctx := t.Context()

	c, next := suite.newCache(time.Minute)

	customerID, err := c.InsertCustomer(ctx, domain.Customer{
		Name:      gofakeit.Name(),
		Email:     gofakeit.Email(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	})
	require.NoError(t, err)

	first, err := c.FindByID(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	second, err := c.FindByID(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Email, second.Email)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	ttl, err := suite.rdb.TTL(ctx, cache.Key(customerID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func (suite *customerCacheSuite) TestNotFoundIsNotCached() {
	t := suite.T()
	ctx := t.Context()

	c, next := suite.newCache(time.Minute)
	unknown := uuid.New()

	for range 2 {
		_, err := c.FindByID(ctx, unknown)
		require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	}
	assert.Equal(t, 2, next.calls)

	exists, err := suite.rdb.Exists(ctx, cache.Key(unknown)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func (suite *customerCacheSuite) TestCorruptedEntryFallsBack() {
	t := suite.T()
	ctx := t.Context()

	c, next := suite.newCache(time.Minute)

	customerID, err := c.InsertCustomer(ctx, domain.Customer{Name: gofakeit.Name()})
	require.NoError(t, err)

	require.NoError(t, suite.rdb.Set(ctx, cache.Key(customerID), "not json", time.Minute).Err())

	customer, err := c.FindByID(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, customerID, customer.ID)
	assert.Equal(t, 1, next.calls)

	// the entry was rewritten
	_, err = c.FindByID(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
}

func TestCustomerCache_RedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() {
		_ = rdb.Close()
	}()

	next := &countingCustomers{customers: map[uuid.UUID]domain.Customer{}}
	c, err := cache.NewCustomerCache(next, rdb, time.Minute, zap.NewNop())
	require.NoError(t, err)

	customerID, err := c.InsertCustomer(t.Context(), domain.Customer{Name: gofakeit.Name()})
	require.NoError(t, err)

	customer, err := c.FindByID(t.Context(), customerID)
	require.NoError(t, err)
	assert.Equal(t, customerID, customer.ID)
	assert.Equal(t, 1, next.calls)
}

func TestNewCustomerCache(t *testing.T) {
	next := &countingCustomers{}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer func() {
		_ = rdb.Close()
	}()

	_, err := cache.NewCustomerCache(nil, rdb, time.Minute, zap.NewNop())
	require.EqualError(t, err, "next is nil")

	_, err = cache.NewCustomerCache(next, nil, time.Minute, zap.NewNop())
	require.EqualError(t, err, "rdb is nil")

	_, err = cache.NewCustomerCache(next, rdb, 0, zap.NewNop())
	require.EqualError(t, err, "ttl[0s] is not positive")

	_, err = cache.NewCustomerCache(next, rdb, time.Minute, nil)
	require.EqualError(t, err, "log is nil")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/placeorder/internal/cache"
	"github.com/nikolayk812/placeorder/internal/config"
	"github.com/nikolayk812/placeorder/internal/observability"
	"github.com/nikolayk812/placeorder/internal/port"
	"github.com/nikolayk812/placeorder/internal/repository"
	"github.com/nikolayk812/placeorder/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const usage = `usage: placeorder <command> [flags]

commands:
  migrate        create the database schema
  add-customer   -name NAME [-email EMAIL]
  add-product    -name NAME -price 9.99 -currency USD -quantity N
  set-stock      -stock PRODUCT_ID=N[,PRODUCT_ID=N...]
  place          -customer CUSTOMER_ID -item PRODUCT_ID:N [-item ...]
  get-order      -id ORDER_ID
  relay          publish outbox events to Kafka until interrupted
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) (err error) {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	shutdownTelemetry, err := observability.Setup(ctx, observability.TelemetryConfig{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
		Endpoint:       cfg.OtelEndpoint,
		AuthHeader:     cfg.OtelAuthHeader,
	})
	if err != nil {
		return fmt.Errorf("observability.Setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = errors.Join(err, shutdownTelemetry(shutdownCtx))
	}()

	log := observability.NewLogger(cfg.LogLevel, config.ServiceName)
	defer func() {
		_ = log.Sync()
	}()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	a, closeApp, err := newApp(cfg, pool, log)
	if err != nil {
		return fmt.Errorf("newApp: %w", err)
	}
	defer closeApp()

	return cmd(ctx, a, args[1:])
}

type app struct {
	cfg       config.Config
	log       *zap.Logger
	pool      *pgxpool.Pool
	customers port.CustomerRepository
	products  port.ProductRepository
	orders    port.OrderRepository
	outbox    repository.OutboxRepository
	orderSvc  *service.OrderService
}

func newApp(cfg config.Config, pool *pgxpool.Pool, log *zap.Logger) (*app, func(), error) {
	closeFn := func() {}

	customers := repository.NewCustomer(pool)

	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closeFn = func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis close failed", zap.Error(err))
			}
		}

		cached, err := cache.NewCustomerCache(customers, rdb, cfg.CustomerCacheTTL, log)
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("cache.NewCustomerCache: %w", err)
		}
		customers = cached
	}

	products := repository.NewProduct(pool)

	uow, err := repository.NewUnitOfWork(pool)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("repository.NewUnitOfWork: %w", err)
	}

	orderSvc, err := service.NewOrder(customers, products, uow, log)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("service.NewOrder: %w", err)
	}

	return &app{
		cfg:       cfg,
		log:       log,
		pool:      pool,
		customers: customers,
		products:  products,
		orders:    repository.NewOrder(pool),
		outbox:    repository.NewOutbox(pool),
		orderSvc:  orderSvc,
	}, closeFn, nil
}

func relayID(cfg config.Config) string {
	if cfg.RelayID != "" {
		return cfg.RelayID
	}

	host, err := os.Hostname()
	if err != nil {
		host = "placeorder"
	}
	return host + "-" + uuid.NewString()[:8]
}

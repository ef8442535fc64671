package setup

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bazaarkit/bazaar-order-service/internal/config"
	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	publisher "github.com/bazaarkit/bazaar-order-service/internal/infrastructure/kafka"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/locks"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/metrics"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/notifier"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/repository"
)

type Dependencies struct {
	Config       *config.OrderConfig
	DB           *gorm.DB
	Publisher    *publisher.DefaultKafkaPublisher
	Subscriber   domain.EventSubscriber
	Locker       domain.OrderLocker
	Dispatcher   *notifier.Dispatcher
	Metrics      *metrics.OrderMetrics
	Repositories *Repositories
}

type Repositories struct {
	OrderRepo domain.OrderRepository
	ProofRepo domain.ProofRepository
	StockRepo domain.StockLedger
	AuditRepo domain.AuditRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	eventPublisher := publisher.NewDefaultKafkaPublisher(brokers)
	eventSubscriber := publisher.NewDefaultKafkaSubscriber(brokers)

	locker, err := initLocker(cfg)
	if err != nil {
		return nil, fmt.Errorf("order locker: %w", err)
	}

	orderMetrics := metrics.NewOrderMetrics()

	dispatcher := notifier.NewDispatcher(
		notifier.NewCallbackTransport(cfg.BotGateway.Address),
		notifier.WithRetryPolicy(notifier.RetryPolicy{
			MaxAttempts: cfg.Notifications.MaxAttempts,
			BaseDelay:   cfg.Notifications.BaseDelay,
			Factor:      2,
			MaxDelay:    cfg.Notifications.MaxDelay,
		}),
		notifier.WithAttemptTimeout(cfg.Notifications.AttemptTimeout),
		notifier.WithBulkDelay(cfg.Notifications.BulkDelay),
		notifier.WithBulkWorkers(cfg.Notifications.BulkWorkers),
		notifier.WithMetrics(orderMetrics),
	)

	repos := &Repositories{
		OrderRepo: repository.NewDefaultOrderRepository(db),
		ProofRepo: repository.NewDefaultProofRepository(db),
		StockRepo: repository.NewDefaultStockRepository(db),
		AuditRepo: repository.NewDefaultAuditRepository(db),
	}

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		Publisher:    eventPublisher,
		Subscriber:   eventSubscriber,
		Locker:       locker,
		Dispatcher:   dispatcher,
		Metrics:      orderMetrics,
		Repositories: repos,
	}, nil
}

func initLocker(cfg *config.OrderConfig) (domain.OrderLocker, error) {
	switch cfg.Locks.Backend {
	case "", "memory":
		return locks.NewKeyedMutex(), nil
	case "redis":
		if cfg.Locks.RedisAddr == "" {
			return nil, fmt.Errorf("locks backend %q requires redis_addr", cfg.Locks.Backend)
		}
		return locks.NewRedsyncLocker(cfg.Locks.RedisAddr, cfg.Locks.LockExpiry), nil
	}
	return nil, fmt.Errorf("unknown locks backend %q", cfg.Locks.Backend)
}

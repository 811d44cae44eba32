package cmd

import (
	"context"
	"fmt"

	httpin "takeout/internal/adapters/in/http"
	kafkain "takeout/internal/adapters/in/kafka"
	kafkaout "takeout/internal/adapters/out/kafka"
	"takeout/internal/adapters/out/postgres"
	redisout "takeout/internal/adapters/out/redis"
	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/application/usecases/queries"
	"takeout/internal/core/ports"
	"takeout/internal/jobs"
	"takeout/internal/pkg/logger"
	"takeout/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CompositionRoot struct {
	cfg        Config
	logger     *zap.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	registry   *prometheus.Registry
	metrics    *metrics.Metrics

	gateway   ports.PaymentGateway
	publisher ports.EventPublisher
	lock      ports.SweepLock
	closers   []func() error

	lifecycle *commands.Lifecycle
}

// NewCompositionRoot connects to postgres and, when enabled, to kafka and
// redis. Call Close to release them.
func NewCompositionRoot(ctx context.Context, cfg Config, log *zap.Logger) (*CompositionRoot, error) {
	gormDB, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &CompositionRoot{
		cfg:        cfg,
		logger:     log,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:   registry,
		metrics:    metrics.New(registry),
	}
	c.closers = append(c.closers, func() error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	c.wireMessaging()
	if err = c.wireSweepLock(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.lifecycle = commands.NewLifecycle(
		c.orderUoWFactory(),
		c.gateway,
		c.publisher,
		c.metrics,
		logger.Component(log, "lifecycle"),
	)
	return c, nil
}

// OpenDB opens the gorm connection pool.
func OpenDB(cfg Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(pgdriver.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	return gormDB, nil
}

func (c *CompositionRoot) wireMessaging() {
	if !c.cfg.KafkaEnabled {
		c.gateway = kafkaout.NewNoopRefundGateway(c.logger)
		c.publisher = kafkaout.NewNoopEventPublisher(c.logger)
		return
	}

	kafkaLog := logger.Component(c.logger, "kafka")
	gateway := kafkaout.NewRefundGateway(kafkaout.NewWriter(c.cfg.KafkaHosts, c.cfg.KafkaRefundRequestedTopic, kafkaLog))
	publisher := kafkaout.NewOrderChangedPublisher(kafkaout.NewWriter(c.cfg.KafkaHosts, c.cfg.KafkaOrderChangedTopic, kafkaLog))

	c.gateway = gateway
	c.publisher = publisher
	c.closers = append(c.closers, gateway.Close, publisher.Close)
}

func (c *CompositionRoot) wireSweepLock(ctx context.Context) error {
	if !c.cfg.SweepLockEnabled {
		c.lock = redisout.NoopSweepLock{}
		return nil
	}

	client, err := redisout.NewClient(ctx, c.cfg.RedisAddr, c.cfg.RedisPassword, c.cfg.RedisDB)
	if err != nil {
		return err
	}
	c.lock = redisout.NewSweepLock(client)
	c.closers = append(c.closers, client.Close)
	return nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) cartUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() *commands.SubmitOrderCommandHandler {
	h := commands.NewSubmitOrderCommandHandler(c.cartUoWFactory(), logger.Component(c.logger, "submit_order"))
	return &h
}

func (c *CompositionRoot) CreateUserCancelOrderCommandHandler() *commands.UserCancelOrderCommandHandler {
	h := commands.NewUserCancelOrderCommandHandler(c.lifecycle)
	return &h
}

func (c *CompositionRoot) CreateReorderCommandHandler() *commands.ReorderCommandHandler {
	h := commands.NewReorderCommandHandler(c.cartUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() *commands.ConfirmPaymentCommandHandler {
	h := commands.NewConfirmPaymentCommandHandler(c.lifecycle)
	return &h
}

func (c *CompositionRoot) CreateMerchantCommandHandler() *commands.MerchantCommandHandler {
	h := commands.NewMerchantCommandHandler(c.lifecycle)
	return &h
}

func (c *CompositionRoot) CreateSweepTimedOutOrdersCommandHandler() *commands.SweepTimedOutOrdersCommandHandler {
	h := commands.NewSweepTimedOutOrdersCommandHandler(
		c.orderUoWFactory(),
		c.lifecycle,
		c.metrics,
		logger.Component(c.logger, "sweeper"),
	)
	return &h
}

func (c *CompositionRoot) CreateGetOrderStatisticsQueryHandler() queries.GetOrderStatisticsQueryHandler {
	return queries.NewGetOrderStatisticsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderDetailQueryHandler() queries.GetOrderDetailQueryHandler {
	return queries.NewGetOrderDetailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateSearchOrdersQueryHandler() queries.SearchOrdersQueryHandler {
	return queries.NewSearchOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.SweepConfig{
			UnpaidTimeout:    c.cfg.UnpaidOrderTimeout,
			UnpaidInterval:   c.cfg.SweepUnpaidInterval,
			DeliveryTimeout:  c.cfg.DeliveryTimeout,
			DeliveryInterval: c.cfg.SweepDeliveryInterval,
		},
		c.CreateSweepTimedOutOrdersCommandHandler(),
		c.lock,
		c.metrics,
		c.logger,
	)
}

func (c *CompositionRoot) CreateEcho() *echo.Echo {
	server := httpin.NewServer(httpin.Handlers{
		SubmitOrder:    c.CreateSubmitOrderCommandHandler(),
		UserCancel:     c.CreateUserCancelOrderCommandHandler(),
		Reorder:        c.CreateReorderCommandHandler(),
		ConfirmPayment: c.CreateConfirmPaymentCommandHandler(),
		Merchant:       c.CreateMerchantCommandHandler(),
		Statistics:     c.CreateGetOrderStatisticsQueryHandler(),
		OrderDetail:    c.CreateGetOrderDetailQueryHandler(),
		SearchOrders:   c.CreateSearchOrdersQueryHandler(),
	}, c.logger)

	return httpin.NewEcho(server, c.metrics, c.registry, c.logger)
}

// CreatePaymentConfirmedConsumer returns nil when kafka is disabled.
func (c *CompositionRoot) CreatePaymentConfirmedConsumer() *kafkain.PaymentConfirmedConsumer {
	if !c.cfg.KafkaEnabled {
		return nil
	}

	kafkaLog := logger.Component(c.logger, "kafka")
	reader := kafkain.NewReader(c.cfg.KafkaHosts, c.cfg.KafkaConsumerGroup, c.cfg.KafkaPaymentConfirmedTopic, kafkaLog)
	consumer := kafkain.NewPaymentConfirmedConsumer(reader, c.CreateConfirmPaymentCommandHandler(), kafkaLog)
	c.closers = append(c.closers, consumer.Close)
	return consumer
}

// Close releases connections in reverse order of creation.
func (c *CompositionRoot) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

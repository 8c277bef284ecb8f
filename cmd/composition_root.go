package cmd

import (
	"errors"

	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/metrics"

	"go.uber.org/zap"
)

// CompositionRoot wires the adapters, the domain services and the use cases.
type CompositionRoot struct {
	cfg        Config
	uowFactory ports.UnitOfWorkFactory
	validators *commands.ValidatorFactory
	metrics    *metrics.FulfillmentMetrics
	publisher  *kafka.OrderEventPublisher
	logger     *zap.Logger
}

// NewCompositionRoot builds the shared services. Order events are published to Kafka
// only when a Kafka host is configured.
func NewCompositionRoot(
	cfg Config,
	uowFactory ports.UnitOfWorkFactory,
	recorder *metrics.FulfillmentMetrics,
	logger *zap.Logger,
) (*CompositionRoot, error) {
	if uowFactory == nil {
		return nil, errors.New("uow factory is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	policy, err := services.ParseQuantityPolicy(cfg.QuantityPolicy)
	if err != nil {
		return nil, err
	}
	gate, err := services.NewDistanceGate(geo.NewHaversineOracle())
	if err != nil {
		return nil, err
	}
	validators, err := commands.NewValidatorFactory(gate, policy)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		cfg:        cfg,
		uowFactory: uowFactory,
		validators: validators,
		metrics:    recorder,
		logger:     logger,
	}

	if cfg.KafkaHost != "" {
		root.publisher, err = kafka.NewOrderEventPublisher(cfg.KafkaHost, cfg.KafkaOrderChangedTopic, logger)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Composition root ready",
		zap.String("quantity_policy", string(policy)),
		zap.Bool("kafka", root.publisher != nil),
	)
	return root, nil
}

// Close releases the event publisher.
func (c *CompositionRoot) Close() error {
	if c.publisher == nil {
		return nil
	}
	return c.publisher.Close()
}

func (c *CompositionRoot) options() []commands.Option {
	opts := []commands.Option{commands.WithLogger(c.logger)}
	if c.metrics != nil {
		opts = append(opts, commands.WithRecorder(c.metrics))
	}
	if c.publisher != nil {
		opts = append(opts,
			commands.WithPublisher(c.publisher),
			commands.WithPublishTimeout(c.cfg.KafkaPublishTimeout))
	}
	return opts
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) stockUoWFactory() commands.StockUoWFactory {
	return FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) readUoWFactory() queries.ReadUoWFactory {
	return FuncReadUoWFactory(func() queries.ReadUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCommitOrderCommandHandler() (*commands.CommitOrderCommandHandler, error) {
	return commands.NewCommitOrderCommandHandler(c.fulfillmentUoWFactory(), c.validators, c.options()...)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() (*commands.UpdateOrderCommandHandler, error) {
	return commands.NewUpdateOrderCommandHandler(c.fulfillmentUoWFactory(), c.validators, c.options()...)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() (*commands.DeleteOrderCommandHandler, error) {
	return commands.NewDeleteOrderCommandHandler(c.fulfillmentUoWFactory(), c.options()...)
}

func (c *CompositionRoot) CreateReceiveStockCommandHandler() (*commands.ReceiveStockCommandHandler, error) {
	return commands.NewReceiveStockCommandHandler(c.stockUoWFactory(), c.options()...)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() (*queries.GetOrderQueryHandler, error) {
	return queries.NewGetOrderQueryHandler(c.readUoWFactory())
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() (*queries.ListOrdersQueryHandler, error) {
	return queries.NewListOrdersQueryHandler(c.readUoWFactory())
}

func (c *CompositionRoot) CreateProducerOrdersQueryHandler() (*queries.ProducerOrdersQueryHandler, error) {
	return queries.NewProducerOrdersQueryHandler(c.readUoWFactory())
}

func (c *CompositionRoot) CreateGetStockQueryHandler() (*queries.GetStockQueryHandler, error) {
	return queries.NewGetStockQueryHandler(c.readUoWFactory())
}

// CreateHTTPHandlers builds every use case served by the API.
func (c *CompositionRoot) CreateHTTPHandlers() (http.Handlers, error) {
	var (
		h    http.Handlers
		errs [8]error
	)
	h.CommitOrder, errs[0] = c.CreateCommitOrderCommandHandler()
	h.UpdateOrder, errs[1] = c.CreateUpdateOrderCommandHandler()
	h.DeleteOrder, errs[2] = c.CreateDeleteOrderCommandHandler()
	h.ReceiveStock, errs[3] = c.CreateReceiveStockCommandHandler()
	h.GetOrder, errs[4] = c.CreateGetOrderQueryHandler()
	h.ListOrders, errs[5] = c.CreateListOrdersQueryHandler()
	h.ProducerOrders, errs[6] = c.CreateProducerOrdersQueryHandler()
	h.GetStock, errs[7] = c.CreateGetStockQueryHandler()
	return h, errors.Join(errs[:]...)
}

// CreateJobManager builds the scheduled jobs. It requires metrics.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	if c.metrics == nil {
		return nil, errors.New("metrics are required by the stock gauge job")
	}
	stockQueries, err := c.CreateGetStockQueryHandler()
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(
		jobs.NewStockGaugeJob(stockQueries, c.metrics, c.cfg.StockGaugeSchedule, c.logger),
	), nil
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncStockUoWFactory func() commands.StockUoW

func (f FuncStockUoWFactory) Create() commands.StockUoW {
	return f()
}

type FuncReadUoWFactory func() queries.ReadUoW

func (f FuncReadUoWFactory) Create() queries.ReadUoW {
	return f()
}

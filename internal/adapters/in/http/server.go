// Package http exposes the order and stock use cases over a JSON API.
package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handlers groups the use cases served by the API.
type Handlers struct {
	CommitOrder    *commands.CommitOrderCommandHandler
	UpdateOrder    *commands.UpdateOrderCommandHandler
	DeleteOrder    *commands.DeleteOrderCommandHandler
	ReceiveStock   *commands.ReceiveStockCommandHandler
	GetOrder       *queries.GetOrderQueryHandler
	ListOrders     *queries.ListOrdersQueryHandler
	ProducerOrders *queries.ProducerOrdersQueryHandler
	GetStock       *queries.GetStockQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *zap.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{h: h, logger: logger.With(zap.String("component", "http"))}
}

func pathID(c echo.Context, name string) (kernel.ID, error) {
	return kernel.ParseID(name, c.Param(name))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var body Order
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	aggregate, err := body.toAggregate()
	if err != nil {
		return invalid(c, err)
	}
	cmd, err := commands.NewCommitOrderCommand(aggregate)
	if err != nil {
		return invalid(c, err)
	}

	committed, err := s.h.CommitOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, fromAggregate(committed))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return invalid(c, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return invalid(c, err)
	}

	aggregate, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, fromAggregate(aggregate))
}

// UpdateOrder handles PUT /api/v1/orders/:id.
func (s *Server) UpdateOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return invalid(c, err)
	}
	var body Order
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	aggregate, err := body.toAggregate()
	if err != nil {
		return invalid(c, err)
	}
	cmd, err := commands.NewUpdateOrderCommand(id, aggregate)
	if err != nil {
		return invalid(c, err)
	}

	updated, err := s.h.UpdateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, fromAggregate(updated))
}

// DeleteOrder handles DELETE /api/v1/orders/:id.
func (s *Server) DeleteOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return invalid(c, err)
	}
	cmd, err := commands.NewDeleteOrderCommand(id)
	if err != nil {
		return invalid(c, err)
	}

	if err := s.h.DeleteOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOrders handles GET /api/v1/orders with exactly one of the
// clientId, producerId or productId filters.
func (s *Server) ListOrders(c echo.Context) error {
	type filter struct {
		param string
		build func(kernel.ID) (queries.ListOrdersQuery, error)
	}
	filters := []filter{
		{"clientId", queries.NewListOrdersByClientQuery},
		{"producerId", queries.NewListOrdersByProducerQuery},
		{"productId", queries.NewListOrdersByProductQuery},
	}

	var (
		query queries.ListOrdersQuery
		found int
	)
	for _, f := range filters {
		raw := c.QueryParam(f.param)
		if raw == "" {
			continue
		}
		found++
		id, err := kernel.ParseID(f.param, raw)
		if err != nil {
			return invalid(c, err)
		}
		if query, err = f.build(id); err != nil {
			return invalid(c, err)
		}
	}
	if found != 1 {
		return badRequest(c, "Exactly one of clientId, producerId or productId is required")
	}

	aggregates, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, fromAggregates(aggregates))
}

// ListProducerOrders handles GET /api/v1/producers/:id/orders.
func (s *Server) ListProducerOrders(c echo.Context) error {
	producerID, err := pathID(c, "id")
	if err != nil {
		return invalid(c, err)
	}
	query, err := queries.NewListProducerOrdersQuery(producerID)
	if err != nil {
		return invalid(c, err)
	}

	aggregates, err := s.h.ProducerOrders.HandleList(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, fromAggregates(aggregates))
}

// GetProducerOrder handles GET /api/v1/producers/:id/orders/:orderId.
func (s *Server) GetProducerOrder(c echo.Context) error {
	producerID, err := pathID(c, "id")
	if err != nil {
		return invalid(c, err)
	}
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return invalid(c, err)
	}
	query, err := queries.NewGetProducerOrderQuery(producerID, orderID)
	if err != nil {
		return invalid(c, err)
	}

	aggregate, err := s.h.ProducerOrders.HandleGet(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, fromAggregate(aggregate))
}

// GetStock handles GET /api/v1/producers/:id/stock/:productId.
func (s *Server) GetStock(c echo.Context) error {
	producerID, err := pathID(c, "id")
	if err != nil {
		return invalid(c, err)
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return invalid(c, err)
	}
	query, err := queries.NewGetStockQuery(producerID, productID)
	if err != nil {
		return invalid(c, err)
	}

	entry, err := s.h.GetStock.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, fromEntry(entry))
}

// ReceiveStock handles POST /api/v1/producers/:id/stock/:productId.
func (s *Server) ReceiveStock(c echo.Context) error {
	producerID, err := pathID(c, "id")
	if err != nil {
		return invalid(c, err)
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return invalid(c, err)
	}
	var body ReceiveStock
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	quantity, err := newQuantity("quantity", body.Quantity)
	if err != nil {
		return invalid(c, err)
	}

	cmd, err := commands.NewReceiveStockCommand(producerID, productID, quantity)
	if err != nil {
		return invalid(c, err)
	}
	entry, err := s.h.ReceiveStock.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, fromEntry(entry))
}

// ListStock handles GET /api/v1/stock.
func (s *Server) ListStock(c echo.Context) error {
	entries, err := s.h.GetStock.HandleList(c.Request().Context(), queries.ListStockQuery{})
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, fromEntries(entries))
}

// ListProductStock handles GET /api/v1/products/:id/stock: the producers carrying a product.
func (s *Server) ListProductStock(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return invalid(c, err)
	}
	query, err := queries.NewProductStockQuery(productID)
	if err != nil {
		return invalid(c, err)
	}

	entries, err := s.h.GetStock.HandleByProduct(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, fromEntries(entries))
}

// Package http exposes the order lifecycle over a JSON API built on echo.
package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/application/usecases/queries"
	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// EmployeeHeader carries the id of the employee behind an admin request.
const EmployeeHeader = "X-Employee-Id"

type (
	OrderSubmitter interface {
		Handle(ctx context.Context, cmd commands.SubmitOrderCommand) (commands.OrderSummary, error)
	}
	UserOrderCanceller interface {
		Handle(ctx context.Context, cmd commands.UserCancelOrderCommand) error
	}
	Reorderer interface {
		Handle(ctx context.Context, cmd commands.ReorderCommand) error
	}
	PaymentConfirmer interface {
		Handle(ctx context.Context, cmd commands.ConfirmPaymentCommand) error
	}
	MerchantActions interface {
		Confirm(ctx context.Context, cmd commands.MerchantConfirmCommand) error
		Reject(ctx context.Context, cmd commands.MerchantRejectCommand) error
		Cancel(ctx context.Context, cmd commands.MerchantCancelCommand) error
		StartDelivery(ctx context.Context, cmd commands.StartDeliveryCommand) error
		CompleteDelivery(ctx context.Context, cmd commands.CompleteDeliveryCommand) error
	}
	StatisticsReader interface {
		Handle(ctx context.Context, query queries.GetOrderStatisticsQuery) (queries.OrderStatistics, error)
	}
	OrderDetailReader interface {
		Handle(ctx context.Context, query queries.GetOrderDetailQuery) (queries.OrderDetail, error)
	}
	OrderSearcher interface {
		Handle(ctx context.Context, query queries.SearchOrdersQuery) (queries.OrderPage, error)
	}
)

// Handlers are the use cases the API maps onto.
type Handlers struct {
	SubmitOrder    OrderSubmitter
	UserCancel     UserOrderCanceller
	Reorder        Reorderer
	ConfirmPayment PaymentConfirmer
	Merchant       MerchantActions
	Statistics     StatisticsReader
	OrderDetail    OrderDetailReader
	SearchOrders   OrderSearcher
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *zap.Logger
}

func NewServer(h Handlers, logger *zap.Logger) *Server {
	return &Server{h: h, logger: logger.With(zap.String("component", "http"))}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	user := e.Group("/api/v1/users/:userId/orders")
	user.POST("", s.SubmitOrder)
	user.PUT("/:id/cancel", s.UserCancelOrder)
	user.POST("/:id/reorder", s.Reorder)

	e.POST("/api/v1/payments/notify", s.NotifyPaymentSuccess)

	admin := e.Group("/api/v1/admin/orders")
	admin.GET("", s.SearchOrders)
	admin.GET("/statistics", s.GetOrderStatistics)
	admin.GET("/:id", s.GetOrderDetail)
	admin.PUT("/:id/confirm", s.MerchantConfirmOrder)
	admin.PUT("/:id/reject", s.MerchantRejectOrder)
	admin.PUT("/:id/cancel", s.MerchantCancelOrder)
	admin.PUT("/:id/delivery", s.StartDelivery)
	admin.PUT("/:id/complete", s.CompleteDelivery)
}

// SubmitOrder handles POST /api/v1/users/:userId/orders.
func (s *Server) SubmitOrder(c echo.Context) error {
	userID, err := int64Param(c, "userId")
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	var req SubmitOrderRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	fee := kernel.Zero
	if strings.TrimSpace(req.PackagingFee) != "" {
		if fee, err = kernel.ParseMoney(req.PackagingFee); err != nil {
			return s.writeError(c, err)
		}
	}

	cmd, err := commands.NewSubmitOrderCommand(
		userID, req.AddressBookID, order.PayMethod(req.PayMethod), fee, req.Remark, req.TablewareCount,
	)
	if err != nil {
		return s.writeError(c, err)
	}

	summary, err := s.h.SubmitOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toSummaryResponse(summary))
}

// UserCancelOrder handles PUT /api/v1/users/:userId/orders/:id/cancel.
func (s *Server) UserCancelOrder(c echo.Context) error {
	userID, orderID, err := userOrderParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewUserCancelOrderCommand(orderID, userID)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.noContent(c, s.h.UserCancel.Handle(c.Request().Context(), cmd))
}

// Reorder handles POST /api/v1/users/:userId/orders/:id/reorder.
func (s *Server) Reorder(c echo.Context) error {
	userID, orderID, err := userOrderParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewReorderCommand(orderID, userID)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.noContent(c, s.h.Reorder.Handle(c.Request().Context(), cmd))
}

// NotifyPaymentSuccess handles POST /api/v1/payments/notify.
func (s *Server) NotifyPaymentSuccess(c echo.Context) error {
	var req PaymentNotifyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewConfirmPaymentCommand(req.OrderNumber)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.noContent(c, s.h.ConfirmPayment.Handle(c.Request().Context(), cmd))
}

// MerchantConfirmOrder handles PUT /api/v1/admin/orders/:id/confirm.
func (s *Server) MerchantConfirmOrder(c echo.Context) error {
	employeeID, orderID, err := adminOrderParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewMerchantConfirmCommand(orderID, employeeID)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.noContent(c, s.h.Merchant.Confirm(c.Request().Context(), cmd))
}

// MerchantRejectOrder handles PUT /api/v1/admin/orders/:id/reject.
func (s *Server) MerchantRejectOrder(c echo.Context) error {
	employeeID, orderID, err := adminOrderParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req ReasonRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewMerchantRejectCommand(orderID, employeeID, req.Reason)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.noContent(c, s.h.Merchant.Reject(c.Request().Context(), cmd))
}

// MerchantCancelOrder handles PUT /api/v1/admin/orders/:id/cancel.
func (s *Server) MerchantCancelOrder(c echo.Context) error {
	employeeID, orderID, err := adminOrderParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req ReasonRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewMerchantCancelCommand(orderID, employeeID, req.Reason)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.noContent(c, s.h.Merchant.Cancel(c.Request().Context(), cmd))
}

// StartDelivery handles PUT /api/v1/admin/orders/:id/delivery.
func (s *Server) StartDelivery(c echo.Context) error {
	employeeID, orderID, err := adminOrderParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewStartDeliveryCommand(orderID, employeeID)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.noContent(c, s.h.Merchant.StartDelivery(c.Request().Context(), cmd))
}

// CompleteDelivery handles PUT /api/v1/admin/orders/:id/complete.
func (s *Server) CompleteDelivery(c echo.Context) error {
	employeeID, orderID, err := adminOrderParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, employeeID)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.noContent(c, s.h.Merchant.CompleteDelivery(c.Request().Context(), cmd))
}

// GetOrderStatistics handles GET /api/v1/admin/orders/statistics.
func (s *Server) GetOrderStatistics(c echo.Context) error {
	stats, err := s.h.Statistics.Handle(c.Request().Context(), queries.NewGetOrderStatisticsQuery())
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, StatisticsResponse{
		ToBeConfirmed:      stats.ToBeConfirmed,
		Confirmed:          stats.Confirmed,
		DeliveryInProgress: stats.DeliveryInProgress,
	})
}

// GetOrderDetail handles GET /api/v1/admin/orders/:id.
func (s *Server) GetOrderDetail(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	query, err := queries.NewGetOrderDetailQuery(orderID)
	if err != nil {
		return s.writeError(c, err)
	}

	detail, err := s.h.OrderDetail.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toDetailResponse(detail))
}

// SearchOrders handles GET /api/v1/admin/orders.
//
// Query parameters: userId, status (code or name), number, phone,
// beginTime and endTime (RFC 3339), page, pageSize.
func (s *Server) SearchOrders(c echo.Context) error {
	filter, err := searchFilter(c)
	if err != nil {
		return s.writeError(c, err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	query, err := queries.NewSearchOrdersQuery(filter, page, pageSize)
	if err != nil {
		return s.writeError(c, err)
	}

	result, err := s.h.SearchOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toPageResponse(result))
}

func (s *Server) noContent(c echo.Context, err error) error {
	if err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func searchFilter(c echo.Context) (queries.OrderFilter, error) {
	filter := queries.OrderFilter{
		Number: c.QueryParam("number"),
		Phone:  c.QueryParam("phone"),
	}

	if v := c.QueryParam("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return queries.OrderFilter{}, invalidParam("userId", err)
		}
		filter.UserID = id
	}

	if v := c.QueryParam("status"); v != "" {
		status, err := parseStatus(v)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		filter.Status = status
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"beginTime", &filter.Begin}, {"endTime", &filter.End}} {
		v := c.QueryParam(p.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return queries.OrderFilter{}, invalidParam(p.name, err)
		}
		*p.dst = &t
	}

	return filter, nil
}

func parseStatus(v string) (order.Status, error) {
	if code, err := strconv.Atoi(v); err == nil {
		status := order.Status(code)
		return status, status.Validate()
	}
	return order.ParseStatus(v)
}

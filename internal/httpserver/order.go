package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avelkov/eshop-api/internal/events"
	"github.com/avelkov/eshop-api/internal/logging"
	"github.com/avelkov/eshop-api/internal/service"
	"github.com/avelkov/eshop-api/internal/transport"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *events.Producer
}

func (h *OrderHTTP) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, events.TopicOrderEvents, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_failed", "error", err)
	}
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	orders, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("list_orders_failed", "status", 500, "error", err)
		return httpError(err, "cannot get orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	order, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_order_failed", "status", 404, "reason", "order not found")
			return echo.NewHTTPError(http.StatusNotFound, "order NOT found")
		}
		l.Error("get_order_failed", "status", 500, "error", err)
		return httpError(err, "cannot get order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(ctx, req)
	if err != nil {
		l.Error("create_order_failed", "error", err)
		return httpError(err, "the order could not be created")
	}

	h.publish(c, map[string]any{
		"type":       "order_created",
		"orderID":    order.ID,
		"userID":     order.UserID,
		"totalPrice": order.TotalPrice,
	})

	l.Info("create_order_success", "order_id", order.ID, "total_price", order.TotalPrice)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout_session")

	var items []transport.CheckoutItem
	if err := c.Bind(&items); err != nil {
		l.Warn("checkout_session_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sessionID, err := h.Svc.CreateCheckoutSession(ctx, items)
	if err != nil {
		l.Error("checkout_session_failed", "error", err)
		return httpError(err, "checkout session can not be created")
	}

	l.Info("checkout_session_success")
	return c.JSON(http.StatusOK, transport.CheckoutSessionResponse{ID: sessionID})
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_order_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_order_failed", "status", 404, "reason", "order not found")
			return echo.NewHTTPError(http.StatusNotFound, "the order cannot be updated")
		}
		l.Error("update_order_failed", "error", err)
		return httpError(err, "the order cannot be updated")
	}

	l.Info("update_order_success", "order_id", order.ID, "order_status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_order_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_order_failed", "status", 404, "reason", "order not found")
			return c.JSON(http.StatusNotFound, transport.Envelope{Success: false, Message: "order NOT found"})
		}
		l.Error("delete_order_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Envelope{Success: false, Error: "cannot delete order"})
	}

	h.publish(c, map[string]any{"type": "order_deleted", "orderID": id})

	l.Info("delete_order_success", "order_id", id)
	return c.JSON(http.StatusOK, transport.Envelope{Success: true, Message: "the order was deleted"})
}

func (h *OrderHTTP) GetTotalSales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.totalsales")

	total, err := h.Svc.TotalSales(ctx)
	if err != nil {
		l.Error("get_totalsales_failed", "status", 500, "error", err)
		return httpError(err, "the order sales can not be generated")
	}
	return c.JSON(http.StatusOK, map[string]float64{"totalSales": total})
}

func (h *OrderHTTP) GetOrderCount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.count")

	n, err := h.Svc.Count(ctx)
	if err != nil {
		l.Error("get_order_count_failed", "status", 500, "error", err)
		return httpError(err, "cannot count orders")
	}
	return c.JSON(http.StatusOK, map[string]int64{"orderCount": n})
}

func (h *OrderHTTP) GetUserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.user_orders")

	userID, err := uuid.Parse(c.Param("userid"))
	if err != nil {
		l.Warn("get_user_orders_failed", "status", 400, "reason", "userid not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "userid not a uuid")
	}

	orders, err := h.Svc.ListUserOrders(ctx, userID)
	if err != nil {
		l.Error("get_user_orders_failed", "status", 500, "error", err)
		return httpError(err, "cannot get user orders")
	}
	return c.JSON(http.StatusOK, orders)
}

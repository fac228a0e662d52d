package httpserver

import (
	"net/http"

	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/mykafka"
	"github.com/LithiumKitmap/Site/internal/service"
	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	Svc      *service.CheckoutService
	Producer *mykafka.Producer
}

func (h *CheckoutHandler) Begin(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Method string `json:"method"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	redirect, err := h.Svc.BeginCheckout(ctx, userID, req.Method)
	if err != nil {
		return serviceError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":   "checkout_started",
		"userID": userID,
		"method": req.Method,
		"total":  redirect.Total,
	})

	return c.JSON(http.StatusOK, redirect)
}

func (h *CheckoutHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.confirm")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Method string `json:"method"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	orders, err := h.Svc.ConfirmCheckout(ctx, userID, req.Method)
	if err != nil {
		l.Error("checkout confirm failed", "user_id", userID, "method", req.Method, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":   "checkout_confirmed",
		"userID": userID,
		"method": req.Method,
		"orders": len(orders),
	})

	l.Info("checkout confirmed", "user_id", userID, "orders", len(orders))
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

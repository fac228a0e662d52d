package httpserver

import (
	"net/http"

	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/mykafka"
	"github.com/LithiumKitmap/Site/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get cart failed", "user_id", userID, "error", err)
		return serviceError(err)
	}

	_, total := service.CartTotal(items)
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": len(items),
		"total": total,
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.ProductID)
	if err != nil {
		l.Warn("add to cart failed", "user_id", userID, "product_id", req.ProductID, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
	})

	l.Info("item added to cart", "user_id", userID, "product_id", req.ProductID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) DeleteFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveFromCart(ctx, userID, itemID); err != nil {
		return serviceError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":         "cart_item_deleted",
		"userID":       userID,
		"deleted_item": itemID,
	})

	return c.JSON(http.StatusOK, echo.Map{"deleted_item": itemID})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	report, err := h.Svc.ClearCart(ctx, userID)
	if err != nil {
		l.Error("cart clear failed", "user_id", userID, "error", err)
		if report != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error":  err.Error(),
				"report": report,
			})
		}
		return serviceError(err)
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":    "cart_cleared",
		"userID":  userID,
		"cleared": len(report.Succeeded),
	})

	l.Info("cart cleared", "user_id", userID, "cleared", len(report.Succeeded))
	return c.JSON(http.StatusOK, report)
}

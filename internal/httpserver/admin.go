package httpserver

import (
	"net/http"

	"github.com/LithiumKitmap/Site/internal/logging"
	"github.com/LithiumKitmap/Site/internal/mykafka"
	"github.com/LithiumKitmap/Site/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	Svc      *service.AdminService
	Producer *mykafka.Producer
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Svc.ListUsers(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) BulkGrant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.grant")

	adminID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		UserID     uuid.UUID   `json:"user_id"`
		ProductIDs []uuid.UUID `json:"product_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	report, err := h.Svc.BulkGrant(ctx, req.UserID, req.ProductIDs)
	if err != nil {
		l.Error("bulk grant failed", "target", req.UserID, "error", err)
		return serviceError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "bulk_grant",
		"userID":  adminID,
		"target":  req.UserID,
		"granted": len(report.Report.Succeeded),
		"failed":  len(report.Report.Failed),
	})

	status := http.StatusOK
	if !report.Report.Ok() {
		// The succeeded grants stay applied; the caller gets the split.
		status = http.StatusMultiStatus
	}
	l.Info("bulk grant finished", "target", req.UserID,
		"granted", len(report.Report.Succeeded), "failed", len(report.Report.Failed))
	return c.JSON(status, report)
}

func (h *AdminHandler) ResetPurchases(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.reset")

	adminID, err := GetUserID(c)
	if err != nil {
		return err
	}

	report, err := h.Svc.ResetPurchases(ctx)
	if err != nil {
		l.Error("purchase reset failed", "error", err)
		if report != nil {
			return c.JSON(http.StatusMultiStatus, echo.Map{
				"error":  err.Error(),
				"report": report,
			})
		}
		return serviceError(err)
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":   "purchase_reset",
		"userID": adminID,
	})

	l.Info("purchase reset finished",
		"orders", len(report.Orders.Succeeded),
		"downloads", len(report.Downloads.Succeeded),
		"users", len(report.Users.Succeeded))
	return c.JSON(http.StatusOK, report)
}

package httpserver

import (
	"net/http"

	"github.com/LithiumKitmap/Site/internal/service"
	"github.com/labstack/echo/v4"
)

type DownloadHandler struct {
	Svc *service.DownloadService
}

func (h *DownloadHandler) ListDownloads(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	entries, err := h.Svc.ListUserDownloads(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

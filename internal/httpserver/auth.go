package httpserver

import (
	"net/http"
	"time"

	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/LithiumKitmap/Site/internal/mykafka"
	"github.com/LithiumKitmap/Site/internal/service"
	"github.com/LithiumKitmap/Site/internal/service/token"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Tokens   *token.TokenService
	Producer *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err)
	}

	publish(c, h.Producer, "user_events", map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err)
	}

	accessToken, err := token.SignAccessToken(user.ID, user.Role, h.Tokens.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create access token")
	}
	refreshToken, err := token.SignRefreshToken(user.ID, user.Role, h.Tokens.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create refresh token")
	}
	if err := token.SaveRefreshToken(h.Tokens.DB, refreshToken, user.ID, user.Role); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(token.CreateCookie("accessToken", accessToken, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(token.RefreshTTL)))

	publish(c, h.Producer, "user_events", map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
		"is_admin":      user.Role == models.RoleAdmin,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing refresh cookie")
	}

	result := h.Tokens.DB.Model(&models.RefreshToken{}).
		Where("token = ?", refreshCookie.Value).
		Update("revoked", true)
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, result.Error.Error())
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me re-reads the session identity. A failed refresh keeps serving the
// token's claims rather than surfacing the error.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	role, _ := c.Get("role").(string)
	stale := &models.User{ID: userID, Role: role}

	user := h.Svc.CurrentUser(c.Request().Context(), userID, stale)
	return c.JSON(http.StatusOK, echo.Map{
		"user":     user,
		"is_admin": user.Role == models.RoleAdmin,
	})
}

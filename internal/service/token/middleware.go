package token

import (
	"net/http"
	"time"

	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func (t *TokenService) refreshCookies(c echo.Context, newAccess, newRefresh string) error {
	c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))

	parsed, _ := jwt.Parse(newAccess, func(j *jwt.Token) (interface{}, error) { return t.JWTSecret, nil })
	if parsed == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return setUserContext(c, parsed.Claims.(jwt.MapClaims))
}

// AutoRefreshMiddleware requires a session, rotating expired access tokens
// through the refresh cookie transparently.
func (t *TokenService) AutoRefreshMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, _, err := t.CheckCookie(c)
		if err != nil {
			return err
		}

		if newRefresh == "" {
			return next(c)
		}
		if err := t.refreshCookies(c, newAccess, newRefresh); err != nil {
			return err
		}
		return next(c)
	}
}

// AutoRefreshMiddlewareAdmin additionally requires role == "admin"
// exactly. A promoted client is not an admin.
func (t *TokenService) AutoRefreshMiddlewareAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, role, err := t.CheckCookie(c)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}

		if newRefresh == "" {
			return next(c)
		}
		if err := t.refreshCookies(c, newAccess, newRefresh); err != nil {
			return err
		}
		return next(c)
	}
}

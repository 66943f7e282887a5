package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawhub/pet-platform/internal/api/metrics"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// PlatformOwner restricts a route to users with a platform owner grant.
// It must run after Auth so user_id is present in context.
func PlatformOwner(owners ports.PlatformOwnerRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get("user_id").(string)
			if userID == "" {
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
			}

			ok, err := owners.IsPlatformOwner(c.Request().Context(), userID)
			if err != nil {
				return err
			}
			if !ok {
				metrics.AccessDeniedTotal.WithLabelValues("unauthorized").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

package http

import (
	"context"
	"net/http"
	"strings"
	"travel/entity"

	"github.com/labstack/echo/v4"
)

const principalContextKey = "principal"

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (entity.Principal, error)
}

func authMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			principal, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}

			c.Set(principalContextKey, principal)
			return next(c)
		}
	}
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !principalFrom(c).IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

func principalFrom(c echo.Context) entity.Principal {
	principal, _ := c.Get(principalContextKey).(entity.Principal)
	return principal
}

package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/itamhq/itam-api/internal/api/metrics"
	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

// ActorKey is the echo context key holding the authenticated *domain.Actor.
const ActorKey = "actor"

// Auth resolves the bearer token to an actor and stores it in the context.
// Requests without a valid token are rejected.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return authenticate(auth, false)
}

// OptionalAuth behaves like Auth but lets requests without an Authorization
// header through as anonymous. A header that is present must still be valid.
func OptionalAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return authenticate(auth, true)
}

func authenticate(auth ports.AuthService, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if optional {
					return next(c)
				}
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenValidationsTotal.WithLabelValues("malformed").Inc()
				return domain.ErrUnauthenticated
			}

			actor, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues(validationResult(err)).Inc()
				return err
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			c.Set(ActorKey, actor)
			return next(c)
		}
	}
}

func validationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "rejected"
	}
}

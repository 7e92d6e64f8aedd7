package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onless/driving-school-api/internal/core/domain"
	"github.com/onless/driving-school-api/internal/core/ports"
)

// userContextKey is where Authenticate stores the resolved principal.
const userContextKey = "auth_user"

// Authenticate extracts the bearer token, resolves it into a loaded, active
// user via the auth service, and injects the user into the request context.
// Failures propagate as domain errors for the central error handler to map
// (401 for undecodable tokens, 404 for a stale subject, 403 for inactive).
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := auth.CurrentUser(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireVerified layers on Authenticate: the principal must have completed
// account verification. Register the Authenticate middleware first.
func RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !user.IsVerified {
				return domain.ErrUserNotVerified
			}
			return next(c)
		}
	}
}

// CurrentUser returns the principal resolved by Authenticate, if any.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	return parts[1], nil
}

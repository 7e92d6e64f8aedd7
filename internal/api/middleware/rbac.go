package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onless/driving-school-api/internal/core/domain"
)

// RBAC enforces role-based access control over the principal resolved by
// Authenticate. The allow-list is closed: admin passes only where listed.
// Rejection carries no hint of which roles would have succeeded.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// Named gates mirroring the platform's permission groupings.
func AdminOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}

func BusinessOwnerOrAdmin() echo.MiddlewareFunc {
	return RBAC(domain.RoleBusinessOwner, domain.RoleAdmin)
}

func InstructionalStaff() echo.MiddlewareFunc {
	return RBAC(domain.RoleInstructor, domain.RoleTeacher, domain.RoleMentor, domain.RoleAdmin)
}

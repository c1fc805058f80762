package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth; the
// request passes when any of the token's roles is allowed, otherwise it
// returns domain.ErrForbidden.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get(ContextRoles).([]string)
			for _, role := range roles {
				if _, ok := allowed[role]; ok {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}

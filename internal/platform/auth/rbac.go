package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RoleNurse and RoleDoctor are the only staff roles. There is no admin role
// and no role-change operation after signup.
const (
	RoleNurse  = "nurse"
	RoleDoctor = "doctor"
)

// ValidRole reports whether role is a known staff role.
func ValidRole(role string) bool {
	return role == RoleNurse || role == RoleDoctor
}

// RequireRole returns middleware that rejects callers whose role is not in
// the allowed set. The caller's identity must already be on the context
// (JWTMiddleware runs first); absence of a role is treated as forbidden,
// not unauthenticated.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callerRole := RoleFromContext(c.Request().Context())
			for _, required := range roles {
				if callerRole == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

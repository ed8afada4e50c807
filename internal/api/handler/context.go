package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/core/domain"
)

const userContextKey = "dbUser"

// SetUser attaches the user resolved by the lookup guard to the request.
func SetUser(c echo.Context, u *domain.User) {
	c.Set(userContextKey, u)
}

// UserFromContext returns the user resolved by the lookup guard, or nil when
// the guard did not run for this route.
func UserFromContext(c echo.Context) *domain.User {
	u, _ := c.Get(userContextKey).(*domain.User)
	return u
}

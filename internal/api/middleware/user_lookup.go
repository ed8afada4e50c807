package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/api/handler"
	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// UserLookup resolves the :param path segment to a stored user and attaches
// it to the context for the handler. Unknown or non-numeric ids halt the
// request with 404; store failures go to the error handler.
func UserLookup(users ports.UserService, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil {
				return notFound(c)
			}

			user, err := users.Get(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return notFound(c)
				}
				return err
			}

			handler.SetUser(c, user)
			return next(c)
		}
	}
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, handler.MessageResponse{Message: handler.MsgUserNotFound})
}

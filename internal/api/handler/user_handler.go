package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user account operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /user.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User details"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  MessageResponse
// @Failure      500   {object}  MessageResponse
// @Router       /user [post]
func (h *UserHandler) Create(c echo.Context) error {
	req, ok := bindUserRequest(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgInvalidInput})
	}

	user, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgInvalidInput})
		}
		return err
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		Message: msgUserSaved,
		Data:    createdData{ID: user.ID},
	})
}

// Search handles POST /user/search: email/password authentication. POST keeps
// the password out of the URL.
//
// @Summary      Authenticate a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      searchRequest  true  "Credentials"
// @Success      200   {object}  authenticatedUserResponse
// @Failure      400   {object}  MessageResponse
// @Failure      500   {object}  MessageResponse
// @Router       /user/search [post]
func (h *UserHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil || !req.present() {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgCredentialsMissing})
	}
	email, password, ok := req.credentials()
	if !ok {
		// a non-string value can never match a stored account
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgUserNotFound})
	}

	user, err := h.service.Authenticate(c.Request().Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgUserNotFound})
		}
		return err
	}

	return c.JSON(http.StatusOK, authenticatedUserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// Update handles PUT /user/:userId. The user is resolved by the lookup guard.
//
// @Summary      Replace a user's name, email and password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userId  path      int          true  "User id"
// @Param        body    body      userRequest  true  "User details"
// @Success      200     {object}  MessageResponse
// @Failure      400     {object}  MessageResponse
// @Failure      404     {object}  MessageResponse
// @Failure      500     {object}  MessageResponse
// @Router       /user/{userId} [put]
func (h *UserHandler) Update(c echo.Context) error {
	user := UserFromContext(c)
	if user == nil {
		return domain.ErrUserNotFound
	}

	req, ok := bindUserRequest(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgInvalidInput})
	}

	if _, err := h.service.Update(c.Request().Context(), user, req.toInput()); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgInvalidInput})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, MessageResponse{Message: MsgUserNotFound})
		}
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: msgUserUpdated})
}

// Delete handles DELETE /user/:userId. The row is removed permanently.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        userId  path      int  true  "User id"
// @Success      200     {object}  MessageResponse
// @Failure      404     {object}  MessageResponse
// @Failure      500     {object}  MessageResponse
// @Router       /user/{userId} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user := UserFromContext(c)
	if user == nil {
		return domain.ErrUserNotFound
	}

	if err := h.service.Delete(c.Request().Context(), user); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, MessageResponse{Message: MsgUserNotFound})
		}
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: msgUserDeleted})
}

// List handles GET /user. Diagnostic only: rows are returned unredacted and
// the route is not mounted in production.
//
// @Summary      List all users (diagnostic)
// @Tags         users
// @Produce      json
// @Success      200  {array}   storedUserResponse
// @Failure      500  {object}  MessageResponse
// @Router       /user [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]storedUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, storedUserResponse{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func bindUserRequest(c echo.Context) (userRequest, bool) {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return req, false
	}
	if err := c.Validate(&req); err != nil {
		return req, false
	}
	return req, true
}

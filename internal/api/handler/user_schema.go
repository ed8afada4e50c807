package handler

import (
	"time"

	"github.com/99minutos/user-service/internal/core/ports"
)

// Client-visible messages. Unknown email and wrong password share
// MsgUserNotFound on purpose.
const (
	MsgInvalidInput       = "missing or invalid input"
	MsgCredentialsMissing = "email or password missing"
	MsgUserNotFound       = "User not found"
	MsgServerError        = "server error"

	msgUserSaved   = "User record saved"
	msgUserUpdated = "User record updated"
	msgUserDeleted = "User record deleted"
)

// MessageResponse is the envelope for every status-only and error response.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

// userRequest is the full payload of create and update; there is no partial update.
type userRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r userRequest) toInput() ports.UserInput {
	return ports.UserInput{Name: r.Name, Email: r.Email, Password: r.Password}
}

// searchRequest binds loosely so a credential of the wrong JSON type is told
// apart from a missing one. Only presence is checked; a credential mismatch is
// reported later with the same message as an unknown email.
type searchRequest struct {
	Email    any `json:"email"    swaggertype:"string"`
	Password any `json:"password" swaggertype:"string"`
}

// present reports whether both credentials are set. null, "", 0 and false
// count as absent.
func (r searchRequest) present() bool {
	return isSet(r.Email) && isSet(r.Password)
}

// credentials returns both values when they are JSON strings.
func (r searchRequest) credentials() (email, password string, ok bool) {
	email, okEmail := r.Email.(string)
	password, okPassword := r.Password.(string)
	return email, password, okEmail && okPassword
}

func isSet(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	default:
		return true
	}
}

// --- Response types ---

type createdData struct {
	ID int64 `json:"id"`
}

type createUserResponse struct {
	Message string      `json:"message"`
	Data    createdData `json:"data"`
}

type authenticatedUserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// storedUserResponse mirrors a stored row verbatim, hash included. Only the
// diagnostic list route emits it.
type storedUserResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

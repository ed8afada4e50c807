package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// UserInput carries the full replacement set of user attributes. Create and
// Update both require every field.
type UserInput struct {
	Name     string
	Email    string
	Password string
}

type UserService interface {
	Create(ctx context.Context, in UserInput) (*domain.User, error)
	// Authenticate returns domain.ErrInvalidCredentials for both an unknown
	// email and a wrong password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User, in UserInput) (*domain.User, error)
	Delete(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
}

package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Implementations return domain.ErrUserNotFound when the target row is absent.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns the first row with the given email. Emails are not
	// unique, so the lowest id wins.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Update replaces name, email and password hash of the row identified by user.ID.
	Update(ctx context.Context, user *domain.User) error
	// Delete permanently removes the row.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.User, error)
}

// Pinger is implemented by stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

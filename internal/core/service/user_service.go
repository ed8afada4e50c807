package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/metrics"
	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so both failure paths cost one bcrypt comparison.
const dummyPassword = "user-service-timing-equaliser"

// UserService implements account management and password authentication.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

// Create hashes the password and stores a new user.
func (s *UserService) Create(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.UserOperationsTotal.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	metrics.UserOperationsTotal.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Msg("user created")
	return created, nil
}

// Authenticate checks email/password and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("authenticate: %w", err)
		}
		s.burnComparison(password)
		metrics.AuthAttemptsTotal.WithLabelValues("unknown_email").Inc()
		s.log.Debug().Msg("authentication failed: unknown email")
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		metrics.AuthAttemptsTotal.WithLabelValues("wrong_password").Inc()
		s.log.Debug().Int64("user_id", user.ID).Msg("authentication failed: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return user, nil
}

// Get resolves a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// Update replaces name, email and password of an already resolved user.
func (s *UserService) Update(ctx context.Context, user *domain.User, in ports.UserInput) (*domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.UserOperationsTotal.WithLabelValues("update", "error").Inc()
		return nil, fmt.Errorf("update user %d: %w", user.ID, err)
	}

	updated := *user
	updated.Name = in.Name
	updated.Email = in.Email
	updated.PasswordHash = hash

	err = s.repo.Update(ctx, &updated)
	metrics.UserOperationsTotal.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", user.ID, err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user updated")
	return &updated, nil
}

// Delete permanently removes an already resolved user.
func (s *UserService) Delete(ctx context.Context, user *domain.User) error {
	err := s.repo.Delete(ctx, user.ID)
	metrics.UserOperationsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("delete user %d: %w", user.ID, err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user deleted")
	return nil
}

// List returns every stored user.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) burnComparison(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(password, s.dummyHash)
}

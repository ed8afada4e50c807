// Package portstest holds behaviour checks shared by every
// ports.UserRepository implementation. Store packages run it from their
// tests against a real backend.
package portstest

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// UserRepositoryFactory returns an empty repository for a single subtest.
type UserRepositoryFactory func(t *testing.T) ports.UserRepository

// RunUserRepository checks the store behaviour the user service relies on:
// increasing ids, lowest-id email lookup, full-row update, permanent delete
// and id-ordered listing.
func RunUserRepository(t *testing.T, newRepo UserRepositoryFactory) {
	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := mustCreate(t, repo, fakeUser())
		b := mustCreate(t, repo, fakeUser())
		if a.ID <= 0 || b.ID <= a.ID {
			t.Fatalf("expected increasing positive ids, got %d then %d", a.ID, b.ID)
		}
		if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
			t.Fatalf("expected timestamps to be set: %+v", a)
		}

		got, err := repo.FindByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if got.Name != a.Name || got.Email != a.Email || got.PasswordHash != a.PasswordHash {
			t.Fatalf("stored row differs: %+v vs %+v", got, a)
		}
	})

	t.Run("FindByEmailPrefersLowestID", func(t *testing.T) {
		repo := newRepo(t)
		email := gofakeit.Email()

		first := fakeUser()
		first.Email = email
		second := fakeUser()
		second.Email = email

		a := mustCreate(t, repo, first)
		mustCreate(t, repo, fakeUser())
		mustCreate(t, repo, second)

		got, err := repo.FindByEmail(context.Background(), email)
		if err != nil {
			t.Fatalf("FindByEmail: %v", err)
		}
		if got.ID != a.ID || got.PasswordHash != first.PasswordHash {
			t.Fatalf("expected lowest id %d, got %d", a.ID, got.ID)
		}
	})

	t.Run("FindMissing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.FindByID(ctx, 424242); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("FindByID: expected ErrUserNotFound, got %v", err)
		}
		if _, err := repo.FindByEmail(ctx, "nobody@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("FindByEmail: expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("UpdateReplacesFields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		created := mustCreate(t, repo, fakeUser())
		oldEmail := created.Email

		next := fakeUser()
		next.ID = created.ID
		if err := repo.Update(ctx, next); err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, err := repo.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if got.Name != next.Name || got.Email != next.Email || got.PasswordHash != next.PasswordHash {
			t.Fatalf("update not applied: %+v", got)
		}
		if _, err := repo.FindByEmail(ctx, oldEmail); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("old email must no longer match, got %v", err)
		}
	})

	t.Run("UpdateMissingRow", func(t *testing.T) {
		repo := newRepo(t)
		u := fakeUser()
		u.ID = 424242

		if err := repo.Update(context.Background(), u); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("DeleteIsPermanent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		created := mustCreate(t, repo, fakeUser())
		kept := mustCreate(t, repo, fakeUser())

		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := repo.FindByID(ctx, created.ID); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, created.ID); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("second delete: expected ErrUserNotFound, got %v", err)
		}
		if _, err := repo.FindByID(ctx, kept.ID); err != nil {
			t.Fatalf("other rows must survive: %v", err)
		}
	})

	t.Run("ListOrderedByID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		users, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List on empty store: %v", err)
		}
		if len(users) != 0 {
			t.Fatalf("expected empty store, got %d rows", len(users))
		}

		var ids []int64
		for i := 0; i < 4; i++ {
			ids = append(ids, mustCreate(t, repo, fakeUser()).ID)
		}
		if err := repo.Delete(ctx, ids[1]); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		want := []int64{ids[0], ids[2], ids[3]}

		users, err = repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(users) != len(want) {
			t.Fatalf("expected %d rows, got %d", len(want), len(users))
		}
		for i, u := range users {
			if u.ID != want[i] {
				t.Fatalf("row %d: expected id %d, got %d", i, want[i], u.ID)
			}
			if u.PasswordHash == "" {
				t.Fatalf("row %d: hash must be returned verbatim", i)
			}
		}
	})

	t.Run("Ping", func(t *testing.T) {
		pinger, ok := newRepo(t).(ports.Pinger)
		if !ok {
			t.Skip("repository does not implement ports.Pinger")
		}
		if err := pinger.Ping(context.Background()); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	})
}

func fakeUser() *domain.User {
	return &domain.User{
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		PasswordHash: "$2a$04$" + gofakeit.LetterN(53),
	}
}

func mustCreate(t *testing.T, repo ports.UserRepository, u *domain.User) *domain.User {
	t.Helper()
	created, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

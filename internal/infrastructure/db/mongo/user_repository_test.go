package mongo

import (
	"testing"
	"time"
)

func TestMongoUser_ToDomain(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	mu := mongoUser{ID: 3, Name: "Ann", Email: "ann@x.com", PasswordHash: "h", CreatedAt: ts.Unix(), UpdatedAt: 0}

	u := mu.toDomain()
	if u.ID != 3 || u.Name != "Ann" || u.Email != "ann@x.com" || u.PasswordHash != "h" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !u.CreatedAt.Equal(ts) {
		t.Fatalf("expected %v, got %v", ts, u.CreatedAt)
	}
	if !u.UpdatedAt.IsZero() {
		t.Fatalf("expected zero time for unset timestamp, got %v", u.UpdatedAt)
	}
}

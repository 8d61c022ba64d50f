package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/hiringgo/account-service/internal/core/domain"
)

func TestAccountDocument_RoundTrip(t *testing.T) {
	staff := "NIP-1"
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	in := &domain.Account{
		ID:           5,
		FullName:     "Budi",
		Email:        "budi@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleLecturer,
		StaffNumber:  &staff,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	out := toDocument(in).toDomain()
	if out.ID != in.ID || out.Email != in.Email || out.PasswordHash != in.PasswordHash ||
		out.Role != in.Role || out.StaffNumber == nil || *out.StaffNumber != staff ||
		out.StudentNumber != nil || !out.CreatedAt.Equal(now) {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestConflictFor(t *testing.T) {
	tests := map[string]string{
		`E11000 duplicate key error collection: db.accounts index: email_unique dup key: { email: "a" }`:       "email already registered",
		`E11000 duplicate key error collection: db.accounts index: staff_number_unique dup key: { x: "1" }`:    "staff number already registered",
		`E11000 duplicate key error collection: db.accounts index: student_number_unique dup key: { x: "1" }`:  "student number already registered",
		`E11000 duplicate key error collection: db.accounts index: _id_ dup key: { _id: 1 }`:                   "account already registered",
	}
	for msg, want := range tests {
		err := conflictFor(msg)
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected conflict kind for %q", msg)
		}
		if err.Error() != want {
			t.Errorf("conflictFor(%q) = %q, want %q", msg, err.Error(), want)
		}
	}
}

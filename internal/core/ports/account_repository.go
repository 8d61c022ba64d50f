package ports

import (
	"context"

	"github.com/hiringgo/account-service/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
//
// Implementations must enforce email, staff number and student number
// uniqueness themselves and report a violation as a domain conflict; the
// service's Exists* pre-checks are only a fast path.
type AccountRepository interface {
	// Save inserts the account when ID is zero (assigning a new id) and
	// replaces the stored account otherwise.
	Save(ctx context.Context, a *domain.Account) (*domain.Account, error)
	// FindByID returns domain.ErrAccountNotFound when no account has the id.
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindAll(ctx context.Context) ([]*domain.Account, error)
	// DeleteByID returns domain.ErrAccountNotFound when nothing was removed.
	DeleteByID(ctx context.Context, id int64) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByStaffNumber(ctx context.Context, staffNumber string) (bool, error)
	ExistsByStudentNumber(ctx context.Context, studentNumber string) (bool, error)
}

// PasswordHasher is a one-way password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

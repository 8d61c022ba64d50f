package ports

import (
	"context"

	"github.com/hiringgo/account-service/internal/core/domain"
)

// CreateAccountInput is the DTO passed from the transport layer to the
// account service. Blank optional numbers mean "not supplied".
type CreateAccountInput struct {
	Email         string
	FullName      string
	Role          string
	Password      string
	StudentNumber string
	StaffNumber   string
}

// AccountService defines the account use cases.
//
// Routine absence is a value: UpdateRole and FindAccount report found=false
// and DeleteAccount reports deleted=false, all with a nil error.
type AccountService interface {
	CreateAccount(ctx context.Context, in *CreateAccountInput) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	UpdateRole(ctx context.Context, id int64, role string) (*domain.Account, bool, error)
	DeleteAccount(ctx context.Context, id int64) (bool, error)
	FindAccount(ctx context.Context, id int64) (*domain.Account, bool, error)
}

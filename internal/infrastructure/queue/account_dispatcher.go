package queue

import (
	"context"

	"github.com/hiringgo/account-service/internal/core/domain"
	"github.com/hiringgo/account-service/internal/core/ports"
)

// AccountDispatcher runs account service operations on the worker pool.
// The blocking methods satisfy ports.AccountService by submitting and then
// awaiting with the caller's context; the *Async methods hand back the future.
type AccountDispatcher struct {
	pool    *Pool
	service ports.AccountService
}

// NewAccountDispatcher wraps service so its operations run on pool.
func NewAccountDispatcher(pool *Pool, service ports.AccountService) *AccountDispatcher {
	return &AccountDispatcher{pool: pool, service: service}
}

// Lookup is the result of an operation whose absence is a normal outcome.
type Lookup struct {
	Account *domain.Account
	Found   bool
}

func (d *AccountDispatcher) CreateAccountAsync(ctx context.Context, in *ports.CreateAccountInput) (*Future[*domain.Account], error) {
	return Submit(ctx, d.pool, func(ctx context.Context) (*domain.Account, error) {
		return d.service.CreateAccount(ctx, in)
	})
}

func (d *AccountDispatcher) ListAccountsAsync(ctx context.Context) (*Future[[]*domain.Account], error) {
	return Submit(ctx, d.pool, d.service.ListAccounts)
}

func (d *AccountDispatcher) UpdateRoleAsync(ctx context.Context, id int64, role string) (*Future[Lookup], error) {
	return Submit(ctx, d.pool, func(ctx context.Context) (Lookup, error) {
		acc, found, err := d.service.UpdateRole(ctx, id, role)
		return Lookup{Account: acc, Found: found}, err
	})
}

func (d *AccountDispatcher) DeleteAccountAsync(ctx context.Context, id int64) (*Future[bool], error) {
	return Submit(ctx, d.pool, func(ctx context.Context) (bool, error) {
		return d.service.DeleteAccount(ctx, id)
	})
}

func (d *AccountDispatcher) FindAccountAsync(ctx context.Context, id int64) (*Future[Lookup], error) {
	return Submit(ctx, d.pool, func(ctx context.Context) (Lookup, error) {
		acc, found, err := d.service.FindAccount(ctx, id)
		return Lookup{Account: acc, Found: found}, err
	})
}

func (d *AccountDispatcher) CreateAccount(ctx context.Context, in *ports.CreateAccountInput) (*domain.Account, error) {
	f, err := d.CreateAccountAsync(ctx, in)
	if err != nil {
		return nil, err
	}
	return f.Await(ctx)
}

func (d *AccountDispatcher) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	f, err := d.ListAccountsAsync(ctx)
	if err != nil {
		return nil, err
	}
	return f.Await(ctx)
}

func (d *AccountDispatcher) UpdateRole(ctx context.Context, id int64, role string) (*domain.Account, bool, error) {
	f, err := d.UpdateRoleAsync(ctx, id, role)
	if err != nil {
		return nil, false, err
	}
	res, err := f.Await(ctx)
	return res.Account, res.Found, err
}

func (d *AccountDispatcher) DeleteAccount(ctx context.Context, id int64) (bool, error) {
	f, err := d.DeleteAccountAsync(ctx, id)
	if err != nil {
		return false, err
	}
	return f.Await(ctx)
}

func (d *AccountDispatcher) FindAccount(ctx context.Context, id int64) (*domain.Account, bool, error) {
	f, err := d.FindAccountAsync(ctx, id)
	if err != nil {
		return nil, false, err
	}
	res, err := f.Await(ctx)
	return res.Account, res.Found, err
}

var _ ports.AccountService = (*AccountDispatcher)(nil)

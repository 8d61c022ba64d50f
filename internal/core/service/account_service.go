package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hiringgo/account-service/internal/pkg/metrics"
	"github.com/hiringgo/account-service/internal/core/domain"
	"github.com/hiringgo/account-service/internal/core/ports"
)

// MinPasswordLength is the shortest password CreateAccount accepts.
const MinPasswordLength = 8

// AccountService validates and applies account mutations.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
	now    func() time.Time
}

func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateAccount validates the request, hashes the password and persists a new
// account. Checks run in a fixed order and the first failure is returned.
func (s *AccountService) CreateAccount(ctx context.Context, in *ports.CreateAccountInput) (*domain.Account, error) {
	acc, err := s.createAccount(ctx, in)
	record("create", err)
	return acc, err
}

func (s *AccountService) createAccount(ctx context.Context, in *ports.CreateAccountInput) (*domain.Account, error) {
	if in == nil {
		return nil, domain.Validation("request must not be null")
	}
	if err := requireFields(in); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return nil, domain.Validation("password too short")
	}

	taken, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("create account: check email: %w", err)
	}
	if taken {
		return nil, domain.Conflict("email already registered")
	}

	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, domain.Validation("invalid role")
	}

	staffNumber := optional(in.StaffNumber)
	studentNumber := optional(in.StudentNumber)

	if role == domain.RoleLecturer && staffNumber != nil {
		taken, err := s.repo.ExistsByStaffNumber(ctx, *staffNumber)
		if err != nil {
			return nil, fmt.Errorf("create account: check staff number: %w", err)
		}
		if taken {
			return nil, domain.Conflict("staff number already registered")
		}
	}
	if role == domain.RoleStudent && studentNumber != nil {
		taken, err := s.repo.ExistsByStudentNumber(ctx, *studentNumber)
		if err != nil {
			return nil, fmt.Errorf("create account: check student number: %w", err)
		}
		if taken {
			return nil, domain.Conflict("student number already registered")
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if isClientError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create account: hash password: %w", err)
	}

	now := s.now()
	acc := &domain.Account{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Numbers the role may not hold are dropped regardless of the request.
	if role == domain.RoleLecturer {
		acc.StaffNumber = staffNumber
	}
	if role == domain.RoleStudent {
		acc.StudentNumber = studentNumber
	}

	saved, err := s.repo.Save(ctx, acc)
	if err != nil {
		if isClientError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", in.Email).Msg("failed to create account")
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info().Int64("account_id", saved.ID).Str("role", string(saved.Role)).Msg("account created")
	return saved, nil
}

// ListAccounts returns every account in repository order.
func (s *AccountService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.repo.FindAll(ctx)
	record("list", err)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateRole changes an account's role and clears the numbers the new role
// may not hold. The role is validated before the account is looked up.
func (s *AccountService) UpdateRole(ctx context.Context, id int64, newRole string) (*domain.Account, bool, error) {
	role, ok := domain.ParseRole(newRole)
	if !ok {
		err := domain.Validation("invalid new role")
		record("update_role", err)
		return nil, false, err
	}

	acc, found, err := s.find(ctx, id)
	if err != nil || !found {
		recordFound("update_role", found, err)
		return nil, false, wrap("update role", err)
	}

	acc.ChangeRole(role)
	acc.UpdatedAt = s.now()

	saved, err := s.repo.Save(ctx, acc)
	if errors.Is(err, domain.ErrAccountNotFound) {
		// Deleted between the lookup and the write.
		recordFound("update_role", false, nil)
		return nil, false, nil
	}
	record("update_role", err)
	if err != nil {
		if isClientError(err) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("update role: %w", err)
	}

	s.logger.Info().Int64("account_id", id).Str("role", string(role)).Msg("account role updated")
	return saved, true, nil
}

// DeleteAccount permanently removes an account. deleted is false when no
// account had the id.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) (bool, error) {
	_, found, err := s.find(ctx, id)
	if err != nil || !found {
		recordFound("delete", found, err)
		return false, wrap("delete account", err)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		// Lost a race with another delete.
		if errors.Is(err, domain.ErrAccountNotFound) {
			recordFound("delete", false, nil)
			return false, nil
		}
		record("delete", err)
		return false, fmt.Errorf("delete account: %w", err)
	}

	record("delete", nil)
	s.logger.Info().Int64("account_id", id).Msg("account deleted")
	return true, nil
}

// FindAccount looks an account up by id.
func (s *AccountService) FindAccount(ctx context.Context, id int64) (*domain.Account, bool, error) {
	acc, found, err := s.find(ctx, id)
	recordFound("find", found, err)
	if err != nil {
		return nil, false, fmt.Errorf("find account: %w", err)
	}
	return acc, found, nil
}

func (s *AccountService) find(ctx context.Context, id int64) (*domain.Account, bool, error) {
	acc, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return acc, true, nil
}

func requireFields(in *ports.CreateAccountInput) error {
	fields := []struct {
		name  string
		value string
	}{
		{"email", in.Email},
		{"role", in.Role},
		{"fullName", in.FullName},
		{"password", in.Password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return domain.Validation(f.name + " is required")
		}
	}
	return nil
}

// optional returns nil for a blank value.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrConflict)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func record(op string, err error) {
	metrics.OperationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
}

func recordFound(op string, found bool, err error) {
	if err == nil && !found {
		metrics.OperationsTotal.WithLabelValues(op, "not_found").Inc()
		return
	}
	record(op, err)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

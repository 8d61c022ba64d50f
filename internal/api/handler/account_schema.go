package handler

import (
	"time"

	"github.com/hiringgo/account-service/internal/core/domain"
	"github.com/hiringgo/account-service/internal/core/ports"
)

// createAccountRequest only bounds field sizes; the account service owns the
// rules about presence, format and uniqueness.
type createAccountRequest struct {
	Email         string `json:"email" validate:"max=254" example:"lecturer@example.com"`
	FullName      string `json:"fullName" validate:"max=255" example:"Budi Santoso"`
	Role          string `json:"role" validate:"max=32" example:"LECTURER"`
	Password      string `json:"password" validate:"max=128" example:"s3cretpass"`
	StudentNumber string `json:"studentNumber,omitempty" validate:"max=64"`
	StaffNumber   string `json:"staffNumber,omitempty" validate:"max=64" example:"NIP-001"`
}

func (r createAccountRequest) toInput() *ports.CreateAccountInput {
	return &ports.CreateAccountInput{
		Email:         r.Email,
		FullName:      r.FullName,
		Role:          r.Role,
		Password:      r.Password,
		StudentNumber: r.StudentNumber,
		StaffNumber:   r.StaffNumber,
	}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"notblank" example:"ADMIN"`
}

type accountResponse struct {
	ID            int64   `json:"id" example:"1"`
	FullName      string  `json:"fullName"`
	Email         string  `json:"email"`
	Role          string  `json:"role" example:"LECTURER"`
	StudentNumber *string `json:"studentNumber,omitempty"`
	StaffNumber   *string `json:"staffNumber,omitempty"`
	CreatedAt     string  `json:"createdAt" example:"2026-01-02T15:04:05Z"`
	UpdatedAt     string  `json:"updatedAt" example:"2026-01-02T15:04:05Z"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:            a.ID,
		FullName:      a.FullName,
		Email:         a.Email,
		Role:          string(a.Role),
		StudentNumber: a.StudentNumber,
		StaffNumber:   a.StaffNumber,
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type messageResponse struct {
	Message string `json:"message" example:"account deleted"`
}

type errorResponse struct {
	Error string `json:"error" example:"email already registered"`
}

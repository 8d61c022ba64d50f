package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiringgo/account-service/internal/core/domain"
	"github.com/hiringgo/account-service/internal/core/ports"
)

type stubAccountService struct {
	createFn func(ctx context.Context, in *ports.CreateAccountInput) (*domain.Account, error)
	listFn   func(ctx context.Context) ([]*domain.Account, error)
	updateFn func(ctx context.Context, id int64, role string) (*domain.Account, bool, error)
	deleteFn func(ctx context.Context, id int64) (bool, error)
	findFn   func(ctx context.Context, id int64) (*domain.Account, bool, error)
}

func (s *stubAccountService) CreateAccount(ctx context.Context, in *ports.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, in)
}

func (s *stubAccountService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.listFn(ctx)
}

func (s *stubAccountService) UpdateRole(ctx context.Context, id int64, role string) (*domain.Account, bool, error) {
	return s.updateFn(ctx, id, role)
}

func (s *stubAccountService) DeleteAccount(ctx context.Context, id int64) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubAccountService) FindAccount(ctx context.Context, id int64) (*domain.Account, bool, error) {
	return s.findFn(ctx, id)
}

func lecturer(id int64) *domain.Account {
	staff := "NIP-001"
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	return &domain.Account{
		ID:           id,
		FullName:     "Budi",
		Email:        "budi@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         domain.RoleLecturer,
		StaffNumber:  &staff,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func expectHTTPError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if he.Code != code || he.Message != msg {
		t.Fatalf("got %d %v, want %d %q", he.Code, he.Message, code, msg)
	}
}

func TestAccountHandler_Create_Success(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(_ context.Context, in *ports.CreateAccountInput) (*domain.Account, error) {
			if in.Email != "budi@example.com" || in.FullName != "Budi" || in.Role != "lecturer" || in.StaffNumber != "NIP-001" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return lecturer(1), nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newContext(http.MethodPost, "/accounts",
		`{"email":"budi@example.com","fullName":"Budi","role":"lecturer","password":"s3cretpass","staffNumber":"NIP-001"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(1) || resp["role"] != "LECTURER" || resp["staffNumber"] != "NIP-001" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["studentNumber"]; ok {
		t.Fatalf("absent student number should be omitted: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAccountHandler_Create_PassesServiceError(t *testing.T) {
	want := domain.Conflict("email already registered")
	h := NewAccountHandler(&stubAccountService{
		createFn: func(context.Context, *ports.CreateAccountInput) (*domain.Account, error) { return nil, want },
	})

	c, _ := newContext(http.MethodPost, "/accounts", `{"email":"a@b.c"}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{})
	c, _ := newContext(http.MethodPost, "/accounts", `{"email":`)
	expectHTTPError(t, h.Create(c), http.StatusBadRequest, "invalid payload")
}

func TestAccountHandler_Create_OversizedField(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		createFn: func(context.Context, *ports.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	body := `{"email":"` + strings.Repeat("a", 250) + `@example.com","fullName":"A","role":"ADMIN","password":"s3cretpass"}`
	c, _ := newContext(http.MethodPost, "/accounts", body)
	expectHTTPError(t, h.Create(c), http.StatusBadRequest, "email must be at most 254 characters")
}

func TestAccountHandler_List(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		listFn: func(context.Context) ([]*domain.Account, error) {
			return []*domain.Account{lecturer(1), lecturer(2)}, nil
		},
	})

	c, rec := newContext(http.MethodGet, "/accounts", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[1]["id"] != float64(2) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_List_EmptyIsArray(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		listFn: func(context.Context) ([]*domain.Account, error) { return nil, nil },
	})

	c, rec := newContext(http.MethodGet, "/accounts", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		findFn: func(_ context.Context, id int64) (*domain.Account, bool, error) {
			if id == 1 {
				return lecturer(1), true, nil
			}
			return nil, false, nil
		},
	})

	c, rec := newContext(http.MethodGet, "/accounts/1", "")
	if err := h.Get(withID(c, "1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodGet, "/accounts/99", "")
	expectHTTPError(t, h.Get(withID(c, "99")), http.StatusNotFound, "account not found")

	c, _ = newContext(http.MethodGet, "/accounts/abc", "")
	expectHTTPError(t, h.Get(withID(c, "abc")), http.StatusBadRequest, "invalid account id")
}

func TestAccountHandler_UpdateRole(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		updateFn: func(_ context.Context, id int64, role string) (*domain.Account, bool, error) {
			if id == 404 {
				return nil, false, nil
			}
			if role != "admin" {
				t.Fatalf("role = %q, want admin", role)
			}
			acc := lecturer(id)
			acc.ChangeRole(domain.RoleAdmin)
			return acc, true, nil
		},
	})

	c, rec := newContext(http.MethodPatch, "/accounts/1", `{"role":"admin"}`)
	if err := h.UpdateRole(withID(c, "1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["role"] != "ADMIN" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["staffNumber"]; ok {
		t.Fatalf("staff number should be cleared: %+v", resp)
	}

	c, _ = newContext(http.MethodPatch, "/accounts/404", `{"role":"admin"}`)
	expectHTTPError(t, h.UpdateRole(withID(c, "404")), http.StatusNotFound, "account not found")
}

func TestAccountHandler_UpdateRole_RoleRequired(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		updateFn: func(context.Context, int64, string) (*domain.Account, bool, error) {
			t.Fatal("service must not be called")
			return nil, false, nil
		},
	})

	for _, body := range []string{`{}`, `{"role":""}`, `{"role":"   "}`} {
		c, _ := newContext(http.MethodPatch, "/accounts/1", body)
		expectHTTPError(t, h.UpdateRole(withID(c, "1")), http.StatusBadRequest, "role is required")
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{
		deleteFn: func(_ context.Context, id int64) (bool, error) { return id == 1, nil },
	})

	c, rec := newContext(http.MethodDelete, "/accounts/1", "")
	if err := h.Delete(withID(c, "1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"message":"account deleted"}` {
		t.Fatalf("unexpected body %s", body)
	}

	c, _ = newContext(http.MethodDelete, "/accounts/2", "")
	expectHTTPError(t, h.Delete(withID(c, "2")), http.StatusNotFound, "account not found")
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hiringgo/account-service/internal/core/domain"
)

func serveRequireAuthority(t *testing.T, p *domain.Principal) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(PrincipalKey, p)
	}

	called := false
	h := RequireAuthority("ROLE_ADMIN")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRequireAuthority_Allows(t *testing.T) {
	rec, called := serveRequireAuthority(t, &domain.Principal{Authorities: []string{"ROLE_LECTURER", "ROLE_ADMIN"}})
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAuthority_Forbids(t *testing.T) {
	tests := map[string]*domain.Principal{
		"no principal":      nil,
		"missing authority": {Authorities: []string{"ROLE_STUDENT"}},
		"bare role name":    {Authorities: []string{"ADMIN"}},
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			rec, called := serveRequireAuthority(t, p)
			if called {
				t.Fatalf("next handler should not be called")
			}
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
			if body := rec.Body.String(); body != "{\"error\":\"access forbidden\"}\n" {
				t.Fatalf("unexpected body %q", body)
			}
		})
	}
}

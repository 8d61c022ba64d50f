package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hiringgo/account-service/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", domain.Validation("password too short"), http.StatusBadRequest, `{"error":"password too short"}`},
		{"conflict", domain.Conflict("email already registered"), http.StatusBadRequest, `{"error":"email already registered"}`},
		{"wrapped conflict", fmt.Errorf("create: %w", domain.Conflict("staff number already registered")), http.StatusBadRequest, `{"error":"staff number already registered"}`},
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "account not found"), http.StatusNotFound, `{"error":"account not found"}`},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if body := strings.TrimSpace(rec.Body.String()); body != tt.body {
				t.Fatalf("body = %s, want %s", body, tt.body)
			}
		})
	}
}

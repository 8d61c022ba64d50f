package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hiringgo/account-service/internal/pkg/metrics"
	"github.com/hiringgo/account-service/internal/core/domain"
	"github.com/hiringgo/account-service/internal/core/ports"
)

const (
	bearerPrefix = "Bearer "

	// PrincipalKey is the echo context key holding the authenticated principal.
	PrincipalKey = "principal"
)

// Authenticate inspects the bearer token of every request and, when it
// verifies, attaches the resulting principal to the request. It never rejects
// a request; anything short of a valid token leaves the request
// unauthenticated and RequireAuthority decides what that means.
func Authenticate(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			outcome := authenticate(c, verifier, log)
			metrics.AuthGateDecisionsTotal.WithLabelValues(outcome).Inc()
			return next(c)
		}
	}
}

func authenticate(c echo.Context, verifier ports.TokenVerifier, log zerolog.Logger) (outcome string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Str("path", c.Path()).Msg("authentication aborted")
			outcome = "extraction_failed"
		}
	}()

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "no_token"
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "no_token"
	}

	if !verifier.Validate(token) {
		return "invalid_token"
	}

	p, err := principal(verifier, token)
	if err != nil {
		log.Error().Err(err).Str("path", c.Path()).Msg("cannot build principal from token")
		return "extraction_failed"
	}

	c.Set(PrincipalKey, p)
	req := c.Request()
	c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
	return "authenticated"
}

func principal(verifier ports.TokenVerifier, token string) (*domain.Principal, error) {
	subject, err := verifier.Subject(token)
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	authorities, err := verifier.Authorities(token)
	if err != nil {
		return nil, fmt.Errorf("authorities: %w", err)
	}
	id, err := verifier.AccountID(token)
	if err != nil {
		return nil, fmt.Errorf("account id: %w", err)
	}
	return &domain.Principal{Subject: subject, AccountID: id, Authorities: authorities}, nil
}

// PrincipalFrom returns the principal attached by Authenticate, if any.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(*domain.Principal)
	return p, ok && p != nil
}

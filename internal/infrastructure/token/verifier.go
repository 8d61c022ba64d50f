package token

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hiringgo/account-service/internal/core/ports"
)

// MinSecretLength is the shortest HMAC secret accepted (256 bits).
const MinSecretLength = 32

// Claim names read from the token.
const (
	ClaimRoles  = "roles"
	ClaimUserID = "userId"
)

var validMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// ErrSecretTooShort is returned by NewVerifier for secrets under MinSecretLength.
var ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)

// Verifier validates HMAC-signed JWTs against a shared secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
	log    zerolog.Logger
}

// NewVerifier returns a Verifier for secret.
func NewVerifier(secret string, log zerolog.Logger) (*Verifier, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods(validMethods)),
		log:    log,
	}, nil
}

// Validate reports whether token is well-formed, signed with the secret and
// unexpired. The reason for a rejection is logged, never returned.
func (v *Verifier) Validate(token string) bool {
	if strings.TrimSpace(token) == "" {
		v.log.Error().Msg("JWT claims string is empty")
		return false
	}

	_, err := v.parser.Parse(token, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		v.log.Error().Err(err).Msg("invalid JWT token")
	case errors.Is(err, jwt.ErrTokenExpired):
		v.log.Error().Err(err).Msg("JWT token is expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		v.log.Error().Err(err).Msg("JWT token is unsupported or badly signed")
	default:
		v.log.Error().Err(err).Msg("JWT token rejected")
	}
	return false
}

// Subject returns the registered subject claim.
func (v *Verifier) Subject(token string) (string, error) {
	claims, err := v.claims(token)
	if err != nil {
		return "", err
	}
	return claims.GetSubject()
}

// Authorities returns the comma-separated roles claim as an ordered set.
// A missing or empty claim yields an empty slice.
func (v *Verifier) Authorities(token string) ([]string, error) {
	claims, err := v.claims(token)
	if err != nil {
		return nil, err
	}

	raw, ok := claims[ClaimRoles]
	if !ok || raw == nil {
		return []string{}, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s claim has type %T, want string", ClaimRoles, raw)
	}
	if s == "" {
		return []string{}, nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// AccountID returns the numeric userId claim.
func (v *Verifier) AccountID(token string) (int64, error) {
	claims, err := v.claims(token)
	if err != nil {
		return 0, err
	}

	switch id := claims[ClaimUserID].(type) {
	case float64:
		if id != math.Trunc(id) || id >= 1<<63 || id < math.MinInt64 {
			return 0, fmt.Errorf("%s claim %v is not an integer", ClaimUserID, id)
		}
		return int64(id), nil
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s claim: %w", ClaimUserID, err)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("%s claim is missing", ClaimUserID)
	default:
		return 0, fmt.Errorf("%s claim has type %T", ClaimUserID, id)
	}
}

// claims decodes the payload without checking the signature or expiry.
func (v *Verifier) claims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}
	return claims, nil
}

var _ ports.TokenVerifier = (*Verifier)(nil)

package ports

// TokenVerifier validates signed bearer tokens and extracts their claims.
//
// Extraction methods do not re-check the signature or expiry; callers must
// call Validate first.
type TokenVerifier interface {
	Validate(token string) bool
	Subject(token string) (string, error)
	Authorities(token string) ([]string, error)
	AccountID(token string) (int64, error)
}

package signing

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lectern/internal/services"
)

const (
	issuer   = "lectern"
	audience = "lectern-assets"
)

// Signer mints and verifies short-lived HMAC tokens that scope one asset
// download to one worksheet. The token travels as a URL query parameter, so
// the raw asset endpoint never trusts a bare worksheet ID.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type assetClaims struct {
	jwt.RegisteredClaims
	WorksheetID string `json:"worksheet_id"`
}

// New builds a signer. The secret must be non-empty; the TTL bounds how long
// a minted URL stays fetchable.
func New(secret string, ttl time.Duration) (*Signer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, services.Wrap(services.ErrConfiguration, "signing", "new", "signing secret is required", nil)
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the time source. Tests use it to cross expiry without
// sleeping.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Sign mints a token granting access to the given worksheet's asset.
func (s *Signer) Sign(worksheetID string) (string, error) {
	if strings.TrimSpace(worksheetID) == "" {
		return "", services.Wrap(services.ErrValidation, "signing", "sign", "worksheet id is required", nil)
	}
	issued := s.now().UTC()
	claims := assetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
		WorksheetID: worksheetID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "signing", "sign", "mint asset token", err)
	}
	return token, nil
}

// Verify checks the token and returns the worksheet ID it grants. Expired,
// tampered, or malformed tokens fail validation.
func (s *Signer) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", services.Wrap(services.ErrValidation, "signing", "verify", "token is required", nil)
	}

	var parsed assetClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", mapJWTError(err)
	}
	if strings.TrimSpace(parsed.WorksheetID) == "" {
		return "", services.Wrap(services.ErrValidation, "signing", "verify", "token carries no worksheet", nil)
	}
	return parsed.WorksheetID, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return services.Wrap(services.ErrValidation, "signing", "verify", "token is expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return services.Wrap(services.ErrValidation, "signing", "verify", "token signature is invalid", err)
	default:
		return services.Wrap(services.ErrValidation, "signing", "verify", "token is invalid", err)
	}
}

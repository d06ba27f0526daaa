package auth

import (
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var signingMethod = jwt.SigningMethodHS256

// TokenConfig is the read-only configuration a TokenService is built from.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	// TTL of issued tokens. Zero issues tokens without an exp claim.
	TTL time.Duration
	// Leeway tolerated on the exp check for clock skew.
	Leeway time.Duration
}

// TokenService issues and verifies HS256 signed access tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	cfg    TokenConfig
	parser *jwt.Parser
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for iat/exp.
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// Claims describes the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// NewTokenService validates cfg and builds a service. Errors here are
// configuration faults and should stop the process.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token service: secret is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("token service: issuer is required")
	}
	if strings.TrimSpace(cfg.Audience) == "" {
		return nil, errors.New("token service: audience is required")
	}
	if cfg.TTL < 0 {
		return nil, errors.New("token service: ttl must not be negative")
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("token service: leeway must not be negative")
	}
	cfg.Secret = slices.Clone(cfg.Secret)

	ts := &TokenService{
		cfg:    cfg,
		parser: jwt.NewParser(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}

	if _, err := signingMethod.Sign("probe", ts.cfg.Secret); err != nil {
		return nil, fmt.Errorf("token service: signer unusable: %w", err)
	}
	return ts, nil
}

// Issue builds and signs a token for subjectID. The returned expiry is zero
// when the service issues tokens without exp.
func (ts *TokenService) Issue(subjectID string) (string, time.Time, error) {
	token, claims, err := ts.IssueClaims(subjectID, "")
	if err != nil {
		return "", time.Time{}, err
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return token, expiresAt, nil
}

// IssueClaims signs a token for subjectID and returns it with the claims it
// carries. username is optional and travels as a display claim only.
func (ts *TokenService) IssueClaims(subjectID, username string) (string, *Claims, error) {
	if strings.TrimSpace(subjectID) == "" {
		return "", nil, errors.New("token service: subject is required")
	}

	now := ts.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ts.cfg.Issuer,
			Subject:  subjectID,
			Audience: jwt.ClaimStrings{ts.cfg.Audience},
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
		Username: username,
	}
	if ts.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ts.cfg.TTL))
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	tokenString, err := token.SignedString(ts.cfg.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, claims, nil
}

// Verify checks tokenStr and returns the subject it was issued for.
func (ts *TokenService) Verify(tokenStr string) (string, error) {
	claims, err := ts.ParseClaims(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ParseClaims verifies tokenStr and returns its claims. A token must have
// exactly three non-empty segments. The signature is checked over the raw
// segments before any payload byte is decoded.
func (ts *TokenService) ParseClaims(tokenStr string) (*Claims, error) {
	parts := strings.Split(tokenStr, ".")
	switch {
	case len(parts) == 3 && parts[0] != "" && parts[1] != "" && parts[2] != "":
		if err := ts.verifySignature(parts[0]+"."+parts[1], parts[2]); err != nil {
			return nil, err
		}
	case len(parts) == 4 && ts.isFlippedSeparator(parts):
		return nil, ErrSignatureInvalid
	default:
		return nil, ErrMalformedToken
	}

	claims := &Claims{}
	token, _, err := ts.parser.ParseUnverified(tokenStr, claims)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if alg := token.Method.Alg(); alg != signingMethod.Alg() {
		return nil, fmt.Errorf("%w: unexpected signing method %s", ErrSignatureInvalid, alg)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}

	if err := claims.ValidateIssuer(ts.cfg.Issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience(ts.cfg.Audience); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiry(ts.now(), ts.cfg.Leeway); err != nil {
		return nil, err
	}
	return claims, nil
}

// verifySignature compares the encoded signature, so any change to the
// presented segment fails even where base64 padding bits would decode equal.
func (ts *TokenService) verifySignature(signingInput, signature string) error {
	sig, err := signingMethod.Sign(signingInput, ts.cfg.Secret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	expected := base64.RawURLEncoding.EncodeToString(sig)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}

// isFlippedSeparator reports whether a four segment token is one of ours with
// a single 'n' turned into '.' by one bit flip. 'n' is the only base64url
// character one bit away from the separator.
func (ts *TokenService) isFlippedSeparator(parts []string) bool {
	for i := 0; i < len(parts)-1; i++ {
		restored := make([]string, 0, 3)
		restored = append(restored, parts[:i]...)
		restored = append(restored, parts[i]+"n"+parts[i+1])
		restored = append(restored, parts[i+2:]...)
		if restored[0] == "" || restored[1] == "" || restored[2] == "" {
			continue
		}
		if ts.verifySignature(restored[0]+"."+restored[1], restored[2]) == nil {
			return true
		}
	}
	return false
}

// ValidateIssuer checks the iss claim against the expected issuer.
func (c *Claims) ValidateIssuer(expected string) error {
	if c.Issuer != expected {
		return ErrIssuerMismatch
	}
	return nil
}

// ValidateAudience checks that expected is among the aud values.
func (c *Claims) ValidateAudience(expected string) error {
	if !slices.Contains(c.Audience, expected) {
		return ErrAudienceMismatch
	}
	return nil
}

// ValidateExpiry rejects the token when now is at or after exp (less leeway).
// Tokens without exp never expire.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil {
		return nil
	}
	if !now.Add(-leeway).Before(c.ExpiresAt.Time) {
		return ErrTokenExpired
	}
	return nil
}

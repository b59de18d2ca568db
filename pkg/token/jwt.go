package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalid = errors.New("invalid token")

// AccessClaims is the payload of a short-lived access token.
type AccessClaims struct {
	UserID uuid.UUID `json:"sub"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. Secret is the raw
// revocation secret; its keyed hash is what gets persisted.
type RefreshClaims struct {
	UserID uuid.UUID `json:"sub"`
	Secret string    `json:"secret"`
	jwt.RegisteredClaims
}

// Signer signs and verifies the two token kinds. It is an explicit port
// so the signing scheme stays swappable and tests can run with
// deterministic keys and short TTLs.
type Signer interface {
	SignAccess(userID uuid.UUID, role string) (string, error)
	SignRefresh(userID uuid.UUID, secret string) (token string, expiresAt time.Time, err error)
	VerifyAccess(token string) (*AccessClaims, error)
	VerifyRefresh(token string) (*RefreshClaims, error)
	// DecodeRefresh extracts claims without validating signature or
	// expiry. Used on logout, where a near-expired token must still be
	// revocable.
	DecodeRefresh(token string) (*RefreshClaims, error)
	AccessTTL() time.Duration
}

type hmacSigner struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewSigner(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) Signer {
	return &hmacSigner{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *hmacSigner) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *hmacSigner) SignAccess(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

func (s *hmacSigner) SignRefresh(userID uuid.UUID, secret string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.refreshTTL)
	claims := &RefreshClaims{
		UserID: userID,
		Secret: secret,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return signed, expiresAt, nil
}

func (s *hmacSigner) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(tokenString, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *hmacSigner) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.verify(tokenString, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *hmacSigner) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	// Bad signature, malformed payload and expiry all collapse to the
	// same opaque error.
	if err != nil || !token.Valid {
		return ErrInvalid
	}

	return nil
}

func (s *hmacSigner) DecodeRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalid
	}
	return claims, nil
}

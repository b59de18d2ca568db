package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"
	"food-ordering/internal/dto/response"
	"food-ordering/pkg/token"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidToken covers every refresh/access verification failure.
// Forged, expired and revoked tokens are deliberately indistinguishable
// to the caller.
var ErrInvalidToken = errors.New("invalid token")

const refreshSecretBytes = 64

// ClientMeta is the per-call client metadata captured at issuance.
// Only one-way hashes of it are ever persisted.
type ClientMeta struct {
	UserAgent string
	IP        string
}

type TokenService interface {
	// Issue mints an access/refresh pair and persists the refresh record.
	Issue(ctx context.Context, userID uuid.UUID, role entity.UserRole, meta ClientMeta) (*response.TokenPair, error)
	// VerifyAccess is the per-request check. It never touches storage.
	VerifyAccess(tokenString string) (uuid.UUID, entity.UserRole, error)
	// Rotate exchanges a refresh token for a fresh pair, revoking the old
	// record. Single-use: a second rotation with the same token fails.
	Rotate(ctx context.Context, refreshToken string, meta ClientMeta) (*response.TokenPair, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) error
	// RevokeByToken revokes the record behind a refresh token without
	// requiring the token to still verify. Unknown tokens are a no-op.
	RevokeByToken(ctx context.Context, refreshToken string) error
}

type tokenService struct {
	repo   *repository.Repository
	signer token.Signer
	salt   string
	log    *zap.Logger
}

func NewTokenService(repo *repository.Repository, config *utils.Config, log *zap.Logger) TokenService {
	signer := token.NewSigner(
		config.JWT.AccessSecret,
		config.JWT.RefreshSecret,
		config.JWT.AccessTTL,
		config.JWT.RefreshTTL,
	)

	return &tokenService{
		repo:   repo,
		signer: signer,
		salt:   config.JWT.RefreshTokenSalt,
		log:    log,
	}
}

func (s *tokenService) Issue(ctx context.Context, userID uuid.UUID, role entity.UserRole, meta ClientMeta) (*response.TokenPair, error) {
	// 1. Access token carries subject and role only
	accessToken, err := s.signer.SignAccess(userID, string(role))
	if err != nil {
		s.log.Error("Failed to sign access token", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	// 2. Fresh random secret inside the refresh token; its keyed hash is
	// what the record stores, never the secret or the signed string
	secret, err := generateRefreshSecret()
	if err != nil {
		return nil, fmt.Errorf("generate refresh secret: %w", err)
	}

	refreshToken, expiresAt, err := s.signer.SignRefresh(userID, secret)
	if err != nil {
		s.log.Error("Failed to sign refresh token", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	// 3. Durable record, expiry taken from the signed token's own claim
	record := &entity.RefreshToken{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:        userID,
		TokenHash:     s.hashSecret(secret),
		UserAgentHash: hashMeta(meta.UserAgent),
		IPHash:        hashMeta(meta.IP),
		ExpiresAt:     expiresAt,
	}

	if err := s.repo.RefreshToken.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	s.log.Info("Token pair issued",
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)),
	)

	return &response.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.signer.AccessTTL().Seconds()),
	}, nil
}

func (s *tokenService) VerifyAccess(tokenString string) (uuid.UUID, entity.UserRole, error) {
	claims, err := s.signer.VerifyAccess(tokenString)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	return claims.UserID, entity.UserRole(claims.Role), nil
}

func (s *tokenService) Rotate(ctx context.Context, refreshToken string, meta ClientMeta) (*response.TokenPair, error) {
	// 1. Signature and expiry of the envelope
	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// 2. Look up the record behind the embedded secret
	record, err := s.repo.RefreshToken.FindActiveByHash(ctx, s.hashSecret(claims.Secret))
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	// Missing, revoked and expired records all report the same error
	if record == nil || time.Now().After(record.ExpiresAt) {
		s.log.Warn("Refresh rotation refused", zap.String("user_id", claims.UserID.String()))
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	// 3. Revoke-then-issue. The conditional update decides the winner
	// between concurrent rotations of the same token: the loser sees
	// zero rows updated and fails like any other invalid token.
	revoked, err := s.repo.RefreshToken.Revoke(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	if !revoked {
		s.log.Warn("Refresh rotation lost the race", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidToken
	}

	return s.Issue(ctx, user.ID, user.Role, meta)
}

func (s *tokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.RefreshToken.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}

	s.log.Info("All refresh tokens revoked", zap.String("user_id", userID.String()))
	return nil
}

func (s *tokenService) RevokeByToken(ctx context.Context, refreshToken string) error {
	// Decode without full verification: a near-expired token must still
	// be usable for logout
	claims, err := s.signer.DecodeRefresh(refreshToken)
	if err != nil || claims.Secret == "" {
		return nil
	}

	if err := s.repo.RefreshToken.RevokeByHash(ctx, s.hashSecret(claims.Secret)); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

// hashSecret derives the persisted lookup key from the raw refresh
// secret and the server-side salt.
func (s *tokenService) hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret + s.salt))
	return hex.EncodeToString(sum[:])
}

func hashMeta(value string) string {
	if value == "" {
		value = "unknown"
	}
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func generateRefreshSecret() (string, error) {
	b := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

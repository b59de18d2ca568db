package repository

import (
	"context"
	"fmt"

	"food-ordering/internal/data/entity"
	"food-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	// FindActiveByHash returns the non-revoked record matching the hash,
	// or nil when none exists. Expiry is checked by the caller so that
	// all rotation failures collapse to one error.
	FindActiveByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)
	// Revoke marks a single record revoked. The conditional update makes
	// rotation single-winner: the returned bool is false when another
	// call already revoked the record.
	Revoke(ctx context.Context, id uuid.UUID) (bool, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	// RevokeAllForUser bulk-revokes. Records are never deleted, expired
	// and revoked rows stay behind for audit.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

type refreshTokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefreshTokenRepository(db database.PgxIface, log *zap.Logger) RefreshTokenRepository {
	return &refreshTokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "refresh_token")),
	}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, user_agent_hash,
		                           ip_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.UserAgentHash,
		token.IPHash,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create refresh token",
			zap.Error(err),
			zap.String("user_id", token.UserID.String()),
		)
		return fmt.Errorf("create refresh token: %w", err)
	}

	return nil
}

func (r *refreshTokenRepository) FindActiveByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, user_agent_hash, ip_hash,
		       expires_at, revoked_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL
	`

	var token entity.RefreshToken
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.UserAgentHash,
		&token.IPHash,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find refresh token", zap.Error(err))
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to revoke refresh token",
			zap.Error(err),
			zap.String("token_id", id.String()),
		)
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *refreshTokenRepository) RevokeByHash(ctx context.Context, tokenHash string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`

	// No rows affected is fine here: logout with an unknown or already
	// revoked token is a silent no-op.
	_, err := r.db.Exec(ctx, query, tokenHash)
	if err != nil {
		r.log.Error("Failed to revoke refresh token by hash", zap.Error(err))
		return fmt.Errorf("revoke refresh token by hash: %w", err)
	}

	return nil
}

func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL
	`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to revoke all user refresh tokens",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("revoke refresh tokens for user: %w", err)
	}

	return nil
}

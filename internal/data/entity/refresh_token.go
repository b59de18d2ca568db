package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the durable record behind one issued refresh token.
// Only the keyed hash of the raw refresh secret is persisted, never the
// secret itself or the signed token string. Records are revoked, not
// deleted, so they stay available for audit.
type RefreshToken struct {
	BaseSimple
	UserID        uuid.UUID  `db:"user_id"`
	TokenHash     string     `db:"token_hash"`
	UserAgentHash string     `db:"user_agent_hash"`
	IPHash        string     `db:"ip_hash"`
	ExpiresAt     time.Time  `db:"expires_at"`
	RevokedAt     *time.Time `db:"revoked_at"`
}

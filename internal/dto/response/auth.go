package response

import (
	"time"

	"food-ordering/internal/data/entity"
)

// TokenPair is what every successful login or rotation hands back.
// ExpiresIn is the access-token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type SendCodeResponse struct {
	TTLSeconds    int `json:"ttl_seconds"`
	ResendSeconds int `json:"resend_seconds"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Phone     *string         `json:"phone,omitempty"`
	Username  *string         `json:"username,omitempty"`
	Name      *string         `json:"name,omitempty"`
	Role      entity.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

type AuthResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

type AdminAuthResponse struct {
	AuthResponse
	// Advisory only: set when the submitted password equals the
	// configured default so the client can prompt a change. Never blocks
	// the login.
	MustChangePassword bool `json:"must_change_password"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Phone:     user.Phone,
		Username:  user.Username,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

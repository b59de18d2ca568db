package usecase

import (
	"context"
	"errors"
	"fmt"

	"food-ordering/internal/data/otpstore"
	"food-ordering/internal/data/repository"
	"food-ordering/internal/dto/request"
	"food-ordering/internal/dto/response"
	"food-ordering/pkg/sms"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidCredentials covers unknown username, non-admin role, missing
// password hash and wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	// RequestCode issues an OTP for the phone and hands it to the SMS
	// provider. The code itself never leaves this boundary.
	RequestCode(ctx context.Context, phone string) (*response.SendCodeResponse, error)
	// VerifyCode consumes the OTP, upserts the customer account and
	// returns the user with a fresh token pair.
	VerifyCode(ctx context.Context, req *request.VerifyCodeRequest, meta ClientMeta) (*response.AuthResponse, error)
	// AdminLogin authenticates an administrator by username/password.
	AdminLogin(ctx context.Context, req *request.AdminLoginRequest, meta ClientMeta) (*response.AdminAuthResponse, error)
	// Refresh rotates a refresh token. Failures are terminal: the client
	// must log in again, never retry.
	Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*response.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	Profile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
}

type authService struct {
	repo     *repository.Repository
	ledger   otpstore.Ledger
	tokens   TokenService
	provider sms.Provider
	config   *utils.Config
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	ledger otpstore.Ledger,
	tokens TokenService,
	provider sms.Provider,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		ledger:   ledger,
		tokens:   tokens,
		provider: provider,
		config:   config,
		log:      log,
	}
}

func (s *authService) RequestCode(ctx context.Context, phone string) (*response.SendCodeResponse, error) {
	// 1. Issue the code (cooldown enforced by the ledger)
	code, ttl, resendIn, err := s.ledger.RequestCode(phone)
	if err != nil {
		return nil, err
	}

	// 2. Hand off to the SMS provider. On delivery failure the entry
	// stays: the cooldown still bounds SMS cost per phone
	if err := s.provider.SendCode(ctx, phone, code, int(ttl.Seconds())); err != nil {
		s.log.Error("Failed to deliver OTP", zap.Error(err), zap.String("phone", phone))
		return nil, fmt.Errorf("send code: %w", err)
	}

	s.log.Info("OTP requested", zap.String("phone", phone))

	return &response.SendCodeResponse{
		TTLSeconds:    int(ttl.Seconds()),
		ResendSeconds: int(resendIn.Seconds()),
	}, nil
}

func (s *authService) VerifyCode(ctx context.Context, req *request.VerifyCodeRequest, meta ClientMeta) (*response.AuthResponse, error) {
	// 1. Consume the code
	if err := s.ledger.VerifyCode(req.Phone, req.Code); err != nil {
		s.log.Warn("OTP verification failed", zap.Error(err), zap.String("phone", req.Phone))
		return nil, err
	}

	// 2. First login creates the customer account
	user, err := s.repo.User.UpsertByPhone(ctx, req.Phone, req.Name)
	if err != nil {
		s.log.Error("Failed to upsert user", zap.Error(err), zap.String("phone", req.Phone))
		return nil, fmt.Errorf("verify code: %w", err)
	}

	// 3. Mint the pair
	pair, err := s.tokens.Issue(ctx, user.ID, user.Role, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in via OTP", zap.String("user_id", user.ID.String()))

	return &response.AuthResponse{
		User:   response.UserToResponse(user),
		Tokens: *pair,
	}, nil
}

func (s *authService) AdminLogin(ctx context.Context, req *request.AdminLoginRequest, meta ClientMeta) (*response.AdminAuthResponse, error) {
	// 1. Look up the account. Unknown user, wrong role and missing hash
	// all fall through to the same error
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find admin user", zap.Error(err))
		return nil, fmt.Errorf("admin login: %w", err)
	}
	if user == nil || !user.IsAdmin() || user.PasswordHash == nil {
		s.log.Warn("Admin login refused", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 2. Memory-hard hash check
	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		s.log.Warn("Admin password mismatch", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	// 3. Mint the pair
	pair, err := s.tokens.Issue(ctx, user.ID, user.Role, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("Admin logged in", zap.String("user_id", user.ID.String()))

	return &response.AdminAuthResponse{
		AuthResponse: response.AuthResponse{
			User:   response.UserToResponse(user),
			Tokens: *pair,
		},
		MustChangePassword: req.Password == s.config.Admin.DefaultPassword,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*response.TokenPair, error) {
	return s.tokens.Rotate(ctx, refreshToken, meta)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.RevokeByToken(ctx, refreshToken)
}

func (s *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.RevokeAll(ctx, userID)
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", userID.String())
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

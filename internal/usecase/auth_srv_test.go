package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/otpstore"
	"food-ordering/internal/dto/request"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPhone = "+79991234567"

// fakeSMS captures the last delivered code so tests can complete the
// OTP round trip.
type fakeSMS struct {
	mu       sync.Mutex
	lastCode string
	fail     bool
}

func (f *fakeSMS) SendCode(ctx context.Context, phone, code string, ttlSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("delivery failed")
	}
	f.lastCode = code
	return nil
}

func (f *fakeSMS) code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCode
}

type authFixture struct {
	auth   AuthService
	tokens TokenService
	repo   *fakeUserRepo
	sms    *fakeSMS
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	config := testConfig()
	log := zap.NewNop()
	repo := testRepository()
	provider := &fakeSMS{}
	tokens := NewTokenService(repo, config, log)
	ledger := otpstore.NewLedger(log)
	auth := NewAuthService(repo, ledger, tokens, provider, config, log)

	return &authFixture{
		auth:   auth,
		tokens: tokens,
		repo:   repo.User.(*fakeUserRepo),
		sms:    provider,
	}
}

func (fx *authFixture) seedAdmin(t *testing.T, password string) *entity.User {
	t.Helper()

	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)

	now := time.Now()
	username := "admin"
	admin := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     &username,
		Role:         entity.RoleAdmin,
		PasswordHash: &hashed,
		IsActive:     true,
	}
	require.NoError(t, fx.repo.Create(context.Background(), admin))

	return admin
}

func TestRequestCode_returnsTTLs(t *testing.T) {
	fx := newAuthFixture(t)

	resp, err := fx.auth.RequestCode(context.Background(), testPhone)
	require.NoError(t, err)

	assert.Equal(t, 300, resp.TTLSeconds)
	assert.Equal(t, 60, resp.ResendSeconds)
	assert.Len(t, fx.sms.code(), 6)
}

func TestRequestCode_cooldown(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.auth.RequestCode(context.Background(), testPhone)
	require.NoError(t, err)

	_, err = fx.auth.RequestCode(context.Background(), testPhone)
	assert.ErrorIs(t, err, otpstore.ErrResendTooSoon)
}

func TestRequestCode_deliveryFailure(t *testing.T) {
	fx := newAuthFixture(t)
	fx.sms.fail = true

	_, err := fx.auth.RequestCode(context.Background(), testPhone)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, otpstore.ErrResendTooSoon)
}

func TestVerifyCode_fullLoginFlow(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.auth.RequestCode(context.Background(), testPhone)
	require.NoError(t, err)

	name := "Ivan"
	resp, err := fx.auth.VerifyCode(context.Background(), &request.VerifyCodeRequest{
		Phone: testPhone,
		Code:  fx.sms.code(),
		Name:  &name,
	}, testMeta)
	require.NoError(t, err)

	require.NotNil(t, resp.User.Phone)
	assert.Equal(t, testPhone, *resp.User.Phone)
	require.NotNil(t, resp.User.Name)
	assert.Equal(t, "Ivan", *resp.User.Name)
	assert.Equal(t, entity.RoleCustomer, resp.User.Role)

	// The pair authenticates as the new customer
	userID, role, err := fx.tokens.VerifyAccess(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID.String())
	assert.Equal(t, entity.RoleCustomer, role)

	// Full rotation scenario: rotate, then the original refresh token
	// is dead
	pair2, err := fx.auth.Refresh(context.Background(), resp.Tokens.RefreshToken, testMeta)
	require.NoError(t, err)
	assert.NotEqual(t, resp.Tokens.RefreshToken, pair2.RefreshToken)

	_, err = fx.auth.Refresh(context.Background(), resp.Tokens.RefreshToken, testMeta)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyCode_wrongCode(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.auth.RequestCode(context.Background(), testPhone)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == fx.sms.code() {
		wrong = "000001"
	}

	_, err = fx.auth.VerifyCode(context.Background(), &request.VerifyCodeRequest{
		Phone: testPhone,
		Code:  wrong,
	}, testMeta)
	assert.ErrorIs(t, err, otpstore.ErrCodeMismatch)
}

func TestVerifyCode_consumedCode(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.auth.RequestCode(context.Background(), testPhone)
	require.NoError(t, err)

	req := &request.VerifyCodeRequest{Phone: testPhone, Code: fx.sms.code()}

	_, err = fx.auth.VerifyCode(context.Background(), req, testMeta)
	require.NoError(t, err)

	// Success consumed the entry
	_, err = fx.auth.VerifyCode(context.Background(), req, testMeta)
	assert.ErrorIs(t, err, otpstore.ErrCodeNotFound)
}

func TestVerifyCode_repeatLoginKeepsAccount(t *testing.T) {
	fx := newAuthFixture(t)

	login := func() string {
		_, err := fx.auth.RequestCode(context.Background(), "+79990000002")
		require.NoError(t, err)
		resp, err := fx.auth.VerifyCode(context.Background(), &request.VerifyCodeRequest{
			Phone: "+79990000002",
			Code:  fx.sms.code(),
		}, testMeta)
		require.NoError(t, err)
		return resp.User.ID
	}

	first := login()
	second := login()

	assert.Equal(t, first, second)
}

func TestAdminLogin_success(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedAdmin(t, "s3cure-password")

	resp, err := fx.auth.AdminLogin(context.Background(), &request.AdminLoginRequest{
		Username: "admin",
		Password: "s3cure-password",
	}, testMeta)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
	assert.False(t, resp.MustChangePassword)

	_, role, err := fx.tokens.VerifyAccess(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestAdminLogin_defaultPasswordAdvisory(t *testing.T) {
	fx := newAuthFixture(t)
	// testConfig sets the default admin password to "1234"
	fx.seedAdmin(t, "1234")

	resp, err := fx.auth.AdminLogin(context.Background(), &request.AdminLoginRequest{
		Username: "admin",
		Password: "1234",
	}, testMeta)
	require.NoError(t, err)

	// Advisory only, the login itself succeeded
	assert.True(t, resp.MustChangePassword)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
}

func TestAdminLogin_invalidCredentials(t *testing.T) {
	fx := newAuthFixture(t)
	fx.seedAdmin(t, "s3cure-password")

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown user", "nobody", "s3cure-password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.auth.AdminLogin(context.Background(), &request.AdminLoginRequest{
				Username: tc.username,
				Password: tc.password,
			}, testMeta)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAdminLogin_customerCannotUsePasswordLogin(t *testing.T) {
	fx := newAuthFixture(t)

	// A customer with a username but no admin role
	username := "customer-with-username"
	hashed, err := utils.HashPassword("whatever")
	require.NoError(t, err)

	now := time.Now()
	customer := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     &username,
		Role:         entity.RoleCustomer,
		PasswordHash: &hashed,
		IsActive:     true,
	}
	require.NoError(t, fx.repo.Create(context.Background(), customer))

	_, err = fx.auth.AdminLogin(context.Background(), &request.AdminLoginRequest{
		Username: username,
		Password: "whatever",
	}, testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_revokesRefreshToken(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.auth.RequestCode(context.Background(), testPhone)
	require.NoError(t, err)

	resp, err := fx.auth.VerifyCode(context.Background(), &request.VerifyCodeRequest{
		Phone: testPhone,
		Code:  fx.sms.code(),
	}, testMeta)
	require.NoError(t, err)

	require.NoError(t, fx.auth.Logout(context.Background(), resp.Tokens.RefreshToken))

	_, err = fx.auth.Refresh(context.Background(), resp.Tokens.RefreshToken, testMeta)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutAll(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.auth.RequestCode(context.Background(), testPhone)
	require.NoError(t, err)

	resp, err := fx.auth.VerifyCode(context.Background(), &request.VerifyCodeRequest{
		Phone: testPhone,
		Code:  fx.sms.code(),
	}, testMeta)
	require.NoError(t, err)

	userID, err := uuid.Parse(resp.User.ID)
	require.NoError(t, err)

	require.NoError(t, fx.auth.LogoutAll(context.Background(), userID))

	_, err = fx.auth.Refresh(context.Background(), resp.Tokens.RefreshToken, testMeta)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	fx := newAuthFixture(t)

	user, err := fx.repo.UpsertByPhone(context.Background(), testPhone, nil)
	require.NoError(t, err)

	profile, err := fx.auth.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), profile.ID)

	_, err = fx.auth.Profile(context.Background(), uuid.New())
	assert.Error(t, err)
}

package wire

import (
	"food-ordering/internal/adaptor"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/middleware"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewRateLimiter(config.RateLimit.Window, config.RateLimit.Max)

	// ==================== PUBLIC ROUTES ====================
	// OTP endpoints sit behind the per-IP limiter on top of the
	// per-phone cooldown
	r.With(limiter.Limit).Post("/api/auth/send-code", handler.Auth.SendCode)
	r.With(limiter.Limit).Post("/api/auth/verify-code", handler.Auth.VerifyCode)
	r.With(limiter.Limit).Post("/api/admin/login", handler.Auth.AdminLogin)
	r.Post("/api/auth/refresh", handler.Auth.Refresh)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireAuth(log)).Post("/api/auth/logout", handler.Auth.Logout)
	r.With(middleware.RequireAuth(log)).Post("/api/auth/logout-all", handler.Auth.LogoutAll)
	r.With(middleware.RequireAuth(log)).Get("/api/me", handler.User.Me)

	// ==================== ADMIN ROUTES ====================
	r.With(middleware.RequireAdmin(log)).Post("/api/admin/users/{id}/revoke-tokens", handler.Auth.RevokeUserTokens)
}

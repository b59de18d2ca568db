package adaptor

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"food-ordering/internal/data/otpstore"
	"food-ordering/internal/dto/request"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// SendCode handles POST /api/auth/send-code
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req request.SendCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.RequestCode(r.Context(), req.Phone)
	if err != nil {
		h.handleServiceError(w, err, "send code")
		return
	}

	utils.ResponseSuccess(w, "Code sent", resp)
}

// VerifyCode handles POST /api/auth/verify-code
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.VerifyCode(r.Context(), &req, clientMeta(r))
	if err != nil {
		h.handleServiceError(w, err, "verify code")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// AdminLogin handles POST /api/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.AdminLogin(r.Context(), &req, clientMeta(r))
	if err != nil {
		h.handleServiceError(w, err, "admin login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken, clientMeta(r))
	if err != nil {
		h.handleServiceError(w, err, "refresh")
		return
	}

	utils.ResponseSuccess(w, "Session refreshed", resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req request.LogoutRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		h.handleServiceError(w, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// LogoutAll handles POST /api/auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		h.handleServiceError(w, err, "logout all")
		return
	}

	utils.ResponseSuccess(w, "All sessions revoked", nil)
}

// RevokeUserTokens handles POST /api/admin/users/{id}/revoke-tokens
// Administrative bulk revoke: every outstanding refresh token of the
// user stops rotating.
func (h *AuthHandler) RevokeUserTokens(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		h.handleServiceError(w, err, "revoke user tokens")
		return
	}

	utils.ResponseSuccess(w, "User sessions revoked", nil)
}

// handleServiceError maps service error kinds to HTTP responses
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, otpstore.ErrResendTooSoon):
		h.log.Warn(operation+" failed - resend too soon", zap.Error(err))
		utils.ResponseTooManyRequests(w, "Request a new code later")

	case errors.Is(err, otpstore.ErrCodeNotFound):
		h.log.Warn(operation+" failed - code not found", zap.Error(err))
		utils.ResponseNotFound(w, "Code not found")

	case errors.Is(err, otpstore.ErrCodeExpired):
		utils.ResponseBadRequest(w, "Code expired", nil)

	case errors.Is(err, otpstore.ErrCodeMismatch):
		utils.ResponseBadRequest(w, "Wrong code", nil)

	case errors.Is(err, otpstore.ErrAttemptsExceeded):
		h.log.Warn(operation+" failed - attempts exceeded", zap.Error(err))
		utils.ResponseBadRequest(w, "Attempt limit reached, request a new code", nil)

	case errors.Is(err, usecase.ErrInvalidToken):
		utils.ResponseUnauthorized(w, "Invalid token")

	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.ResponseUnauthorized(w, "Invalid credentials")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// clientMeta collects the request metadata whose hashes end up on the
// refresh record
func clientMeta(r *http.Request) usecase.ClientMeta {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	return usecase.ClientMeta{
		UserAgent: r.UserAgent(),
		IP:        host,
	}
}

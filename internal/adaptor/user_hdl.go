package adaptor

import (
	"net/http"

	"food-ordering/internal/usecase"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewUserHandler(service usecase.AuthService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// Me handles GET /api/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.log.Error("Failed to load profile", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "Profile", profile)
}

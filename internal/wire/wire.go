// internal/wire/wire.go
package wire

import (
	"net/http"

	"food-ordering/internal/adaptor"
	"food-ordering/internal/data/repository"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/middleware"
	"food-ordering/pkg/sms"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	provider := newSMSProvider(config, logger)

	service := usecase.NewService(repo, provider, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, config, logger)

	return &App{
		Router: router,
	}
}

// newSMSProvider picks sms.ru when an API key is configured, the
// console fallback otherwise
func newSMSProvider(config *utils.Config, logger *zap.Logger) sms.Provider {
	if config.SMS.APIKey != "" {
		return sms.NewSmsRuProvider(config.SMS.APIKey, logger)
	}

	logger.Warn("SMSRU_API_KEY not set, OTP delivery goes to debug log only")
	return sms.NewConsoleProvider(logger)
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware. Authenticate only attaches identity, the
	// tier checks sit on the routes
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Authenticate(service.Token, logger))

	wireAuth(r, handler, service, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/freestreet/internal/api/handler"
	"github.com/mcoot/freestreet/internal/api/middleware"
	"github.com/mcoot/freestreet/internal/gateway"
	rootmiddleware "github.com/mcoot/freestreet/internal/middleware"
	"github.com/mcoot/freestreet/internal/services/account"
	"github.com/mcoot/freestreet/internal/services/crew"
	"github.com/mcoot/freestreet/internal/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *session.Registry
	Accounts *account.Service
	Crews    *crew.Controller
	Gateway  *gateway.Hub
	// OperatorToken protects the lookup routes when set
	OperatorToken string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	participantHandler := handler.NewParticipantHandler(cfg.Registry)
	crewHandler := handler.NewCrewHandler(cfg.Crews)
	profileHandler := handler.NewProfileHandler(cfg.Accounts)

	recoveryMiddleware := rootmiddleware.Recovery(cfg.Logger)
	loggingMiddleware := rootmiddleware.Logging(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", participantHandler.Health).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.OperatorToken(cfg.OperatorToken))
	protected.HandleFunc("/participants", participantHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/crews", crewHandler.Search).Methods(http.MethodGet)
	protected.HandleFunc("/profiles/{login}", profileHandler.Get).Methods(http.MethodGet)

	// Game clients connect here
	r.Handle("/ws", loggingMiddleware(recoveryMiddleware(http.HandlerFunc(cfg.Gateway.ServeWS)))).Methods(http.MethodGet)

	return r
}

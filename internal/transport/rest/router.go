package rest

import (
	"net/http"
	"os"
	"pedtriage/internal/protocol"
	"pedtriage/internal/service"
	"pedtriage/internal/transport/rest/handler"
	"pedtriage/internal/transport/rest/middleware"
	"pedtriage/internal/transport/ws"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	SessionService *service.SessionService
	TriageService  *service.TriageService
	TokenService   *service.TokenService
	Pack           *protocol.Pack
	WSHub          *ws.Hub
	Logger         *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	triageHandler := handler.NewTriageHandler(c.TriageService)
	assessmentHandler := handler.NewAssessmentHandler(c.TriageService)
	overrideHandler := handler.NewOverrideHandler(c.TriageService)
	escalationHandler := handler.NewEscalationHandler(c.TriageService)
	differentialHandler := handler.NewDifferentialHandler(c.TriageService)
	drugHandler := handler.NewDrugHandler(c.Pack, c.TriageService)
	recordHandler := handler.NewRecordHandler(c.SessionService, c.TriageService)
	wsHandler := ws.NewHandler(c.WSHub, c.TokenService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.TokenService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/join", sessionHandler.Join).Methods("POST", "OPTIONS")

	// Reference data and the stateless dose calculator
	v1.HandleFunc("/drugs", drugHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/drugs/{id}", drugHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/doses", drugHandler.Compute).Methods("POST", "OPTIONS")

	// Audit review across sessions
	v1.HandleFunc("/overrides/flagged", recordHandler.FlaggedOverrides).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Swagger UI
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Session routes (any session token)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/question", triageHandler.CurrentQuestion).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/phase", assessmentHandler.Phase).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/findings", assessmentHandler.Findings).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/overrides", overrideHandler.List).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/differentials", differentialHandler.Rank).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/escalation", escalationHandler.State).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/timers", escalationHandler.Timers).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/events", recordHandler.Events).Methods("GET", "OPTIONS")

	// Lead routes (mutations)
	leadRoutes := v1.NewRoute().Subrouter()
	leadRoutes.Use(authMW.RequireLead)

	leadRoutes.HandleFunc("/sessions/{id}/close", sessionHandler.Close).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/patient", sessionHandler.UpdatePatient).Methods("PATCH", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/answers", triageHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/observations", assessmentHandler.RecordObservation).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/phase/advance", assessmentHandler.Advance).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/findings/{fid}/resolve", assessmentHandler.ResolveFinding).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/overrides", overrideHandler.Create).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/doses", drugHandler.ComputeForSession).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/interventions/{fid}/attempts", escalationHandler.RecordAttempt).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/boluses", escalationHandler.RecordBolus).Methods("POST", "OPTIONS")
	leadRoutes.HandleFunc("/sessions/{id}/reassessments", escalationHandler.RecordReassessment).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PATCH, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"net/http"
	"pedtriage/internal/model"
	"pedtriage/internal/service"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const (
	SessionIDKey   contextKey = "sessionId"
	ClinicianIDKey contextKey = "clinicianId"
	RoleKey        contextKey = "role"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	tokens *service.TokenService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireSession validates a session JWT from the Authorization header and
// checks it was issued for the session in the URL. Any role passes.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireLead additionally requires the lead role. Observers get 403.
func (m *AuthMiddleware) RequireLead(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		if claims.Role != model.RoleLead {
			http.Error(w, `{"error":"lead role required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*model.SessionClaims, bool) {
	token := extractBearerToken(r)
	if token == "" {
		http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.tokens.Validate(token)
	if err != nil {
		http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
		return nil, false
	}

	if id := mux.Vars(r)["id"]; id != "" && id != claims.SessionID {
		http.Error(w, `{"error":"token not valid for this session"}`, http.StatusForbidden)
		return nil, false
	}
	return claims, true
}

func withClaims(ctx context.Context, claims *model.SessionClaims) context.Context {
	ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
	ctx = context.WithValue(ctx, ClinicianIDKey, claims.ClinicianID)
	ctx = context.WithValue(ctx, RoleKey, claims.Role)
	return ctx
}

// GetSessionID extracts the session ID from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetClinicianID extracts the clinician ID from context
func GetClinicianID(ctx context.Context) string {
	if v := ctx.Value(ClinicianIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetRole extracts the clinician role from context
func GetRole(ctx context.Context) model.Role {
	if v := ctx.Value(RoleKey); v != nil {
		return v.(model.Role)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

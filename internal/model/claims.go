package model

import "github.com/golang-jwt/jwt/v5"

// Role is what a connected clinician may do in a session
type Role string

const (
	RoleLead     Role = "lead"     // runs the encounter, may mutate
	RoleObserver Role = "observer" // team display, read and stream only
)

// SessionClaims are JWT claims for session-scoped clinician tokens
type SessionClaims struct {
	SessionID   string `json:"sessionId"`
	ClinicianID string `json:"clinicianId"`
	Role        Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenResponse is returned when a session is started or joined
type TokenResponse struct {
	Token       string `json:"token"`
	SessionID   string `json:"sessionId"`
	ClinicianID string `json:"clinicianId"`
	Role        Role   `json:"role"`
}

package service

import (
	"pedtriage/internal/model"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("top-secret", time.Hour)

	token, err := svc.Issue("sess-9", "dr-lane", model.RoleLead)
	require.NoError(t, err)
	assert.Equal(t, "sess-9", token.SessionID)
	assert.Equal(t, "dr-lane", token.ClinicianID)
	assert.Equal(t, model.RoleLead, token.Role)
	assert.NotEmpty(t, token.Token)

	claims, err := svc.Validate(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "sess-9", claims.SessionID)
	assert.Equal(t, "dr-lane", claims.ClinicianID)
	assert.Equal(t, model.RoleLead, claims.Role)
}

func TestTokenGeneratesClinicianID(t *testing.T) {
	svc := NewTokenService("top-secret", time.Hour)

	token, err := svc.Issue("sess-9", "", model.RoleObserver)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token.ClinicianID, "clin_"),
		"generated id %q should carry the clin_ prefix", token.ClinicianID)

	claims, err := svc.Validate(token.Token)
	require.NoError(t, err)
	assert.Equal(t, token.ClinicianID, claims.ClinicianID)
	assert.Equal(t, model.RoleObserver, claims.Role)
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("top-secret", -time.Minute)

	token, err := svc.Issue("sess-9", "dr-lane", model.RoleLead)
	require.NoError(t, err)

	_, err = svc.Validate(token.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsTamperedAndForeign(t *testing.T) {
	svc := NewTokenService("top-secret", time.Hour)
	token, err := svc.Issue("sess-9", "dr-lane", model.RoleLead)
	require.NoError(t, err)

	_, err = svc.Validate(token.Token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenService("different-secret", time.Hour)
	_, err = other.Validate(token.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

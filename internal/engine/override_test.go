package engine

import (
	"pedtriage/internal/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrideFindingUnblocksCriticalGate(t *testing.T) {
	eng, _ := newTestEngine(t)

	observe(t, eng, "responsiveness", optVal("alert"))
	raised := observe(t, eng, "patency", optVal("obstructed"))
	require.Len(t, raised, 1)
	require.Equal(t, "AIRWAY-OBSTRUCTION", raised[0].Code)
	fid := raised[0].ID

	v := eng.Validate()
	assert.False(t, v.CanAdvance)
	require.Len(t, v.Unresolved, 1)

	// A critical target refuses a thin reason.
	_, err := eng.OverrideFinding(fid, "known anatomy", "dr-lane")
	assert.ErrorIs(t, err, ErrReasonRequired)

	ov, err := eng.OverrideFinding(fid, "ENT at bedside, difficult airway plan in place", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, model.TargetFinding, ov.Target)
	assert.Equal(t, fid, ov.FindingID)
	assert.Equal(t, model.SeverityCritical, ov.Severity)
	assert.True(t, ov.AuditFlag)
	assert.Equal(t, int64(1), ov.Seq)
	assert.Equal(t, "sess-1", ov.SessionID)
	assert.NotEmpty(t, ov.ID)

	f := eng.State().Finding(fid)
	assert.Equal(t, model.FindingOverridden, f.Status)
	assert.Equal(t, ov.ID, f.OverrideID)
	require.NotNil(t, f.ResolvedAt)
	assert.False(t, f.Blocking())

	v = eng.Validate()
	assert.True(t, v.CanAdvance)
	_, err = eng.Advance()
	require.NoError(t, err)
	assert.Equal(t, model.PhaseBreathing, eng.State().Assessment.Current)

	_, err = eng.OverrideFinding(fid, "ENT at bedside, difficult airway plan in place", "dr-lane")
	assert.ErrorIs(t, err, ErrFindingSettled)
}

func TestOverrideReasonFollowsTargetSeverity(t *testing.T) {
	eng, _ := newTestEngine(t)
	passTriage(t, eng, "breathing")
	res := answer(t, eng, "breath_sounds", multiVal("wheezing"))
	require.Equal(t, model.SeverityUrgent, res.Finding.Severity)

	_, err := eng.OverrideFinding(res.Finding.ID, "   ", "dr-lane")
	assert.ErrorIs(t, err, ErrReasonRequired)

	// An urgent target accepts any non-empty reason and is not audit
	// flagged.
	ov, err := eng.OverrideFinding(res.Finding.ID, "mild, responding to neb", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, model.SeverityUrgent, ov.Severity)
	assert.False(t, ov.AuditFlag)

	_, err = eng.OverrideFinding("no-such-finding", "whatever", "dr-lane")
	assert.ErrorIs(t, err, ErrUnknownFinding)
}

func TestCriticalOverrideReasonLengthBoundary(t *testing.T) {
	eng, _ := newTestEngine(t)
	raised := observe(t, eng, "patency", optVal("obstructed"))
	require.Len(t, raised, 1)
	fid := raised[0].ID

	// Spaces do not count toward the minimum.
	_, err := eng.OverrideFinding(fid, strings.Repeat("a ", criticalReasonMinChars-1), "dr-lane")
	assert.ErrorIs(t, err, ErrReasonRequired)

	ov, err := eng.OverrideFinding(fid, strings.Repeat("a", criticalReasonMinChars), "dr-lane")
	require.NoError(t, err)
	assert.True(t, ov.AuditFlag)
}

func TestOverridePhaseGateOnMissingFields(t *testing.T) {
	eng, _ := newTestEngine(t)

	// Nothing recorded yet: the gate blocks on missing fields alone, so
	// the bypass is urgent and a short reason passes.
	ov, result, err := eng.OverridePhaseGate("en route", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, model.TargetPhaseGate, ov.Target)
	assert.Equal(t, model.PhaseAirway, ov.Phase)
	assert.Equal(t, model.SeverityUrgent, ov.Severity)
	assert.False(t, ov.AuditFlag)
	assert.Len(t, result.Missing, 2)
	assert.Empty(t, result.Unresolved)

	assert.Equal(t, model.PhaseBreathing, eng.State().Assessment.Current)
	rec := eng.State().Assessment.Record(model.PhaseAirway)
	require.NotNil(t, rec.CompletedAt)
}

func TestOverridePhaseGateRefusedWhenClear(t *testing.T) {
	eng, _ := newTestEngine(t)
	observe(t, eng, "responsiveness", optVal("alert"))
	observe(t, eng, "patency", optVal("clear"))

	_, result, err := eng.OverridePhaseGate("not needed", "dr-lane")
	assert.ErrorIs(t, err, ErrGateClear)
	assert.True(t, result.CanAdvance)
}

func TestOverridePhaseGateCoversOneGateOnly(t *testing.T) {
	eng, _ := newTestEngine(t)
	observe(t, eng, "responsiveness", optVal("alert"))
	raised := observe(t, eng, "patency", optVal("obstructed"))
	fid := raised[0].ID

	// With an unresolved blocker the bypass is critical.
	_, _, err := eng.OverridePhaseGate("bagging works", "dr-lane")
	assert.ErrorIs(t, err, ErrReasonRequired)

	ov, result, err := eng.OverridePhaseGate("bag-mask ventilation effective, anesthesia coming to secure airway", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, model.SeverityCritical, ov.Severity)
	assert.True(t, ov.AuditFlag)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, model.PhaseBreathing, eng.State().Assessment.Current)

	// The blocker stays active and closes the next gate too.
	assert.Equal(t, model.FindingActive, eng.State().Finding(fid).Status)
	for field, v := range normalValues(model.PhaseBreathing) {
		observe(t, eng, field, v)
	}
	_, err = eng.Advance()
	assert.ErrorIs(t, err, ErrPhaseBlocked)

	ov2, _, err := eng.OverridePhaseGate("airway pending, breathing assessed complete and stable", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, int64(2), ov2.Seq)
	assert.Equal(t, model.PhaseCirculation, eng.State().Assessment.Current)
}

func TestOverrideLogIsSequencedAndCopied(t *testing.T) {
	eng, _ := newTestEngine(t)
	passTriage(t, eng, "breathing")
	res := answer(t, eng, "breath_sounds", multiVal("wheezing"))

	ov1, _, err := eng.OverridePhaseGate("assessment deferred", "dr-lane")
	require.NoError(t, err)
	ov2, err := eng.OverrideFinding(res.Finding.ID, "mild, responding to neb", "rn-ortiz")
	require.NoError(t, err)

	log := eng.Overrides()
	require.Len(t, log, 2)
	assert.Equal(t, int64(1), log[0].Seq)
	assert.Equal(t, int64(2), log[1].Seq)
	assert.Equal(t, ov1.ID, log[0].ID)
	assert.Equal(t, ov2.ID, log[1].ID)
	assert.False(t, log[0].CreatedAt.IsZero())

	// Overrides returns a copy, not the live log.
	log[0].Reason = "edited"
	assert.Equal(t, "assessment deferred", eng.Overrides()[0].Reason)
}

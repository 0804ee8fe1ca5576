package service

import (
	"context"
	"pedtriage/internal/engine"
	"pedtriage/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAnswerArchivesAndStreams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.create(t)
	id := state.Session.ID

	result, err := f.triage.SubmitAnswer(ctx, id, "breathing_present", boolAns(true), "dr-lane")
	require.NoError(t, err)
	assert.Nil(t, result.Finding)
	require.NotNil(t, result.Next)
	assert.Equal(t, "pulse_present", result.Next.ID)

	result, err = f.triage.SubmitAnswer(ctx, id, "pulse_present", boolAns(false), "dr-lane")
	require.NoError(t, err)
	require.NotNil(t, result.Finding)
	assert.Equal(t, "CARDIAC-ARREST", result.Finding.Code)

	// stale clients answering the wrong question get a typed error
	_, err = f.triage.SubmitAnswer(ctx, id, "breathing_present", boolAns(true), "dr-lane")
	var mismatch *engine.QuestionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "avpu", mismatch.Want)

	types := f.stream.types()
	assert.Contains(t, types, "finding_raised")
	assert.Contains(t, types, "question_presented")

	kinds := f.eventKinds(t, id)
	assert.Equal(t, []model.EventKind{
		model.EventSessionStarted,
		model.EventQuestionAnswered,
		model.EventQuestionAnswered,
		model.EventFindingRaised,
	}, kinds)
}

func TestObservationLifecycleThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.create(t)
	id := state.Session.ID

	result, err := f.triage.RecordObservation(ctx, id, "spo2", numAns(85), "dr-lane")
	require.NoError(t, err)
	require.Len(t, result.Raised, 1)
	assert.Equal(t, "HYPOXIA", result.Raised[0].Code)
	assert.Empty(t, result.Resolved)

	// the repeat measurement passes the check and settles the finding
	result, err = f.triage.RecordObservation(ctx, id, "spo2", numAns(97), "dr-lane")
	require.NoError(t, err)
	assert.Empty(t, result.Raised)
	require.Len(t, result.Resolved, 1)
	assert.Equal(t, "HYPOXIA", result.Resolved[0].Code)
	assert.Equal(t, model.PhaseAirway, result.Validation.Phase)

	types := f.stream.types()
	assert.Contains(t, types, "observation_recorded")
	assert.Contains(t, types, "finding_raised")
	assert.Contains(t, types, "finding_resolved")

	kinds := f.eventKinds(t, id)
	assert.Contains(t, kinds, model.EventFindingRaised)
	assert.Contains(t, kinds, model.EventFindingResolved)
}

func TestAdvancePhaseThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.create(t)
	id := state.Session.ID

	result, err := f.triage.AdvancePhase(ctx, id, "dr-lane")
	assert.ErrorIs(t, err, engine.ErrPhaseBlocked)
	assert.Len(t, result.Missing, 2)

	_, err = f.triage.RecordObservation(ctx, id, "responsiveness", optAns("alert"), "dr-lane")
	require.NoError(t, err)
	_, err = f.triage.RecordObservation(ctx, id, "patency", optAns("clear"), "dr-lane")
	require.NoError(t, err)

	result, err = f.triage.AdvancePhase(ctx, id, "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseAirway, result.Phase)
	assert.True(t, result.CanAdvance)

	view, err := f.triage.Phase(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseBreathing, view.Spec.Phase)
	assert.Len(t, view.Validation.Missing, 3)

	assert.Contains(t, f.stream.types(), "phase_advanced")
	assert.Contains(t, f.eventKinds(t, id), model.EventPhaseAdvanced)
}

func TestOverrideAuditTrailPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.create(t)
	id := state.Session.ID

	// gate override with nothing recorded: urgent, not audit-flagged
	gateOv, result, err := f.triage.OverridePhaseGate(ctx, id, "rapid transport, assessing en route", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, model.SeverityUrgent, gateOv.Severity)
	assert.False(t, gateOv.AuditFlag)
	assert.Len(t, result.Missing, 2)

	// overriding an active critical finding is audit-flagged
	obs, err := f.triage.RecordObservation(ctx, id, "spo2", numAns(82), "dr-lane")
	require.NoError(t, err)
	require.Len(t, obs.Raised, 1)
	findingOv, err := f.triage.OverrideFinding(ctx, id, obs.Raised[0].ID,
		"chronic baseline saturation for this cardiac child", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, model.SeverityCritical, findingOv.Severity)
	assert.True(t, findingOv.AuditFlag)

	log, err := f.triage.Overrides(ctx, id)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, int64(1), log[0].Seq)
	assert.Equal(t, int64(2), log[1].Seq)

	// both land in the audit store, only the critical one is flagged
	stored, err := f.overrides.BySession(ctx, id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, gateOv.ID, stored[0].ID)
	assert.Equal(t, findingOv.ID, stored[1].ID)

	flagged, err := f.triage.FlaggedOverrides(ctx, 10)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, findingOv.ID, flagged[0].ID)

	assert.Contains(t, f.stream.types(), "override_logged")
	kinds := f.eventKinds(t, id)
	assert.Contains(t, kinds, model.EventOverrideLogged)
	assert.Contains(t, kinds, model.EventPhaseAdvanced)
}

func TestDoseComputationAudited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.create(t)
	id := state.Session.ID

	dose, err := f.triage.Dose(ctx, id, "EPI-CA", "", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, 0.1, dose.Amount)
	assert.Equal(t, 10.0, dose.WeightKg)
	assert.Equal(t, 1.0, dose.VolumeML)

	_, err = f.triage.Dose(ctx, id, "VANCO", "", "dr-lane")
	assert.ErrorIs(t, err, engine.ErrUnknownDrug)

	f.drain()
	events, err := f.archive.Events(ctx, id)
	require.NoError(t, err)
	var doses []*model.SessionEvent
	for _, e := range events {
		if e.Kind == model.EventDoseComputed {
			doses = append(doses, e)
		}
	}
	require.Len(t, doses, 1)
	assert.Equal(t, "EPI-CA", doses[0].Detail["drugId"])
}

func TestEscalationFlowThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.create(t)
	id := state.Session.ID

	_, err := f.triage.RecordAttempt(ctx, id, "ghost", false, "", "dr-lane")
	assert.ErrorIs(t, err, engine.ErrUnknownFinding)

	// 10 kg patient: the fluid cap sits at 600 mL
	var st model.BolusState
	for i := 0; i < 3; i++ {
		st, err = f.triage.RecordBolus(ctx, id, 200, "rn-okafor")
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}
	assert.Equal(t, 600.0, st.TotalML)
	assert.True(t, st.Blocked)

	st, err = f.triage.RecordBolus(ctx, id, 100, "rn-okafor")
	assert.ErrorIs(t, err, engine.ErrBolusBlocked)
	assert.True(t, st.Blocked)
	assert.Equal(t, 600.0, st.TotalML)
	assert.Contains(t, f.stream.types(), "bolus_blocked")

	re, err := f.triage.RecordReassessment(ctx, id, "perfusion improving", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, "perfusion improving", re.Note)

	esc, err := f.triage.Escalation(ctx, id)
	require.NoError(t, err)
	assert.False(t, esc.Bolus.Blocked)

	kinds := f.eventKinds(t, id)
	assert.Contains(t, kinds, model.EventBolusRecorded)
	assert.Contains(t, kinds, model.EventBolusBlocked)
	assert.Contains(t, kinds, model.EventReassessmentLogged)
}

func TestAttemptEscalationStreams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.create(t)
	id := state.Session.ID

	_, err := f.triage.SubmitAnswer(ctx, id, "breathing_present", boolAns(true), "dr-lane")
	require.NoError(t, err)
	result, err := f.triage.SubmitAnswer(ctx, id, "pulse_present", boolAns(false), "dr-lane")
	require.NoError(t, err)
	require.NotNil(t, result.Finding)
	fid := result.Finding.ID

	iv, err := f.triage.RecordAttempt(ctx, id, fid, false, "no ROSC after first cycle", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, 1, iv.Failures)
	assert.Equal(t, model.EscalationElevated, iv.Level)
	assert.Contains(t, f.stream.types(), "escalation_raised")

	iv, err = f.triage.RecordAttempt(ctx, id, fid, false, "still no ROSC", "dr-lane")
	require.NoError(t, err)
	assert.Equal(t, model.EscalationEmergency, iv.Level)

	kinds := f.eventKinds(t, id)
	assert.Contains(t, kinds, model.EventAttemptRecorded)
	assert.Contains(t, kinds, model.EventEscalationRaised)
}

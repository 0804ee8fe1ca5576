package engine

import (
	"encoding/json"
	"pedtriage/internal/model"
	"pedtriage/internal/protocol"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPack(t *testing.T) *protocol.Pack {
	t.Helper()
	pack, err := protocol.Default()
	require.NoError(t, err)
	return pack
}

func testPatient() model.PatientContext {
	return model.PatientContext{AgeCategory: model.AgeChild, WeightKg: 10}
}

func newTestEngine(t *testing.T) (*Engine, *ManagedClock) {
	t.Helper()
	return newTestEngineFor(t, testPatient())
}

func newTestEngineFor(t *testing.T, patient model.PatientContext) (*Engine, *ManagedClock) {
	t.Helper()
	clock := NewManagedClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	eng, err := New(testPack(t), model.Session{
		ID:        "sess-1",
		Status:    model.SessionActive,
		Patient:   patient,
		LeadID:    "dr-lane",
		CreatedAt: clock.Now(),
	}, clock)
	require.NoError(t, err)
	return eng, clock
}

func boolVal(b bool) model.AnswerValue    { return model.AnswerValue{Bool: &b} }
func numVal(n float64) model.AnswerValue  { return model.AnswerValue{Number: &n} }
func optVal(o string) model.AnswerValue   { return model.AnswerValue{Option: o} }
func multiVal(o ...string) model.AnswerValue {
	return model.AnswerValue{Options: o}
}

func answer(t *testing.T, e *Engine, qid string, v model.AnswerValue) model.AnswerResult {
	t.Helper()
	res, err := e.SubmitAnswer(qid, v, "dr-lane")
	require.NoError(t, err)
	return res
}

// passTriage answers the critical prefix with reassuring answers and picks
// the given pathway, so tests can start from a clean post-triage state.
func passTriage(t *testing.T, e *Engine, pathway string) {
	t.Helper()
	answer(t, e, "breathing_present", boolVal(true))
	answer(t, e, "pulse_present", boolVal(true))
	answer(t, e, "avpu", optVal("alert"))
	answer(t, e, "main_problem", optVal(pathway))
}

func observe(t *testing.T, e *Engine, field string, v model.AnswerValue) []model.Finding {
	t.Helper()
	raised, err := e.RecordObservation(field, v, "dr-lane")
	require.NoError(t, err)
	return raised
}

// normalValues returns passing observations for every field of phase p.
func normalValues(p model.Phase) map[string]model.AnswerValue {
	switch p {
	case model.PhaseAirway:
		return map[string]model.AnswerValue{
			"responsiveness": optVal("alert"),
			"patency":        optVal("clear"),
		}
	case model.PhaseBreathing:
		return map[string]model.AnswerValue{
			"adequate":  boolVal(true),
			"resp_rate": numVal(25),
			"spo2":      numVal(98),
		}
	case model.PhaseCirculation:
		return map[string]model.AnswerValue{
			"pulse_present": boolVal(true),
			"heart_rate":    numVal(110),
			"systolic_bp":   numVal(95),
			"cap_refill":    numVal(1.5),
		}
	case model.PhaseDisability:
		return map[string]model.AnswerValue{
			"avpu":             optVal("alert"),
			"pupils":           optVal("equal_reactive"),
			"glucose":          numVal(90),
			"seizure_activity": boolVal(false),
		}
	case model.PhaseExposure:
		return map[string]model.AnswerValue{
			"temperature": numVal(37),
			"rash":        optVal("none"),
		}
	}
	return nil
}

// completePhase records passing values for the current phase and advances.
func completePhase(t *testing.T, e *Engine) {
	t.Helper()
	for field, v := range normalValues(e.State().Assessment.Current) {
		observe(t, e, field, v)
	}
	_, err := e.Advance()
	require.NoError(t, err)
}

// advanceTo completes phases until the assessment stands at target.
func advanceTo(t *testing.T, e *Engine, target model.Phase) {
	t.Helper()
	for e.State().Assessment.Current != target {
		completePhase(t, e)
	}
}

func TestNewRequiresValidPatient(t *testing.T) {
	pack := testPack(t)
	clock := NewManagedClock(time.Now())

	_, err := New(pack, model.Session{Patient: model.PatientContext{AgeCategory: model.AgeChild}}, clock)
	assert.ErrorIs(t, err, ErrInvalidPatient)

	_, err = New(pack, model.Session{Patient: model.PatientContext{AgeCategory: "toddler", WeightKg: 12}}, clock)
	assert.ErrorIs(t, err, ErrInvalidPatient)
}

func TestNewStartsAtCriticalCheckAndAirway(t *testing.T) {
	eng, clock := newTestEngine(t)

	st := eng.State()
	assert.Equal(t, model.StageCriticalCheck, st.Stage)
	assert.Equal(t, model.PhaseAirway, st.Assessment.Current)

	rec := st.Assessment.Record(model.PhaseAirway)
	require.NotNil(t, rec)
	require.NotNil(t, rec.EnteredAt)
	assert.Equal(t, clock.Now(), *rec.EnteredAt)
}

func TestCloseBlocksMutationsButNotReads(t *testing.T) {
	eng, clock := newTestEngine(t)
	eng.Close()

	closedAt := eng.State().Session.ClosedAt
	require.NotNil(t, closedAt)

	// A second close keeps the original timestamp.
	clock.Advance(time.Minute)
	eng.Close()
	assert.Equal(t, *closedAt, *eng.State().Session.ClosedAt)

	_, err := eng.SubmitAnswer("breathing_present", boolVal(true), "dr-lane")
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = eng.RecordObservation("spo2", numVal(95), "dr-lane")
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = eng.RecordBolus(100, "dr-lane")
	assert.ErrorIs(t, err, ErrSessionClosed)
	err = eng.UpdatePatient(testPatient(), "typo", "dr-lane")
	assert.ErrorIs(t, err, ErrSessionClosed)

	assert.NotNil(t, eng.CurrentQuestion())
	assert.NotEmpty(t, eng.Differentials().Scores)
}

func TestUpdatePatientLogsEdit(t *testing.T) {
	eng, _ := newTestEngine(t)

	after := model.PatientContext{AgeCategory: model.AgeChild, WeightKg: 12}
	err := eng.UpdatePatient(after, "  scale weight available ", "dr-lane")
	require.NoError(t, err)

	st := eng.State()
	assert.Equal(t, 12.0, st.Session.Patient.WeightKg)
	require.Len(t, st.Session.Edits, 1)
	edit := st.Session.Edits[0]
	assert.Equal(t, 10.0, edit.Before.WeightKg)
	assert.Equal(t, 12.0, edit.After.WeightKg)
	assert.Equal(t, "scale weight available", edit.Reason)

	// Later doses use the corrected weight.
	dose, err := eng.Dose("EPI-CA", "")
	require.NoError(t, err)
	assert.Equal(t, 0.12, dose.Amount)
}

func TestUpdatePatientRejectsBadInput(t *testing.T) {
	eng, _ := newTestEngine(t)

	err := eng.UpdatePatient(testPatient(), "   ", "dr-lane")
	assert.ErrorIs(t, err, ErrReasonRequired)

	err = eng.UpdatePatient(model.PatientContext{AgeCategory: model.AgeChild}, "weight wrong", "dr-lane")
	assert.ErrorIs(t, err, ErrInvalidPatient)

	assert.Empty(t, eng.State().Session.Edits)
}

func TestRestoreResumesWhereStateStopped(t *testing.T) {
	eng, clock := newTestEngine(t)
	passTriage(t, eng, "shock")
	answer(t, eng, "cap_refill", numVal(4))
	observe(t, eng, "responsiveness", optVal("alert"))

	// Round-trip through JSON the way the state cache stores it.
	data, err := json.Marshal(eng.State())
	require.NoError(t, err)
	var state model.SessionState
	require.NoError(t, json.Unmarshal(data, &state))

	restored := Restore(testPack(t), &state, clock)

	q := restored.CurrentQuestion()
	require.NotNil(t, q)
	assert.Equal(t, "skin_signs", q.ID)
	assert.Equal(t, model.PathwayShock, restored.State().Session.Pathway)

	// The raised SHOCK finding still gates and the recorded observation
	// still counts toward the airway phase.
	validation := restored.Validate()
	assert.Len(t, validation.Unresolved, 1)
	assert.Len(t, validation.Missing, 1)
	assert.Equal(t, restored.BolusState(), eng.BolusState())
}

package service

import (
	"context"
	"pedtriage/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func archiveState(id string) *model.SessionState {
	return &model.SessionState{Session: model.Session{ID: id, Status: model.SessionActive}}
}

func TestArchiveAssignsSequenceAndPersists(t *testing.T) {
	repo := newFakeEncounterRepo()
	svc := NewArchiveService(repo, zap.NewNop())

	state := archiveState("sess-a")
	svc.Record(state, model.EventSessionStarted, map[string]any{"leadId": "dr-lane"})
	svc.Record(state, model.EventQuestionAnswered, nil)
	svc.Record(archiveState("sess-b"), model.EventSessionStarted, nil)
	svc.Close()

	events, err := repo.EventsBySession(context.Background(), "sess-a")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, model.EventSessionStarted, events[0].Kind)
	assert.Equal(t, "dr-lane", events[0].Detail["leadId"])
	assert.Equal(t, int64(2), events[1].Seq)

	// sessions number their logs independently
	other, err := repo.EventsBySession(context.Background(), "sess-b")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, int64(1), other[0].Seq)
}

func TestArchiveSeqReseedsFromStore(t *testing.T) {
	repo := newFakeEncounterRepo()

	first := NewArchiveService(repo, zap.NewNop())
	state := archiveState("sess-c")
	first.Record(state, model.EventSessionStarted, nil)
	first.Record(state, model.EventQuestionAnswered, nil)
	first.Close()

	// a fresh worker continues the sequence instead of restarting it
	second := NewArchiveService(repo, zap.NewNop())
	second.Record(state, model.EventSessionClosed, nil)
	second.Close()

	events, err := repo.EventsBySession(context.Background(), "sess-c")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, int64(3), events[2].Seq)
	assert.Equal(t, model.EventSessionClosed, events[2].Kind)
}

func TestArchiveRetriesTransientWriteFailures(t *testing.T) {
	repo := newFakeEncounterRepo()
	repo.failAppend = 2
	svc := NewArchiveService(repo, zap.NewNop())

	svc.Record(archiveState("sess-d"), model.EventSessionStarted, nil)
	svc.Close()

	events, err := repo.EventsBySession(context.Background(), "sess-d")
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestArchiveDropsEventAfterRetriesExhausted(t *testing.T) {
	repo := newFakeEncounterRepo()
	repo.failAppend = 3
	svc := NewArchiveService(repo, zap.NewNop())

	svc.Record(archiveState("sess-e"), model.EventSessionStarted, nil)
	svc.Close()

	events, err := repo.EventsBySession(context.Background(), "sess-e")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestArchiveSnapshotIsDetachedFromLiveState(t *testing.T) {
	repo := newFakeEncounterRepo()
	svc := NewArchiveService(repo, zap.NewNop())

	state := archiveState("sess-f")
	state.Assessment.Records = []model.PhaseRecord{{Phase: model.PhaseAirway}}
	svc.Record(state, model.EventSessionStarted, nil)

	// the engine keeps mutating after the event is queued
	state.Assessment.Records[0].Phase = model.PhaseBreathing
	svc.Close()

	events, err := repo.EventsBySession(context.Background(), "sess-f")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[0].Assessment.Records, 1)
	assert.Equal(t, model.PhaseAirway, events[0].Assessment.Records[0].Phase)
}

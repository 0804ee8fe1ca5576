package ws

import (
	"encoding/json"
	"pedtriage/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(zap.NewNop())
	t.Cleanup(h.Close)
	return h
}

func testConn(sessionID, clinicianID string, role model.Role) *Connection {
	return &Connection{
		SessionID:   sessionID,
		ClinicianID: clinicianID,
		Role:        role,
		Send:        make(chan []byte, 16),
	}
}

func recv(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "send channel closed while waiting for a message")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return Message{}
	}
}

// requireClosed drains any pending messages and then expects the send
// channel to be closed by the hub.
func requireClosed(t *testing.T, conn *Connection) {
	t.Helper()
	for {
		select {
		case _, ok := <-conn.Send:
			if !ok {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatal("send channel was not closed")
		}
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	h := newTestHub(t)
	lead := testConn("sess-1", "dr-lane", model.RoleLead)
	obs := testConn("sess-1", "obs-1", model.RoleObserver)
	other := testConn("sess-2", "dr-okafor", model.RoleLead)
	h.Register(lead)
	h.Register(obs)
	h.Register(other)

	h.BroadcastToSession("sess-1", "finding_raised", map[string]any{"code": "HYPOXIA"})

	// the lead first hears the observer join, then the clinical event
	msg := recv(t, lead)
	assert.Equal(t, MsgClinicianJoined, msg.Type)
	assert.Contains(t, string(msg.Payload), "obs-1")

	msg = recv(t, lead)
	assert.Equal(t, MsgFindingRaised, msg.Type)
	assert.Contains(t, string(msg.Payload), "HYPOXIA")

	msg = recv(t, obs)
	assert.Equal(t, MsgFindingRaised, msg.Type)

	// the other session hears nothing
	assert.Zero(t, len(other.Send))
}

func TestHubBroadcastToClinician(t *testing.T) {
	h := newTestHub(t)
	lead := testConn("sess-1", "dr-lane", model.RoleLead)
	obs := testConn("sess-1", "obs-1", model.RoleObserver)
	h.Register(lead)
	h.Register(obs)
	recv(t, lead) // observer joined

	h.BroadcastToClinician("sess-1", "dr-lane", "question_presented", map[string]any{"id": "avpu"})

	msg := recv(t, lead)
	assert.Equal(t, MsgQuestionPresented, msg.Type)
	assert.Zero(t, len(obs.Send))
}

func TestHubReconnectReplacesStaleConnection(t *testing.T) {
	h := newTestHub(t)
	first := testConn("sess-1", "dr-lane", model.RoleLead)
	h.Register(first)

	// same clinician on a fresh socket: the stale connection is dropped
	second := testConn("sess-1", "dr-lane", model.RoleLead)
	h.Register(second)
	requireClosed(t, first)

	// the stale socket's deferred unregister must not evict the new one
	h.Unregister(first)

	h.BroadcastToSession("sess-1", "phase_advanced", nil)
	msg := recv(t, second)
	assert.Equal(t, MsgPhaseAdvanced, msg.Type)
}

func TestHubUnregisterNotifiesPresence(t *testing.T) {
	h := newTestHub(t)
	lead := testConn("sess-1", "dr-lane", model.RoleLead)
	obs := testConn("sess-1", "obs-1", model.RoleObserver)
	h.Register(lead)
	h.Register(obs)

	h.Unregister(obs)
	requireClosed(t, obs)

	msg := recv(t, lead)
	assert.Equal(t, MsgClinicianJoined, msg.Type)
	msg = recv(t, lead)
	assert.Equal(t, MsgClinicianLeft, msg.Type)
	assert.Contains(t, string(msg.Payload), "obs-1")
}

func TestHubDisconnectSessionClosesAll(t *testing.T) {
	h := newTestHub(t)
	lead := testConn("sess-1", "dr-lane", model.RoleLead)
	obs := testConn("sess-1", "obs-1", model.RoleObserver)
	other := testConn("sess-2", "dr-okafor", model.RoleLead)
	h.Register(lead)
	h.Register(obs)
	h.Register(other)

	h.DisconnectSession("sess-1")
	requireClosed(t, lead)
	requireClosed(t, obs)

	// the other session stays live
	h.BroadcastToSession("sess-2", "finding_resolved", nil)
	msg := recv(t, other)
	assert.Equal(t, MsgFindingResolved, msg.Type)
}

func TestHubSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	h := newTestHub(t)
	slow := &Connection{
		SessionID:   "sess-1",
		ClinicianID: "obs-slow",
		Role:        model.RoleObserver,
		Send:        make(chan []byte, 1),
	}
	fast := testConn("sess-1", "dr-lane", model.RoleLead)
	h.Register(slow)
	h.Register(fast) // fills slow's single-slot buffer with the join notice

	h.BroadcastToSession("sess-1", "observation_recorded", nil)
	h.BroadcastToSession("sess-1", "observation_recorded", nil)

	// the fast consumer gets everything, proving the loop never stalled
	assert.Equal(t, MsgObservationRecorded, recv(t, fast).Type)
	assert.Equal(t, MsgObservationRecorded, recv(t, fast).Type)

	// the slow one only ever held the presence notice
	assert.Equal(t, MsgClinicianJoined, recv(t, slow).Type)
	assert.Zero(t, len(slow.Send))
}

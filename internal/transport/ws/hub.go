package ws

import (
	"encoding/json"
	"pedtriage/internal/model"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Clinical event types pushed to every connection in a session
const (
	MsgQuestionPresented   MessageType = "question_presented"
	MsgFindingRaised       MessageType = "finding_raised"
	MsgFindingResolved     MessageType = "finding_resolved"
	MsgObservationRecorded MessageType = "observation_recorded"
	MsgPhaseAdvanced       MessageType = "phase_advanced"
	MsgOverrideLogged      MessageType = "override_logged"
	MsgEscalationRaised    MessageType = "escalation_raised"
	MsgBolusBlocked        MessageType = "bolus_blocked"
	MsgPatientUpdated      MessageType = "patient_updated"
	MsgSessionClosed       MessageType = "session_closed"
)

// Presence types
const (
	MsgClinicianJoined MessageType = "clinician_joined"
	MsgClinicianLeft   MessageType = "clinician_left"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for sessions
type Hub struct {
	// Session -> clinician -> connection
	conns map[string]map[string]*Connection

	mu sync.RWMutex

	logger *zap.Logger

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string

	done     chan struct{}
	stopOnce sync.Once
}

// Connection represents one clinician's WebSocket connection
type Connection struct {
	SessionID   string
	ClinicianID string
	Role        model.Role
	Send        chan []byte
	Hub         *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID   string
	ClinicianID string // Empty means everyone in the session
	Message     *Message
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		logger:     logger,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[string]*Connection)
			}
			if old, ok := h.conns[conn.SessionID][conn.ClinicianID]; ok && old != conn {
				// same clinician reconnected, drop the stale connection
				close(old.Send)
			}
			h.conns[conn.SessionID][conn.ClinicianID] = conn
			h.logger.Info("clinician connected",
				zap.String("sessionId", conn.SessionID),
				zap.String("clinicianId", conn.ClinicianID),
				zap.String("role", string(conn.Role)))

			h.notifyPresence(conn, MsgClinicianJoined)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if clinicians, ok := h.conns[conn.SessionID]; ok {
				if existing, ok := clinicians[conn.ClinicianID]; ok && existing == conn {
					delete(clinicians, conn.ClinicianID)
					close(conn.Send)
					h.logger.Info("clinician disconnected",
						zap.String("sessionId", conn.SessionID),
						zap.String("clinicianId", conn.ClinicianID))

					h.notifyPresence(conn, MsgClinicianLeft)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if clinicians, ok := h.conns[msg.SessionID]; ok {
				if msg.ClinicianID != "" {
					if conn, ok := clinicians[msg.ClinicianID]; ok {
						select {
						case conn.Send <- data:
						default:
							// Drop message if buffer full
						}
					}
				} else {
					for _, conn := range clinicians {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			}
			h.mu.RUnlock()

		case sessionID := <-h.disconnect:
			h.mu.Lock()
			if clinicians, ok := h.conns[sessionID]; ok {
				for _, conn := range clinicians {
					close(conn.Send)
				}
				delete(h.conns, sessionID)
				h.logger.Info("session stream closed", zap.String("sessionId", sessionID))
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Close stops the hub loop. Connections already handed to pumps shut down
// through their own read/write errors.
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.done) })
}

// BroadcastToSession sends a message to everyone in a session (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToClinician sends a message to a single clinician (implements service.Broadcaster)
func (h *Hub) BroadcastToClinician(sessionID, clinicianID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID:   sessionID,
		ClinicianID: clinicianID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession closes every connection of a session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.disconnect <- sessionID
}

// notifyPresence tells the rest of the session who joined or left. Caller
// holds the hub lock.
func (h *Hub) notifyPresence(conn *Connection, kind MessageType) {
	data, _ := json.Marshal(&Message{
		Type: kind,
		Payload: json.RawMessage(`{"clinicianId":"` + conn.ClinicianID +
			`","role":"` + string(conn.Role) + `"}`),
	})
	for id, c := range h.conns[conn.SessionID] {
		if id == conn.ClinicianID {
			continue
		}
		select {
		case c.Send <- data:
		default:
		}
	}
}

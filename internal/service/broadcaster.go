package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	BroadcastToClinician(sessionID, clinicianID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

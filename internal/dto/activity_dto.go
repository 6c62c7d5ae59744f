package dto

import "github.com/google/uuid"

// SessionActivityMessage is the payload published on the in-process bus for
// every session mutation. The audit consumer logs these.
type SessionActivityMessage struct {
	SessionId uuid.UUID `json:"session_id"`
	UserId    uuid.UUID `json:"user_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
}

const (
	ActivitySessionCreated = "SESSION_CREATED"
	ActivitySessionDeleted = "SESSION_DELETED"
	ActivityDocumentAdded  = "DOCUMENT_ADDED"
	ActivityMessageSent    = "MESSAGE_SENT"
	ActivityArtifactBuilt  = "ARTIFACT_BUILT"
)

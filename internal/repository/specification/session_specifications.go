package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionID filters documents and messages by their owning session
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// BySessionIDs filters by a list of owning sessions
type BySessionIDs struct {
	SessionIDs []uuid.UUID
}

func (s BySessionIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id IN ?", s.SessionIDs)
}

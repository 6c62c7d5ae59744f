package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Message struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_messages_session_seq,priority:1"`
	Role      string    `gorm:"type:varchar(50);not null"`
	Type      string    `gorm:"type:varchar(50);not null"`
	Content   string    `gorm:"type:text;not null"`
	Meta      datatypes.JSON
	// Seq is the authoritative per-session ordering key. CreatedAt is kept as
	// metadata only; wall-clock timestamps can collide under concurrent writes.
	Seq       int64     `gorm:"not null;uniqueIndex:idx_messages_session_seq,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Session Session `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

func (Message) TableName() string {
	return "messages"
}

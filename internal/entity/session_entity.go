package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Document struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Filename  string
	Content   string
}

type Message struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Type      string
	Content   string
	// Meta carries optional action parameters (difficulty, question count,
	// report type) as raw JSON. Nil for plain chat turns.
	Meta      []byte
	Seq       int64
	CreatedAt time.Time
}

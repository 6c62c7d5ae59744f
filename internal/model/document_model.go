package model

import (
	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename  string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text;not null"`

	Session Session `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

func (Document) TableName() string {
	return "documents"
}

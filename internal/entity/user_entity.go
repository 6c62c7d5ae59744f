package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserProviderLocal = "local"
)

type User struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Provider     string
	CreatedAt    time.Time
}

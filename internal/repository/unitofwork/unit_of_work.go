package unitofwork

import (
	"context"

	"edumentor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	DocumentRepository() contract.DocumentRepository
	MessageRepository() contract.MessageRepository
}

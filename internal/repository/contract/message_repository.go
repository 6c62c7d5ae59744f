package contract

import (
	"context"

	"edumentor-be/internal/entity"
	"edumentor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	// Create assigns the entity's Seq from the session's current maximum.
	// Callers writing more than one row must hold an open transaction so the
	// (session_id, seq) unique index serializes concurrent appends.
	Create(ctx context.Context, message *entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	NextSeq(ctx context.Context, sessionId uuid.UUID) (int64, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

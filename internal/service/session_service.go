package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"edumentor-be/internal/constant"
	"edumentor-be/internal/dto"
	"edumentor-be/internal/entity"
	"edumentor-be/internal/pkg/apperror"
	"edumentor-be/internal/repository/specification"
	"edumentor-be/internal/repository/unitofwork"
	"edumentor-be/pkg/events"
	"edumentor-be/pkg/extract"
	pktNats "edumentor-be/pkg/nats"

	"github.com/google/uuid"
)

type ISessionService interface {
	List(ctx context.Context, userId uuid.UUID, limit, offset int) ([]dto.SessionSummaryResponse, error)
	Create(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	Get(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionDetailResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	Upload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, upload *dto.UploadInput) (*dto.UploadResponse, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

// findOwnedSession resolves a session scoped to its owner. Foreign and
// unknown ids are indistinguishable to the caller.
func findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("Session not found")
	}
	return session, nil
}

func messageDTOs(messages []*entity.Message) []dto.MessageDTO {
	out := make([]dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.MessageDTO{
			Id:        m.Id,
			Role:      m.Role,
			Type:      m.Type,
			Content:   m.Content,
			Meta:      json.RawMessage(m.Meta),
			Seq:       m.Seq,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

func documentDTOs(documents []*entity.Document) []dto.DocumentDTO {
	out := make([]dto.DocumentDTO, 0, len(documents))
	for _, d := range documents {
		out = append(out, dto.DocumentDTO{
			Id:       d.Id,
			Filename: d.Filename,
			Content:  d.Content,
		})
	}
	return out
}

// sessionDetail loads the full conversation state for one session.
func sessionDetail(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session) (*dto.SessionDetailResponse, error) {
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "seq"},
	)
	if err != nil {
		return nil, err
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
	)
	if err != nil {
		return nil, err
	}

	return &dto.SessionDetailResponse{
		Id:        session.Id,
		Name:      session.Name,
		CreatedAt: session.CreatedAt,
		Messages:  messageDTOs(messages),
		Documents: documentDTOs(documents),
	}, nil
}

func (s *sessionService) List(ctx context.Context, userId uuid.UUID, limit, offset int) ([]dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if limit > 0 {
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}

	sessions, err := uow.SessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionSummaryResponse, 0, len(sessions))
	if len(sessions) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.Id)
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.BySessionIDs{SessionIDs: ids},
		specification.OrderBy{Field: "seq"},
	)
	if err != nil {
		return nil, err
	}

	bySession := make(map[uuid.UUID][]*entity.Message, len(sessions))
	for _, m := range messages {
		bySession[m.SessionId] = append(bySession[m.SessionId], m)
	}

	for _, session := range sessions {
		out = append(out, dto.SessionSummaryResponse{
			Id:        session.Id,
			Name:      session.Name,
			CreatedAt: session.CreatedAt,
			Messages:  messageDTOs(bySession[session.Id]),
		})
	}

	return out, nil
}

func (s *sessionService) Create(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      constant.DefaultSessionName,
		CreatedAt: time.Now(),
	}

	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, session.Id, userId, dto.ActivitySessionCreated, "")

	return &dto.CreateSessionResponse{SessionId: session.Id}, nil
}

func (s *sessionService) Get(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	return sessionDetail(ctx, uow, session)
}

func (s *sessionService) Delete(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	// Documents and messages go with the session via FK cascade.
	if err := uow.SessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}

	s.publishActivity(ctx, session.Id, userId, dto.ActivitySessionDeleted, session.Name)

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "SESSION_DELETED",
			Data: map[string]interface{}{
				"session_id": session.Id,
				"user_id":    userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_DELETED event: %v\n", err)
		}
	}

	return nil
}

func (s *sessionService) Upload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, upload *dto.UploadInput) (*dto.UploadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	if upload.Filename != "" {
		content, err := extract.Text(upload.Filename, upload.Data)
		if err != nil || content == "" {
			return nil, apperror.Validation("Could not extract text from file")
		}

		document := &entity.Document{
			Id:        uuid.New(),
			SessionId: session.Id,
			Filename:  upload.Filename,
			Content:   content,
		}
		notice := &entity.Message{
			Id:        uuid.New(),
			SessionId: session.Id,
			Role:      constant.MessageRoleAssistant,
			Type:      constant.MessageTypeUpload,
			Content:   fmt.Sprintf("📄 Document '%s' uploaded successfully.", upload.Filename),
			CreatedAt: time.Now(),
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		if err := uow.DocumentRepository().Create(ctx, document); err != nil {
			return nil, err
		}
		if err := uow.MessageRepository().Create(ctx, notice); err != nil {
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

		s.publishActivity(ctx, session.Id, userId, dto.ActivityDocumentAdded, upload.Filename)

		return &dto.UploadResponse{
			Message:  "File uploaded successfully",
			Filename: upload.Filename,
		}, nil
	}

	if text := strings.TrimSpace(upload.Text); text != "" {
		message := &entity.Message{
			Id:        uuid.New(),
			SessionId: session.Id,
			Role:      constant.MessageRoleUser,
			Type:      constant.MessageTypeText,
			Content:   text,
			CreatedAt: time.Now(),
		}
		if err := uow.MessageRepository().Create(ctx, message); err != nil {
			return nil, err
		}

		return &dto.UploadResponse{
			Message: "Text message received",
			Text:    text,
		}, nil
	}

	return nil, apperror.Validation("No file or text provided.")
}

func (s *sessionService) publishActivity(ctx context.Context, sessionId, userId uuid.UUID, kind, detail string) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.SessionActivityMessage{
		SessionId: sessionId,
		UserId:    userId,
		Kind:      kind,
		Detail:    detail,
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		fmt.Printf("[WARN] Failed to publish %s activity: %v\n", kind, err)
	}
}

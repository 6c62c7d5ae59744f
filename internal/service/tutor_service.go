package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"edumentor-be/internal/constant"
	"edumentor-be/internal/dto"
	"edumentor-be/internal/entity"
	"edumentor-be/internal/pkg/apperror"
	"edumentor-be/internal/repository/specification"
	"edumentor-be/internal/repository/unitofwork"
	"edumentor-be/pkg/llm"
	"edumentor-be/pkg/prompt"

	"github.com/google/uuid"
)

type ITutorService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatResponse, error)
	Generate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, action string, req *dto.GenerateRequest) (*dto.ChatResponse, error)
	Transcribe(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, audio []byte, filename string, lang string) (*dto.TranscribeResponse, error)
}

type tutorService struct {
	uowFactory       unitofwork.RepositoryFactory
	llmProvider      llm.Provider
	publisherService IPublisherService
}

func NewTutorService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.Provider,
	publisherService IPublisherService,
) ITutorService {
	return &tutorService{
		uowFactory:       uowFactory,
		llmProvider:      llmProvider,
		publisherService: publisherService,
	}
}

// loadTranscript fetches the conversation inputs for the model call.
func (s *tutorService) loadTranscript(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]*entity.Document, []*entity.Message, error) {
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
	)
	if err != nil {
		return nil, nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "seq"},
	)
	if err != nil {
		return nil, nil, err
	}

	return documents, messages, nil
}

func derefEntities[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// generateTitle names an untitled session from its first content. Falls back
// to a clipped seed when the model call fails.
func (s *tutorService) generateTitle(ctx context.Context, seed string) string {
	reply, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.MessageRoleSystem, Content: prompt.TitleInstruction},
		{Role: constant.MessageRoleUser, Content: seed},
	})
	if err == nil {
		if title := prompt.CleanTitle(reply); title != "" {
			return title
		}
	}
	return prompt.FallbackTitle(seed)
}

// persistExchange writes the user turn, the assistant reply, and an optional
// session rename atomically so the seq numbers land adjacent and the title
// never outlives a failed exchange.
func (s *tutorService) persistExchange(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, newName string, userTurn, assistantTurn *entity.Message) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if newName != "" {
		if err := uow.SessionRepository().Rename(ctx, session.Id, newName); err != nil {
			return err
		}
	}
	if err := uow.MessageRepository().Create(ctx, userTurn); err != nil {
		return err
	}
	if err := uow.MessageRepository().Create(ctx, assistantTurn); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if newName != "" {
		session.Name = newName
	}
	return nil
}

func (s *tutorService) SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	text := req.Text
	lang := req.Lang
	if lang == "" {
		lang = prompt.DetectLanguage(text)
	}

	documents, history, err := s.loadTranscript(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	transcript := prompt.BuildContext(derefEntities(documents), derefEntities(history))
	transcript = prompt.SpliceLanguage(transcript, prompt.ChatLanguageDirective(lang))
	transcript = append(transcript, llm.Message{Role: constant.MessageRoleUser, Content: text})

	reply, err := s.llmProvider.Chat(ctx, transcript)
	if err != nil {
		return nil, apperror.Dependency("OpenAI error", err)
	}

	// the rename rides the exchange transaction; an untitled session stays
	// untitled when nothing gets persisted
	newName := ""
	if session.Name == constant.DefaultSessionName && strings.TrimSpace(text) != "" {
		newName = s.generateTitle(ctx, text)
	}

	now := time.Now()
	userTurn := &entity.Message{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      constant.MessageRoleUser,
		Type:      constant.MessageTypeChat,
		Content:   text,
		CreatedAt: now,
	}
	assistantTurn := &entity.Message{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      constant.MessageRoleAssistant,
		Type:      constant.MessageTypeChat,
		Content:   reply,
		CreatedAt: now,
	}

	if err := s.persistExchange(ctx, uow, session, newName, userTurn, assistantTurn); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, session.Id, userId, dto.ActivityMessageSent, constant.MessageTypeChat)

	detail, err := sessionDetail(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{Reply: reply, Session: detail}, nil
}

func (s *tutorService) Generate(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, rawAction string, req *dto.GenerateRequest) (*dto.ChatResponse, error) {
	action, ok := prompt.ParseAction(rawAction)
	if !ok {
		return nil, apperror.Validation("Invalid action")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	documents, history, err := s.loadTranscript(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	docParts := make([]string, 0, len(documents))
	for _, d := range documents {
		docParts = append(docParts, d.Content)
	}
	docsText := strings.Join(docParts, "\n\n")

	params := prompt.ActionParams{
		Difficulty:   req.Difficulty,
		NumQuestions: req.NumQuestions,
		TextGrammar:  req.TextGrammar,
		ReportType:   req.ReportType,
	}

	if action == prompt.ActionGrammar {
		if strings.TrimSpace(req.TextGrammar) == "" {
			return nil, apperror.Validation("No text provided for grammar check")
		}
	} else if docsText == "" && req.Text == "" {
		return nil, apperror.Validation("No documents or additional text provided for this action")
	}

	lang := req.Lang
	if lang == "" {
		lang = constant.LanguageEnglish
	}

	combined := action.CombinedPrompt(params, req.Text, docsText)

	transcript := prompt.BuildContext(derefEntities(documents), derefEntities(history))
	transcript = prompt.SpliceLanguage(transcript, prompt.GenerateLanguageDirective(lang))
	transcript = append(transcript, llm.Message{Role: constant.MessageRoleUser, Content: combined})

	reply, err := s.llmProvider.Chat(ctx, transcript)
	if err != nil {
		return nil, apperror.Dependency("OpenAI error", err)
	}

	if action == prompt.ActionQuiz {
		reply = prompt.NormalizeQuizReply(reply, params.QuestionCount())
	}

	newName := ""
	if session.Name == constant.DefaultSessionName {
		seed := req.Text
		if seed == "" {
			seed = string(action)
		}
		newName = s.generateTitle(ctx, seed)
	}

	userContent := req.Text
	if userContent == "" {
		userContent = action.Capitalized()
	}

	meta, err := actionMeta(action, params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userTurn := &entity.Message{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      constant.MessageRoleUser,
		Type:      action.MessageType(),
		Content:   userContent,
		Meta:      meta,
		CreatedAt: now,
	}
	assistantTurn := &entity.Message{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      constant.MessageRoleAssistant,
		Type:      action.MessageType(),
		Content:   reply,
		Meta:      meta,
		CreatedAt: now,
	}

	if err := s.persistExchange(ctx, uow, session, newName, userTurn, assistantTurn); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, session.Id, userId, dto.ActivityArtifactBuilt, string(action))

	detail, err := sessionDetail(ctx, uow, session)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{Reply: reply, Session: detail}, nil
}

func (s *tutorService) Transcribe(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, audio []byte, filename string, lang string) (*dto.TranscribeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	if lang == "" {
		lang = constant.LanguageEnglish
	}

	text, err := s.llmProvider.Transcribe(ctx, audio, filename, lang)
	if err != nil {
		return nil, apperror.Dependency("Transcription failed", err)
	}

	// Transcriptions are returned to the caller, never persisted.
	return &dto.TranscribeResponse{Transcription: text}, nil
}

// actionMeta serializes the tuning parameters stored alongside generated
// turns. Plain parameters only, nil when nothing was supplied.
func actionMeta(action prompt.Action, params prompt.ActionParams) ([]byte, error) {
	meta := map[string]interface{}{}
	switch action {
	case prompt.ActionQuiz:
		meta["difficulty"] = params.Difficulty
		if meta["difficulty"] == "" {
			meta["difficulty"] = "medium"
		}
		meta["num_questions"] = params.QuestionCount()
	case prompt.ActionReport:
		if params.ReportType != "" {
			meta["report_type"] = params.ReportType
		}
	}
	if len(meta) == 0 {
		return nil, nil
	}
	return json.Marshal(meta)
}

func (s *tutorService) publishActivity(ctx context.Context, sessionId, userId uuid.UUID, kind, detail string) {
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
	_ = s.publisherService.Publish(ctx, payload)
}

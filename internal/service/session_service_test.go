package service

import (
	"context"
	"testing"
	"time"

	"edumentor-be/internal/constant"
	"edumentor-be/internal/dto"
	"edumentor-be/internal/entity"
	"edumentor-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateAndList(t *testing.T) {
	store := newMemStore()
	userId := uuid.New()
	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	created, err := svc.Create(context.Background(), userId)
	require.NoError(t, err)

	list, err := svc.List(context.Background(), userId, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.SessionId, list[0].Id)
	assert.Equal(t, constant.DefaultSessionName, list[0].Name)
	assert.Empty(t, list[0].Messages)
}

func TestSessionListNewestFirst(t *testing.T) {
	store := newMemStore()
	userId := uuid.New()

	older := &entity.Session{Id: uuid.New(), UserId: userId, Name: "older", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &entity.Session{Id: uuid.New(), UserId: userId, Name: "newer", CreatedAt: time.Now()}
	store.sessions[older.Id] = older
	store.sessions[newer.Id] = newer

	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	list, err := svc.List(context.Background(), userId, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Name)
	assert.Equal(t, "older", list[1].Name)
}

func TestSessionListPaginates(t *testing.T) {
	store := newMemStore()
	userId := uuid.New()

	for i, name := range []string{"third", "second", "first"} {
		s := &entity.Session{
			Id:        uuid.New(),
			UserId:    userId,
			Name:      name,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		}
		store.sessions[s.Id] = s
	}

	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	page, err := svc.List(context.Background(), userId, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Name)

	past, err := svc.List(context.Background(), userId, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestSessionGetScopedToOwner(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: owner, Name: "mine", CreatedAt: time.Now()}
	store.sessions[session.Id] = session

	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	detail, err := svc.Get(context.Background(), owner, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "mine", detail.Name)

	_, err = svc.Get(context.Background(), uuid.New(), session.Id)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestSessionDeleteCascades(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: owner, Name: "doomed", CreatedAt: time.Now()}
	store.sessions[session.Id] = session

	doc := &entity.Document{Id: uuid.New(), SessionId: session.Id, Filename: "a.txt", Content: "x"}
	store.documents[doc.Id] = doc
	msg := &entity.Message{Id: uuid.New(), SessionId: session.Id, Role: constant.MessageRoleUser, Type: constant.MessageTypeChat, Content: "x", Seq: 1}
	store.messages[msg.Id] = msg

	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), owner, session.Id))
	assert.Empty(t, store.sessions)
	assert.Empty(t, store.documents)
	assert.Empty(t, store.messages)
}

func TestUploadTextRecordsUserMessage(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: owner, Name: "s", CreatedAt: time.Now()}
	store.sessions[session.Id] = session

	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	res, err := svc.Upload(context.Background(), owner, session.Id, &dto.UploadInput{
		Text: "  remember this fact  ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Text message received", res.Message)
	assert.Equal(t, "remember this fact", res.Text)

	require.Len(t, store.messages, 1)
	for _, m := range store.messages {
		assert.Equal(t, constant.MessageRoleUser, m.Role)
		assert.Equal(t, constant.MessageTypeText, m.Type)
		assert.Equal(t, "remember this fact", m.Content)
	}
	assert.Empty(t, store.documents)
}

func TestUploadFilePersistsDocumentAndNotice(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: owner, Name: "s", CreatedAt: time.Now()}
	store.sessions[session.Id] = session

	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	res, err := svc.Upload(context.Background(), owner, session.Id, &dto.UploadInput{
		Filename: "notes.txt",
		Data:     []byte("mitochondria are the powerhouse"),
	})

	require.NoError(t, err)
	assert.Equal(t, "File uploaded successfully", res.Message)
	assert.Equal(t, "notes.txt", res.Filename)

	require.Len(t, store.documents, 1)
	for _, d := range store.documents {
		assert.Equal(t, "mitochondria are the powerhouse", d.Content)
	}

	require.Len(t, store.messages, 1)
	for _, m := range store.messages {
		assert.Equal(t, constant.MessageRoleAssistant, m.Role)
		assert.Equal(t, constant.MessageTypeUpload, m.Type)
		assert.Equal(t, "📄 Document 'notes.txt' uploaded successfully.", m.Content)
	}
}

func TestUploadUnreadableFileRejected(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: owner, Name: "s", CreatedAt: time.Now()}
	store.sessions[session.Id] = session

	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	_, err := svc.Upload(context.Background(), owner, session.Id, &dto.UploadInput{
		Filename: "broken.pdf",
		Data:     []byte("not really a pdf"),
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Empty(t, store.documents)
	assert.Empty(t, store.messages)
}

func TestUploadNothingProvided(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: owner, Name: "s", CreatedAt: time.Now()}
	store.sessions[session.Id] = session

	svc := NewSessionService(&memFactory{store: store}, nil, nil)

	_, err := svc.Upload(context.Background(), owner, session.Id, &dto.UploadInput{Text: "   "})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

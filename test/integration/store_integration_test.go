package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"edumentor-be/internal/constant"
	"edumentor-be/internal/entity"
	"edumentor-be/internal/repository/specification"
	"edumentor-be/internal/repository/unitofwork"
	"edumentor-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	return unitofwork.NewRepositoryFactory(gormDB)
}

func seedUser(t *testing.T, uow unitofwork.UnitOfWork) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        fmt.Sprintf("test-integration-%s@example.com", uuid.New()),
		FullName:     "Integration Test User",
		PasswordHash: "not-a-real-hash",
		Provider:     entity.UserProviderLocal,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return user
}

func seedSession(t *testing.T, uow unitofwork.UnitOfWork, userId uuid.UUID) *entity.Session {
	t.Helper()
	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      constant.DefaultSessionName,
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.SessionRepository().Create(context.Background(), session))
	return session
}

func TestSessionStore(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	owner := seedUser(t, uow)
	stranger := seedUser(t, uow)
	session := seedSession(t, uow, owner.Id)

	t.Cleanup(func() {
		cleanup := factory.NewUnitOfWork(context.Background())
		_ = cleanup.SessionRepository().Delete(context.Background(), session.Id)
	})

	t.Run("owner scoping hides foreign sessions", func(t *testing.T) {
		found, err := uow.SessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.OwnedBy{UserID: owner.Id},
		)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, session.Id, found.Id)

		hidden, err := uow.SessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.OwnedBy{UserID: stranger.Id},
		)
		require.NoError(t, err)
		assert.Nil(t, hidden, "foreign session must read as not found")
	})

	t.Run("messages get monotonic seq", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			msg := &entity.Message{
				Id:        uuid.New(),
				SessionId: session.Id,
				Role:      constant.MessageRoleUser,
				Type:      constant.MessageTypeChat,
				Content:   fmt.Sprintf("turn %d", i),
				CreatedAt: time.Now(),
			}
			require.NoError(t, uow.MessageRepository().Create(ctx, msg))
		}

		messages, err := uow.MessageRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.OrderBy{Field: "seq"},
		)
		require.NoError(t, err)
		require.Len(t, messages, 3)
		for i, m := range messages {
			assert.Equal(t, int64(i+1), m.Seq)
			assert.Equal(t, fmt.Sprintf("turn %d", i), m.Content)
		}
	})

	t.Run("transactional pair lands adjacent", func(t *testing.T) {
		txUow := factory.NewUnitOfWork(ctx)
		require.NoError(t, txUow.Begin(ctx))
		defer txUow.Rollback()

		userTurn := &entity.Message{
			Id: uuid.New(), SessionId: session.Id,
			Role: constant.MessageRoleUser, Type: constant.MessageTypeChat,
			Content: "question", CreatedAt: time.Now(),
		}
		assistantTurn := &entity.Message{
			Id: uuid.New(), SessionId: session.Id,
			Role: constant.MessageRoleAssistant, Type: constant.MessageTypeChat,
			Content: "answer", CreatedAt: time.Now(),
		}
		require.NoError(t, txUow.MessageRepository().Create(ctx, userTurn))
		require.NoError(t, txUow.MessageRepository().Create(ctx, assistantTurn))
		require.NoError(t, txUow.Commit())

		assert.Equal(t, userTurn.Seq+1, assistantTurn.Seq)
	})

	t.Run("concurrent appends keep distinct seq", func(t *testing.T) {
		racing := seedSession(t, uow, owner.Id)
		defer func() { _ = uow.SessionRepository().Delete(ctx, racing.Id) }()

		first := factory.NewUnitOfWork(ctx)
		require.NoError(t, first.Begin(ctx))
		defer first.Rollback()

		held := &entity.Message{
			Id: uuid.New(), SessionId: racing.Id,
			Role: constant.MessageRoleUser, Type: constant.MessageTypeChat,
			Content: "held turn", CreatedAt: time.Now(),
		}
		require.NoError(t, first.MessageRepository().Create(ctx, held))

		contender := &entity.Message{
			Id: uuid.New(), SessionId: racing.Id,
			Role: constant.MessageRoleAssistant, Type: constant.MessageTypeChat,
			Content: "contending turn", CreatedAt: time.Now(),
		}
		done := make(chan error, 1)
		go func() {
			second := factory.NewUnitOfWork(ctx)
			if err := second.Begin(ctx); err != nil {
				done <- err
				return
			}
			defer second.Rollback()
			if err := second.MessageRepository().Create(ctx, contender); err != nil {
				done <- err
				return
			}
			done <- second.Commit()
		}()

		// let the second writer read the same max seq and block on the index
		time.Sleep(200 * time.Millisecond)
		require.NoError(t, first.Commit())
		require.NoError(t, <-done)

		assert.ElementsMatch(t, []int64{1, 2}, []int64{held.Seq, contender.Seq})
	})

	t.Run("rename persists", func(t *testing.T) {
		require.NoError(t, uow.SessionRepository().Rename(ctx, session.Id, "Photosynthesis Basics"))

		found, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Photosynthesis Basics", found.Name)
	})

	t.Run("delete cascades to documents and messages", func(t *testing.T) {
		doomed := seedSession(t, uow, owner.Id)

		document := &entity.Document{
			Id:        uuid.New(),
			SessionId: doomed.Id,
			Filename:  "notes.txt",
			Content:   "some content",
		}
		require.NoError(t, uow.DocumentRepository().Create(ctx, document))

		message := &entity.Message{
			Id: uuid.New(), SessionId: doomed.Id,
			Role: constant.MessageRoleAssistant, Type: constant.MessageTypeUpload,
			Content: "uploaded", CreatedAt: time.Now(),
		}
		require.NoError(t, uow.MessageRepository().Create(ctx, message))

		require.NoError(t, uow.SessionRepository().Delete(ctx, doomed.Id))

		docCount, err := uow.DocumentRepository().Count(ctx, specification.BySessionID{SessionID: doomed.Id})
		require.NoError(t, err)
		assert.Zero(t, docCount)

		msgCount, err := uow.MessageRepository().Count(ctx, specification.BySessionID{SessionID: doomed.Id})
		require.NoError(t, err)
		assert.Zero(t, msgCount)
	})
}

func TestUserStore(t *testing.T) {
	factory := newTestFactory(t)
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)

	user := seedUser(t, uow)

	found, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: user.Email})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.Id, found.Id)
	assert.Equal(t, user.FullName, found.FullName)

	missing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

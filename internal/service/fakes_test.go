package service

import (
	"context"
	"sort"

	"edumentor-be/internal/entity"
	"edumentor-be/internal/repository/contract"
	"edumentor-be/internal/repository/specification"
	"edumentor-be/internal/repository/unitofwork"
	"edumentor-be/pkg/llm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory store standing in for Postgres. Specifications are interpreted
// by type switch, matching what the GORM implementations do in SQL.

type memStore struct {
	users     map[uuid.UUID]*entity.User
	sessions  map[uuid.UUID]*entity.Session
	documents map[uuid.UUID]*entity.Document
	messages  map[uuid.UUID]*entity.Message

	// one-shot error for the next user insert
	userCreateErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]*entity.User{},
		sessions:  map[uuid.UUID]*entity.Session{},
		documents: map[uuid.UUID]*entity.Document{},
		messages:  map[uuid.UUID]*entity.Message{},
	}
}

type memFactory struct {
	store *memStore
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUow struct {
	store *memStore
}

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) UserRepository() contract.UserRepository {
	return &memUserRepo{store: u.store}
}
func (u *memUow) SessionRepository() contract.SessionRepository {
	return &memSessionRepo{store: u.store}
}
func (u *memUow) DocumentRepository() contract.DocumentRepository {
	return &memDocumentRepo{store: u.store}
}
func (u *memUow) MessageRepository() contract.MessageRepository {
	return &memMessageRepo{store: u.store}
}

func matchSession(s *entity.Session, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.OwnedBy:
			if s.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

func matchSessionId(id uuid.UUID, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.BySessionID:
			if id != sp.SessionID {
				return false
			}
		case specification.BySessionIDs:
			found := false
			for _, want := range sp.SessionIDs {
				if id == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	if err := r.store.userCreateErr; err != nil {
		r.store.userCreateErr = nil
		return err
	}
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.store.users[user.Id] = user
	return nil
}

func (r *memUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.users {
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				if u.Id != sp.ID {
					ok = false
				}
			case specification.ByEmail:
				if u.Email != sp.Email {
					ok = false
				}
			}
		}
		if ok {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.users)), nil
}

type memSessionRepo struct {
	store *memStore
}

func (r *memSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.store.sessions[session.Id] = session
	return nil
}

func (r *memSessionRepo) Rename(ctx context.Context, id uuid.UUID, name string) error {
	if s, ok := r.store.sessions[id]; ok {
		s.Name = name
	}
	return nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.sessions, id)
	for docId, d := range r.store.documents {
		if d.SessionId == id {
			delete(r.store.documents, docId)
		}
	}
	for msgId, m := range r.store.messages {
		if m.SessionId == id {
			delete(r.store.messages, msgId)
		}
	}
	return nil
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, s := range r.store.sessions {
		if matchSession(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var out []*entity.Session
	for _, s := range r.store.sessions {
		if matchSession(s, specs) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok && p.Limit > 0 {
			if p.Offset >= len(out) {
				return nil, nil
			}
			out = out[p.Offset:]
			if len(out) > p.Limit {
				out = out[:p.Limit]
			}
		}
	}
	return out, nil
}

func (r *memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memDocumentRepo struct {
	store *memStore
}

func (r *memDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.store.documents[document.Id] = document
	return nil
}

func (r *memDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.store.documents {
		if matchSessionId(d.SessionId, specs) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Filename < out[j].Filename
	})
	return out, nil
}

func (r *memDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memMessageRepo struct {
	store *memStore
}

func (r *memMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	if message.Seq == 0 {
		next, _ := r.NextSeq(ctx, message.SessionId)
		message.Seq = next
	}
	r.store.messages[message.Id] = message
	return nil
}

func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, m := range r.store.messages {
		if matchSessionId(m.SessionId, specs) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (r *memMessageRepo) NextSeq(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	var max int64
	for _, m := range r.store.messages {
		if m.SessionId == sessionId && m.Seq > max {
			max = m.Seq
		}
	}
	return max + 1, nil
}

func (r *memMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// stubProvider scripts the completion replies and records the transcripts it
// was called with.
type stubProvider struct {
	replies     []string
	chatErr     error
	transcripts [][]llm.Message
	transcribed string
}

func (p *stubProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	p.transcripts = append(p.transcripts, messages)
	if p.chatErr != nil {
		return "", p.chatErr
	}
	if len(p.replies) == 0 {
		return "stub reply", nil
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func (p *stubProvider) Transcribe(ctx context.Context, audio []byte, filename string, language string) (string, error) {
	return p.transcribed, nil
}

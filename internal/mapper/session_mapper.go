package mapper

import (
	"edumentor-be/internal/entity"
	"edumentor-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Session Mappers

func (m *SessionMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	return &entity.Session{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	return &model.Session{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

// Document Mappers

func (m *SessionMapper) DocumentToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:        d.Id,
		SessionId: d.SessionId,
		Filename:  d.Filename,
		Content:   d.Content,
	}
}

func (m *SessionMapper) DocumentToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:        d.Id,
		SessionId: d.SessionId,
		Filename:  d.Filename,
		Content:   d.Content,
	}
}

// Message Mappers

func (m *SessionMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	var meta []byte
	if len(msg.Meta) > 0 {
		meta = []byte(msg.Meta)
	}

	return &entity.Message{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Type:      msg.Type,
		Content:   msg.Content,
		Meta:      meta,
		Seq:       msg.Seq,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *SessionMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	var meta datatypes.JSON
	if len(msg.Meta) > 0 {
		meta = datatypes.JSON(msg.Meta)
	}

	return &model.Message{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Type:      msg.Type,
		Content:   msg.Content,
		Meta:      meta,
		Seq:       msg.Seq,
		CreatedAt: msg.CreatedAt,
	}
}

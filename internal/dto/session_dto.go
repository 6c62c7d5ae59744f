package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
}

type MessageDTO struct {
	Id        uuid.UUID       `json:"id"`
	Role      string          `json:"role"`
	Type      string          `json:"type"`
	Content   string          `json:"content"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	Seq       int64           `json:"seq"`
	CreatedAt time.Time       `json:"created_at"`
}

type DocumentDTO struct {
	Id       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Content  string    `json:"content"`
}

type SessionSummaryResponse struct {
	Id        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
	Messages  []MessageDTO `json:"messages"`
}

type SessionDetailResponse struct {
	Id        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	Messages  []MessageDTO  `json:"messages"`
	Documents []DocumentDTO `json:"documents"`
}

// UploadInput is the multipart payload for session uploads: either a file or
// a bare text snippet.
type UploadInput struct {
	Filename string
	Data     []byte
	Text     string
}

type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
	Text     string `json:"text,omitempty"`
}

type SendMessageRequest struct {
	Text string `form:"text" validate:"required"`
	Lang string `form:"lang"`
}

type ChatResponse struct {
	Reply   string                 `json:"reply"`
	Session *SessionDetailResponse `json:"session"`
}

type GenerateRequest struct {
	Text         string `form:"text"`
	Lang         string `form:"lang"`
	Difficulty   string `form:"difficulty"`
	NumQuestions int    `form:"num_questions"`
	TextGrammar  string `form:"text_grammar"`
	ReportType   string `form:"report_type"`
}

type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}

package prompt

import (
	"edumentor-be/internal/constant"
	"edumentor-be/internal/entity"
	"edumentor-be/pkg/llm"
)

// BuildContext assembles the model conversation for a session: the system
// persona, an excerpt of each uploaded document as a user turn, then the most
// recent messages in seq order.
func BuildContext(documents []entity.Document, messages []entity.Message) []llm.Message {
	out := make([]llm.Message, 0, 1+len(documents)+constant.RecentMessageLimit)
	out = append(out, llm.Message{
		Role:    constant.MessageRoleSystem,
		Content: constant.SystemPersona,
	})

	for _, doc := range documents {
		excerpt := doc.Content
		// clip by runes, not bytes, so Arabic content keeps its full excerpt
		if runes := []rune(excerpt); len(runes) > constant.DocumentExcerptLimit {
			excerpt = string(runes[:constant.DocumentExcerptLimit])
		}
		out = append(out, llm.Message{
			Role:    constant.MessageRoleUser,
			Content: "Document '" + doc.Filename + "' content (excerpt):\n" + excerpt,
		})
	}

	recent := messages
	if len(recent) > constant.RecentMessageLimit {
		recent = recent[len(recent)-constant.RecentMessageLimit:]
	}
	for _, m := range recent {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}

	return out
}

// ChatLanguageDirective is the directive used for free-form chat turns.
func ChatLanguageDirective(lang string) string {
	if lang == constant.LanguageArabic {
		return "Please respond in Arabic."
	}
	return "Please respond in English."
}

// GenerateLanguageDirective is the directive used for study-tool generation.
func GenerateLanguageDirective(lang string) string {
	if lang == constant.LanguageArabic {
		return "Respond in Arabic."
	}
	return "Respond in English."
}

// SpliceLanguage inserts the language directive right after the persona so it
// outranks document excerpts and history.
func SpliceLanguage(messages []llm.Message, directive string) []llm.Message {
	out := make([]llm.Message, 0, len(messages)+1)
	out = append(out, messages[0])
	out = append(out, llm.Message{Role: constant.MessageRoleSystem, Content: directive})
	out = append(out, messages[1:]...)
	return out
}

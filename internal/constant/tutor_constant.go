package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"

	MessageTypeChat       = "chat"
	MessageTypeUpload     = "upload"
	MessageTypeText       = "text"
	MessageTypeSummarize  = "summarize"
	MessageTypeQuiz       = "quiz"
	MessageTypeFlashcards = "flashcards"
	MessageTypeResources  = "resources"
	MessageTypeReport     = "report"
	MessageTypeGrammar    = "grammar"

	// DefaultSessionName is the placeholder name until the first
	// content-bearing interaction renames the session.
	DefaultSessionName = "Untitled Session"

	// SystemPersona is the fixed first transcript entry for every completion call.
	SystemPersona = "You are EduMentorAI, an educational assistant. When asked, respond in the requested language."

	// DocumentExcerptLimit caps how many characters of each document are sent
	// to the model. Longer documents are clipped, not rejected.
	DocumentExcerptLimit = 2000

	// RecentMessageLimit is how many trailing messages enter the transcript.
	RecentMessageLimit = 30

	LanguageArabic  = "ar"
	LanguageEnglish = "en"
)

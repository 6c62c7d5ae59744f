package prompt

import (
	"fmt"
	"strings"
)

// Action is a study-tool generation verb.
type Action string

const (
	ActionSummarize  Action = "summarize"
	ActionQuiz       Action = "quiz"
	ActionFlashcards Action = "flashcards"
	ActionResources  Action = "resources"
	ActionReport     Action = "report"
	ActionGrammar    Action = "grammar"
)

// ParseAction validates a raw action path segment against the closed set.
func ParseAction(raw string) (Action, bool) {
	switch Action(raw) {
	case ActionSummarize, ActionQuiz, ActionFlashcards, ActionResources, ActionReport, ActionGrammar:
		return Action(raw), true
	}
	return "", false
}

// MessageType returns the message type recorded for turns produced by this
// action. Action names double as message type tags.
func (a Action) MessageType() string {
	return string(a)
}

// Capitalized is the placeholder user-turn content when no text accompanies
// the action.
func (a Action) Capitalized() string {
	s := string(a)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ActionParams carries the per-action tuning inputs.
type ActionParams struct {
	Difficulty   string
	NumQuestions int
	TextGrammar  string
	ReportType   string
}

// QuestionCount resolves the requested quiz size with the default applied.
func (p ActionParams) QuestionCount() int {
	if p.NumQuestions > 0 {
		return p.NumQuestions
	}
	return 5
}

// Instruction builds the base instruction for the action.
func (a Action) Instruction(params ActionParams) string {
	switch a {
	case ActionSummarize:
		return "Summarize the following content clearly and concisely. if there was (Text bar input) use it only without (Documents content)"
	case ActionFlashcards:
		return "Generate 5 study flashcards in Q&A format from the content."
	case ActionResources:
		return "Suggest 3 free online resources to study the topic of the content."
	case ActionQuiz:
		difficulty := params.Difficulty
		if difficulty == "" {
			difficulty = "medium"
		}
		return fmt.Sprintf(
			"Create exactly %d total multiple-choice quiz questions based on the provided material. "+
				"Difficulty: %s. "+
				"If multiple documents are provided, distribute coverage roughly evenly across them, "+
				"but the TOTAL number of questions must remain exactly as requested. "+
				"Return ONLY a valid JSON array (no code fences, no prose) using this exact shape:\n"+
				`[{"question": "...", "options": ["A) ...", "B) ...", "C) ...", "D) ..."], "answer": "A"}]`+"\n"+
				"Where 'answer' is just the correct LETTER (A, B, C, or D).",
			params.QuestionCount(), difficulty)
	case ActionReport:
		reportType := params.ReportType
		if reportType == "" {
			reportType = "progress report"
		}
		return "Generate a " + reportType + ".\n\n" +
			"The learner has completed multiple quizzes. Each quiz contains questions, the learner's answers, " +
			"and correctness information. Analyze all quizzes together to assess the learner's overall performance. " +
			"Summarize accuracy, identify strengths and weaknesses, and provide constructive feedback with " +
			"suggestions for improvement. Use the given data to produce a meaningful report."
	case ActionGrammar:
		return fmt.Sprintf(
			"Analyze the following English text for grammar, spelling, and clarity errors:\n\n%s\n\n"+
				"Please provide:\n"+
				"1️⃣ The original text with errors highlighted using Markdown "+
				"(e.g., ~~wrong word~~ (error type)).\n"+
				"2️⃣ The corrected version (fully rewritten and polished).",
			params.TextGrammar)
	}
	return ""
}

// CombinedPrompt merges the instruction with the text-bar input and document
// corpus. Grammar reviews operate on their own text only.
func (a Action) CombinedPrompt(params ActionParams, text string, docsText string) string {
	base := a.Instruction(params)
	if a == ActionGrammar {
		return base
	}
	return base + "\n\nText bar input:\n" + text + "\n\nDocuments content:\n" + docsText
}

package prompt

import "strings"

// TitleInstruction asks the model to name a session from its first input.
const TitleInstruction = "Generate a short (3–5 words) title summarizing the topic of this text. Or generate the title based on the action. Only return the title."

// CleanTitle normalizes a model-produced title and caps it at ten words.
// Returns "" when nothing usable remains.
func CleanTitle(raw string) string {
	title := strings.Trim(strings.TrimSpace(raw), `"`)
	if title == "" {
		return ""
	}
	parts := strings.Fields(title)
	if len(parts) > 10 {
		return strings.Join(parts[:10], " ")
	}
	return title
}

// FallbackTitle derives a session name from the seed text when the model is
// unavailable: the first six words, or "New Session" for empty input.
func FallbackTitle(seed string) string {
	s := strings.TrimSpace(seed)
	if s == "" {
		return "New Session"
	}
	parts := strings.Fields(s)
	if len(parts) > 6 {
		parts = parts[:6]
	}
	return strings.Join(parts, " ")
}

package prompt

import (
	"encoding/json"
	"strings"
)

// NormalizeQuizReply extracts the first JSON array from a model reply,
// truncates it to at most count questions, and re-serializes it. Anything
// unparseable collapses to an empty array so the client always receives valid
// JSON.
func NormalizeQuizReply(reply string, count int) string {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return "[]"
	}

	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(reply[start:end+1]), &arr); err != nil {
		return "[]"
	}
	if count > 0 && len(arr) > count {
		arr = arr[:count]
	}

	out, err := json.Marshal(arr)
	if err != nil {
		return "[]"
	}
	return string(out)
}

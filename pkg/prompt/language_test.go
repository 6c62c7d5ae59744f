package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "ar", DetectLanguage("مرحبا بالعالم"))
	assert.Equal(t, "ar", DetectLanguage("hello مرحبا"))
	assert.Equal(t, "en", DetectLanguage("hello world"))
	assert.Equal(t, "en", DetectLanguage(""))
	assert.Equal(t, "en", DetectLanguage("こんにちは"))
}

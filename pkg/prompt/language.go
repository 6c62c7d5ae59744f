package prompt

import "edumentor-be/internal/constant"

// DetectLanguage returns "ar" when the text contains Arabic or Arabic
// Supplement codepoints, otherwise "en".
func DetectLanguage(text string) string {
	for _, r := range text {
		if (r >= 0x0600 && r <= 0x06FF) || (r >= 0x0750 && r <= 0x077F) {
			return constant.LanguageArabic
		}
	}
	return constant.LanguageEnglish
}

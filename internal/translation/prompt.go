package translation

import "fmt"

// DefaultContext describes slide content to the model
const DefaultContext = "PowerPoint presentation content"

// BuildPrompt returns the instruction prompt for translating text into
// targetLang. hint gives the model context about where the text comes from.
func BuildPrompt(text, targetLang, hint string) string {
	return fmt.Sprintf(`You are a professional translator. Translate the following text to %s.

Context: %s

Text to translate: "%s"

Instructions:
1. Maintain the original meaning and tone
2. Preserve any formatting markers or special characters
3. Keep the translation natural and fluent
4. If the text contains placeholders or variables, keep them unchanged
5. Return only the translated text, nothing else

Translated text:`, targetLang, hint, text)
}

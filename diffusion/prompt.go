package diffusion

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidatePrompt rejects prompts the runtime cannot take: blank text,
// invalid UTF-8, NUL bytes (the prompt becomes a C string or an argv entry)
// and anything longer than MaxPromptLength bytes.
func ValidatePrompt(prompt string) error {
	switch {
	case strings.TrimSpace(prompt) == "":
		return fmt.Errorf("%w: prompt is blank", ErrInvalidPrompt)
	case !utf8.ValidString(prompt):
		return fmt.Errorf("%w: prompt is not valid UTF-8", ErrInvalidPrompt)
	case strings.IndexByte(prompt, 0) >= 0:
		return fmt.Errorf("%w: prompt contains a NUL byte", ErrInvalidPrompt)
	case len(prompt) > MaxPromptLength:
		return fmt.Errorf("%w: prompt is %d bytes, limit is %d", ErrInvalidPrompt, len(prompt), MaxPromptLength)
	}
	return nil
}

package validation

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateDisplayName checks a profile display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "displayName", Message: "display name is required"}
	}
	if len(name) > 255 {
		return ValidationError{Field: "displayName", Message: "display name must be at most 255 characters"}
	}
	return nil
}

// ValidateChapters checks a candidate chapter set against a book's
// fixed chapter count. Duplicates are allowed (they collapse into a
// set later); numbers outside 1..chapterCount are not
func ValidateChapters(chapters []int, chapterCount int) error {
	if len(chapters) == 0 {
		return ValidationError{Field: "chapters", Message: "at least one chapter is required"}
	}
	for _, c := range chapters {
		if c < 1 || c > chapterCount {
			return ValidationError{
				Field:   "chapters",
				Message: fmt.Sprintf("chapter %d is out of range 1..%d", c, chapterCount),
			}
		}
	}
	return nil
}

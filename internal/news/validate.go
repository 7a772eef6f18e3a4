package news

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinBodyLength is the minimum article body length in characters.
const MinBodyLength = 20

// Field names used in validation results. The UI renders each message next
// to the field it names.
const (
	FieldTitle   = "title"
	FieldBody    = "body"
	FieldComment = "comment"
)

// ErrValidation is the sentinel wrapped by every ValidationError.
var ErrValidation = errors.New("news: validation failed")

// FieldError is a single per-field validation message.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates per-field messages. Validation always runs
// before any network call; a draft that fails here never reaches the store.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fieldError := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", fieldError.Field, fieldError.Message))
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Message returns the message for a field, or "" when the field is valid.
func (e *ValidationError) Message(field string) string {
	for _, fieldError := range e.Fields {
		if fieldError.Field == field {
			return fieldError.Message
		}
	}
	return ""
}

// ValidateDraft checks the user-editable article fields. The body minimum is
// counted in characters, not bytes.
func ValidateDraft(draft ArticleDraft) error {
	var fields []FieldError
	if strings.TrimSpace(draft.Title) == "" {
		fields = append(fields, FieldError{Field: FieldTitle, Message: "title is required"})
	}
	if utf8.RuneCountInString(draft.Body) < MinBodyLength {
		fields = append(fields, FieldError{
			Field:   FieldBody,
			Message: fmt.Sprintf("body must be at least %d characters", MinBodyLength),
		})
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// ValidateCommentText checks a comment before it is appended.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Fields: []FieldError{{Field: FieldComment, Message: "comment text is required"}}}
	}
	return nil
}

package errors

import (
	"regexp"
	"unicode"
)

// ValidateDocumentID validates the identifier of a document whose settings are
// persisted. Document IDs become file keys and database keys, so they are
// restricted to a conservative character set:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_' and '-' only
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDocument, "document id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidDocument, "document id too long (max 128 characters)")
	}
	if !documentIDRegex.MatchString(id) {
		return New(ErrCodeInvalidDocument, "invalid document id: %q", id)
	}
	return nil
}

var documentIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateLabel validates a funnel stage label.
// Labels end up in SVG text nodes and terminal output; control characters
// would corrupt both.
func ValidateLabel(label string) error {
	if len(label) > 256 {
		return New(ErrCodeInvalidInput, "label too long (max 256 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "label %q contains control characters", label)
		}
	}
	return nil
}

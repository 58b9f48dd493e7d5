package validation

import (
	"fmt"

	dErrors "votedesk/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize bounds JSON request bodies on admin routes.
	MaxBodySize = 1 << 20

	// MaxDocumentSize bounds one uploaded identity document.
	MaxDocumentSize = 5 << 20

	// MaxMultipartOverhead covers multipart boundaries and part headers.
	MaxMultipartOverhead = 4096
)

// String element length limits
const (
	MaxFilenameLength = 255
)

// Stats window limits
const (
	DefaultHistoryDays = 7
	MaxHistoryDays     = 90
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// ClampDays bounds a requested history window to [1, MaxHistoryDays]. Zero selects
// the default window.
func ClampDays(days int) (int, error) {
	switch {
	case days == 0:
		return DefaultHistoryDays, nil
	case days < 0:
		return 0, dErrors.New(dErrors.CodeValidation, "days must be a positive integer")
	default:
		return min(days, MaxHistoryDays), nil
	}
}

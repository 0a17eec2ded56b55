package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCapability    = errors.New("capability failure")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes capability context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, capabilityName, operation, message string, err error) error {
	detail := buildDetail(capabilityName, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether an error should leave the field's mask entry set
// so the next pass retries it. Everything except configuration problems is
// retried; a bad configuration will not fix itself between passes.
func Retryable(err error) bool {
	return err != nil && !errors.Is(err, ErrConfiguration)
}

// Message extracts a trimmed human-readable message from a wrapped error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

func buildDetail(capabilityName, operation, message string) string {
	parts := make([]string, 0, 3)
	if capabilityName = strings.TrimSpace(capabilityName); capabilityName != "" {
		parts = append(parts, capabilityName)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

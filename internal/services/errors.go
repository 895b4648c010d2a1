package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks operations that referenced an absent track, clip, or job.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRange marks malformed time or duration values.
	ErrInvalidRange = errors.New("invalid range")
	// ErrValidation marks preset constraint violations.
	ErrValidation = errors.New("validation error")
	// ErrExternalTool marks failures of the external transcoding process.
	ErrExternalTool = errors.New("external tool error")
	// ErrConfiguration marks unusable configuration values.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
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

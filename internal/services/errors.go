package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDecode        = errors.New("decode error")
	ErrExternalTool  = errors.New("external tool error")
	ErrIO            = errors.New("i/o error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Kind is the closed set of per-recording failure categories.
type Kind string

const (
	KindDecode   Kind = "decode"
	KindEngine   Kind = "engine"
	KindIO       Kind = "io"
	KindCanceled Kind = "canceled"
	KindUnknown  Kind = "unknown"
)

// Wrap builds an error message that includes family and operation context while
// tagging it with the provided marker for later classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, family, operation, message string, err error) error {
	detail := buildDetail(family, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf maps an error to its failure kind. Nil errors map to KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrExternalTool), errors.Is(err, ErrValidation):
		return KindEngine
	default:
		return KindUnknown
	}
}

func buildDetail(family, operation, message string) string {
	parts := make([]string, 0, 3)
	if family = strings.TrimSpace(family); family != "" {
		parts = append(parts, family)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "extraction failure"
	}
	return strings.Join(parts, ": ")
}

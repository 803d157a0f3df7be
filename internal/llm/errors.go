package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrorKind classifies generation failures so callers can decide whether a
// retry makes sense. All kinds are surfaced to the caller as retryable; the
// client itself never retries.
type ErrorKind string

const (
	// KindTimeout covers deadline expiry and cancellation
	KindTimeout ErrorKind = "timeout"
	// KindRateLimited covers provider quota and throttling errors
	KindRateLimited ErrorKind = "rate_limited"
	// KindMalformed covers responses the client could not interpret
	KindMalformed ErrorKind = "malformed"
	// KindUnavailable covers everything else (transport, 5xx)
	KindUnavailable ErrorKind = "unavailable"
)

// GenerationError wraps a provider failure with its classification
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ClassifyError maps a provider error to a GenerationError. Errors that are
// already classified pass through unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &GenerationError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return &GenerationError{Kind: KindRateLimited, Message: "provider rate limit", Cause: err}
		case 400, 422:
			return &GenerationError{Kind: KindMalformed, Message: "provider rejected request", Cause: err}
		}
	}

	// The genai SDK sometimes surfaces quota errors as plain strings
	if strings.Contains(err.Error(), "quota") || strings.Contains(err.Error(), "429") {
		return &GenerationError{Kind: KindRateLimited, Message: "provider rate limit", Cause: err}
	}

	return &GenerationError{Kind: KindUnavailable, Message: "provider call failed", Cause: err}
}

// IsGenerationError reports whether err originates from the generation client
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

package service

import (
	"errors"
	"fmt"

	"github.com/yoonbae81/ytcapt/internal/source"
)

type ErrorType int

const (
	ErrInvalidURL ErrorType = iota
	ErrFetchNotFound
	ErrFetchRateLimited
	ErrFetchNetwork
	ErrFetchTimeout
	ErrEmptyTrack
	ErrCache
	ErrInternal
)

func (t ErrorType) String() string {
	switch t {
	case ErrInvalidURL:
		return "InvalidURL"
	case ErrFetchNotFound:
		return "FetchNotFound"
	case ErrFetchRateLimited:
		return "FetchRateLimited"
	case ErrFetchNetwork:
		return "FetchNetwork"
	case ErrFetchTimeout:
		return "FetchTimeout"
	case ErrEmptyTrack:
		return "EmptyTrack"
	case ErrCache:
		return "Cache"
	case ErrInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// CaptError is the orchestrator's typed error. Fetch kinds from the caption
// source boundary propagate through it unchanged.
type CaptError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func NewError(errorType ErrorType, message string) *CaptError {
	return &CaptError{
		Type:    errorType,
		Message: message,
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *CaptError {
	return &CaptError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

func (e *CaptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s | cause: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *CaptError) Unwrap() error {
	return e.Cause
}

func IsErrorType(err error, errorType ErrorType) bool {
	var captErr *CaptError
	if errors.As(err, &captErr) {
		return captErr.Type == errorType
	}
	return false
}

// fromFetchError maps a caption source failure onto the service taxonomy,
// preserving the boundary's error kind.
func fromFetchError(err error) *CaptError {
	fetchErr, ok := source.AsFetchError(err)
	if !ok {
		return NewErrorWithCause(ErrInternal, "caption source failed", err)
	}

	switch fetchErr.Kind {
	case source.KindNotFound:
		return NewErrorWithCause(ErrFetchNotFound, fetchErr.Message, err)
	case source.KindRateLimited:
		return NewErrorWithCause(ErrFetchRateLimited, fetchErr.Message, err)
	case source.KindTimeout:
		return NewErrorWithCause(ErrFetchTimeout, fetchErr.Message, err)
	default:
		return NewErrorWithCause(ErrFetchNetwork, fetchErr.Message, err)
	}
}

// UserMessage renders an error for end users. The rate-limited kind gets a
// specific hint because a 429-class rejection usually means a regional or IP
// restriction rather than a transient failure.
func UserMessage(err error) string {
	var captErr *CaptError
	if !errors.As(err, &captErr) {
		return "An unexpected error occurred while processing the video."
	}

	switch captErr.Type {
	case ErrInvalidURL:
		return "Could not parse a valid video ID from the URL. Only standard video links are supported."
	case ErrFetchRateLimited:
		return "The platform rejected the request (HTTP 429). The requested language is likely unavailable from your current region/IP due to platform restrictions."
	case ErrEmptyTrack:
		return "No usable caption content is available for this video."
	case ErrFetchNotFound:
		return "No auto-generated captions were found for this video and language."
	case ErrFetchTimeout:
		return "The caption download timed out. Please try again."
	case ErrFetchNetwork:
		return "Failed to retrieve captions: " + captErr.Message
	default:
		return "An unexpected error occurred while processing the video."
	}
}

// IsExpected reports whether the error is an anticipated processing outcome
// rather than an internal failure. The HTTP surface renders expected errors
// inline instead of as a server error.
func IsExpected(err error) bool {
	var captErr *CaptError
	if !errors.As(err, &captErr) {
		return false
	}
	return captErr.Type != ErrInternal
}

// Package apierror is the error taxonomy the recognition core's HTTP
// layer maps internal failures onto. Orchestrators themselves return
// plain wrapped errors (%w); only the handlers construct an APIError.
package apierror

import (
	"encoding/json"
	"fmt"
)

// APIError is a standardized, client-facing error.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details string    `json:"details,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MarshalJSON customizes JSON encoding so embedding doesn't leak Status.
func (e *APIError) MarshalJSON() ([]byte, error) {
	type Alias APIError
	return json.Marshal(&struct{ *Alias }{Alias: (*Alias)(e)})
}

// WithDetails attaches additional diagnostic text and returns the
// receiver for chaining.
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// InvalidAudioFormat — decoder rejects the upload or its content-type is
// missing/not audio/*.
func InvalidAudioFormat(format string, supported []string) *APIError {
	return &APIError{
		Code:    ErrInvalidAudioFormat,
		Message: fmt.Sprintf("unsupported audio format %q, expected one of %v", format, supported),
		Status:  ErrInvalidAudioFormat.StatusCode(),
	}
}

// AudioTooShort — clip duration is below MIN_AUDIO_DURATION.
func AudioTooShort(duration, minimum float64) *APIError {
	return &APIError{
		Code:    ErrAudioTooShort,
		Message: fmt.Sprintf("audio duration %.2fs is below the minimum of %.2fs", duration, minimum),
		Status:  ErrAudioTooShort.StatusCode(),
	}
}

// AudioTooLong — clip duration exceeds MAX_AUDIO_DURATION.
func AudioTooLong(duration, maximum float64) *APIError {
	return &APIError{
		Code:    ErrAudioTooLong,
		Message: fmt.Sprintf("audio duration %.2fs exceeds the maximum of %.2fs", duration, maximum),
		Status:  ErrAudioTooLong.StatusCode(),
	}
}

// AudioProcessingFailure — decoder produced no usable fingerprint.
func AudioProcessingFailure(message string) *APIError {
	return &APIError{
		Code:    ErrAudioProcessingFail,
		Message: message,
		Status:  ErrAudioProcessingFail.StatusCode(),
	}
}

// RecognitionFailed — the pipeline ran to completion but no candidate
// crossed the threshold. This is a well-formed NoMatch, not a system
// error.
func RecognitionFailed(message string) *APIError {
	if message == "" {
		message = "no matching song found"
	}
	return &APIError{
		Code:    ErrRecognitionFailed,
		Message: message,
		Status:  ErrRecognitionFailed.StatusCode(),
	}
}

// SongNotFound — explicit lookup on an unknown song id.
func SongNotFound(songID string) *APIError {
	return &APIError{
		Code:    ErrSongNotFound,
		Message: fmt.Sprintf("song %s not found", songID),
		Status:  ErrSongNotFound.StatusCode(),
	}
}

// VectorBackendError — any failure of the vector index client (transport,
// non-success status, malformed response, or timeout).
func VectorBackendError(message string) *APIError {
	return &APIError{
		Code:    ErrVectorBackend,
		Message: message,
		Status:  ErrVectorBackend.StatusCode(),
	}
}

// CatalogueError — any failure of the song catalogue client.
func CatalogueError(message string) *APIError {
	return &APIError{
		Code:    ErrCatalogue,
		Message: message,
		Status:  ErrCatalogue.StatusCode(),
	}
}

// Unauthorized — no authenticated principal.
func Unauthorized(message string) *APIError {
	return &APIError{
		Code:    ErrUnauthorized,
		Message: message,
		Status:  ErrUnauthorized.StatusCode(),
	}
}

// Forbidden — authenticated principal is not the owner of the resource.
func Forbidden(message string) *APIError {
	return &APIError{
		Code:    ErrForbidden,
		Message: message,
		Status:  ErrForbidden.StatusCode(),
	}
}

// RateLimitExceeded — caller exceeded its allotted request rate.
func RateLimitExceeded(message string) *APIError {
	if message == "" {
		message = "rate limit exceeded"
	}
	return &APIError{
		Code:    ErrRateLimited,
		Message: message,
		Status:  ErrRateLimited.StatusCode(),
	}
}

package apierror

import "net/http"

// ErrorCode identifies the kind of failure, independent of any one
// transport's status code.
type ErrorCode string

const (
	ErrInvalidAudioFormat   ErrorCode = "INVALID_AUDIO_FORMAT"
	ErrAudioTooShort        ErrorCode = "AUDIO_TOO_SHORT"
	ErrAudioTooLong         ErrorCode = "AUDIO_TOO_LONG"
	ErrAudioProcessingFail  ErrorCode = "AUDIO_PROCESSING_FAILURE"
	ErrRecognitionFailed    ErrorCode = "RECOGNITION_FAILED"
	ErrSongNotFound         ErrorCode = "SONG_NOT_FOUND"
	ErrVectorBackend        ErrorCode = "VECTOR_BACKEND_ERROR"
	ErrCatalogue            ErrorCode = "CATALOGUE_ERROR"
	ErrUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrForbidden            ErrorCode = "FORBIDDEN"
	ErrRateLimited          ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// StatusCodeMap maps each ErrorCode to the HTTP status the system
// boundary reports for it, per the error taxonomy.
var StatusCodeMap = map[ErrorCode]int{
	ErrInvalidAudioFormat:  http.StatusBadRequest,
	ErrAudioTooShort:       http.StatusBadRequest,
	ErrAudioTooLong:        http.StatusBadRequest,
	ErrAudioProcessingFail: http.StatusUnprocessableEntity,
	ErrRecognitionFailed:   http.StatusUnprocessableEntity,
	ErrSongNotFound:        http.StatusNotFound,
	ErrVectorBackend:       http.StatusInternalServerError,
	ErrCatalogue:           http.StatusInternalServerError,
	ErrUnauthorized:        http.StatusUnauthorized,
	ErrForbidden:           http.StatusForbidden,
	ErrRateLimited:         http.StatusTooManyRequests,
}

// StatusCode returns the HTTP status code for this error code, defaulting
// to 500 for anything not in StatusCodeMap.
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}

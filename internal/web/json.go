package web

import (
	stderrors "errors"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/glftpd/glspy/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope wraps every JSON response in a consistent structure.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError is the machine-readable form of an error.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Machine-readable error codes.
const (
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeNoSnapshot       = "NO_SNAPSHOT"
	CodeDecodeFailed     = "DECODE_FAILED"
	CodeLookupFailed     = "LOOKUP_FAILED"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeUnknown          = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response carrying data.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeEnvelope(w, Envelope{Success: true, Data: data})
}

// WriteJSONError writes a failed response.
func WriteJSONError(w io.Writer, code, message, suggestion string) error {
	return writeEnvelope(w, Envelope{
		Error: &JSONError{Code: code, Message: message, Suggestion: suggestion},
	})
}

// WriteJSONFromError converts err to a failed response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeEnvelope(w, Envelope{Error: ErrorToJSON(err)})
}

func writeEnvelope(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON maps err to a JSONError. Structured errors keep their message
// and suggestion.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var spyErr *errors.Error
	if stderrors.As(err, &spyErr) {
		return &JSONError{
			Code:       mapErrorCode(spyErr.Code),
			Message:    spyErr.Short(),
			Suggestion: spyErr.Suggestion,
		}
	}

	return &JSONError{Code: CodeUnknown, Message: err.Error()}
}

func mapErrorCode(code string) string {
	switch code {
	case errors.ErrSnapshot:
		return CodeNoSnapshot
	case errors.ErrDecode:
		return CodeDecodeFailed
	case errors.ErrLookup:
		return CodeLookupFailed
	case errors.ErrConfig:
		return CodeConfigInvalid
	}
	return CodeUnknown
}

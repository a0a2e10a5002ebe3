package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind - тип ошибки клиента. Набор закрытый.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindModelNotFound
	KindConnection
	KindStatus
	KindMalformedResponse
	KindJobFailed
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindModelNotFound:
		return "model_not_found"
	case KindConnection:
		return "connection"
	case KindStatus:
		return "status"
	case KindMalformedResponse:
		return "malformed_response"
	case KindJobFailed:
		return "job_failed"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// IsAPI reports whether the kind describes a remote or transport failure.
func (k ErrorKind) IsAPI() bool {
	switch k {
	case KindConnection, KindStatus, KindMalformedResponse, KindJobFailed, KindTimeout:
		return true
	}
	return false
}

// Sentinels for errors.Is. ErrChatGPT matches every *Error, ErrAPI matches
// every API kind.
var (
	ErrChatGPT           = errors.New("chatgpt error")
	ErrValidation        = errors.New("validation error")
	ErrModelNotFound     = errors.New("model not found")
	ErrAPI               = errors.New("api error")
	ErrConnection        = errors.New("connection failed")
	ErrBadStatus         = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrJobFailed         = errors.New("job failed")
	ErrTimeout           = errors.New("timed out")
)

var kindSentinels = map[ErrorKind]error{
	KindValidation:        ErrValidation,
	KindModelNotFound:     ErrModelNotFound,
	KindConnection:        ErrConnection,
	KindStatus:            ErrBadStatus,
	KindMalformedResponse: ErrMalformedResponse,
	KindJobFailed:         ErrJobFailed,
	KindTimeout:           ErrTimeout,
}

// Error is the single error type returned by clients in this module.
// Callers switch on Kind (or use errors.Is with the sentinels above).
type Error struct {
	Kind        ErrorKind
	StatusCode  int    // 0 если до HTTP-ответа не дошли
	Message     string // human-readable description
	Description string // status text for KindStatus
	Reason      string // failure reason reported by the service
	Err         error
}

func (e *Error) Error() string {
	msg := e.Message
	switch e.Kind {
	case KindStatus:
		msg = fmt.Sprintf("status %d (%s): %s", e.StatusCode, e.Description, e.Message)
	case KindJobFailed:
		if e.Reason != "" {
			msg = fmt.Sprintf("%s: %s", e.Message, e.Reason)
		}
	}
	if e.Kind.IsAPI() {
		msg = "api error: " + msg
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrChatGPT:
		return true
	case ErrAPI:
		return e.Kind.IsAPI()
	}
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConnectionError(err error) *Error {
	return &Error{Kind: KindConnection, Message: "request failed", Err: err}
}

func NewMalformedResponseError(msg string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: msg, Err: err}
}

func NewStatusError(statusCode int, message string) *Error {
	if message == "" {
		message = "Unknown error"
	}
	return &Error{
		Kind:        KindStatus,
		StatusCode:  statusCode,
		Message:     message,
		Description: StatusDescription(statusCode),
	}
}

func NewJobFailedError(taskID, reason string) *Error {
	return &Error{
		Kind:    KindJobFailed,
		Message: fmt.Sprintf("task %s failed", taskID),
		Reason:  reason,
	}
}

func NewTimeoutError(taskID string, last error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("task %s did not complete in time", taskID),
		Err:     last,
	}
}

// Wrap turns an arbitrary error into the base kind, keeping *Error values as is.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return &Error{Kind: KindUnknown, Err: err}
}

// StatusDescription maps the status codes the service documents.
func StatusDescription(code int) string {
	switch code {
	case http.StatusTooManyRequests:
		return "Too Many Requests"
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	default:
		return "Unexpected Error"
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidRange     = errors.New("invalid frequency range")
	ErrUnknownChart     = errors.New("unknown chart kind")
	ErrFetchTimeout     = errors.New("fetch timed out")
	ErrRetriesExhausted = errors.New("retries exhausted")
	ErrEmptyContent     = errors.New("no content extracted from page")
	ErrNothingToRender  = errors.New("nothing to render")
	ErrInternal         = errors.New("internal error")
	ErrTimeout          = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error chain to the status the API responds with.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidRange), errors.Is(err, ErrUnknownChart):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmptyContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrFetchTimeout), errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the single message shown to the person who asked for
// the analysis. Internal details never leak through it.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	switch {
	case errors.Is(err, ErrEmptyContent):
		return "no content could be extracted from the page, check the URL or the site's content"
	case errors.Is(err, ErrFetchTimeout):
		return "the page did not respond in time"
	case errors.Is(err, ErrTimeout):
		return "the analysis took too long"
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrUnknownChart), errors.Is(err, ErrInvalidInput):
		return err.Error()
	default:
		return "an error occurred while fetching or processing the text"
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid range", fmt.Errorf("select: %w", ErrInvalidRange), http.StatusBadRequest},
		{"unknown chart", ErrUnknownChart, http.StatusBadRequest},
		{"empty content", fmt.Errorf("analyze: %w", ErrEmptyContent), http.StatusUnprocessableEntity},
		{"fetch timeout", fmt.Errorf("%w: %w", ErrRetriesExhausted, ErrFetchTimeout), http.StatusGatewayTimeout},
		{"invalid input", fmt.Errorf("request: %w", ErrInvalidInput), http.StatusBadRequest},
		{"app error wins", New(ErrInternal, http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrInvalidInput, http.StatusBadRequest, "url %q is not absolute", "foo")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, `invalid input: url "foo" is not absolute`, err.Error())
	require.Equal(t, `url "foo" is not absolute`, UserMessage(err))
}

func TestUserMessageHidesInternals(t *testing.T) {
	msg := UserMessage(fmt.Errorf("%w: segmenter panicked: index out of range", ErrInternal))
	require.NotContains(t, msg, "index out of range")
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justin/job-advisor/internal/builder"
	"github.com/justin/job-advisor/internal/llm"
	"github.com/justin/job-advisor/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "not found",
			err:  &builder.NotFoundError{Resource: "profile", ID: "abc"},
			want: http.StatusNotFound,
		},
		{
			name: "invalid state",
			err:  &builder.InvalidStateError{Message: "no active session"},
			want: http.StatusConflict,
		},
		{
			name: "generation unavailable",
			err:  &builder.GenerationUnavailableError{Message: "model down"},
			want: http.StatusBadGateway,
		},
		{
			name: "wrapped generation unavailable",
			err:  fmt.Errorf("starting session: %w", &builder.GenerationUnavailableError{Message: "model down"}),
			want: http.StatusBadGateway,
		},
		{
			name: "model client error",
			err:  &llm.GenerationError{Kind: llm.KindTimeout, Message: "request timed out"},
			want: http.StatusBadGateway,
		},
		{
			name: "wrapped model client error",
			err:  fmt.Errorf("research summary generation failed: %w", &llm.GenerationError{Kind: llm.KindUnavailable, Message: "provider call failed"}),
			want: http.StatusBadGateway,
		},
		{
			name: "plain error",
			err:  errors.New("something broke"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_ValidationErrors(t *testing.T) {
	req := &types.CreateProfileRequest{Email: "not-an-email"}
	err := req.Validate()
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

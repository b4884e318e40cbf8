package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Validation("title is required"), ErrValidation},
		{"auth", Auth("Invalid email or password"), ErrAuth},
		{"forbidden", Forbidden("not your account"), ErrForbidden},
		{"not_found", NotFound("Bug not found"), ErrNotFound},
		{"invalid_join_code", InvalidJoinCode(), ErrNotFound},
		{"conflict", Conflict("User already exists!"), ErrConflict},
		{"storage", Storage("inserting bug", cause), ErrStorage},
		{"deletion", Deletion("failed to delete user", cause), ErrDeletion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
		})
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("updating bug", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "updating bug: connection reset", err.Error())
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Invalid Join Code", Message(InvalidJoinCode(), "fallback"))
	assert.Equal(t, "fallback", Message(Storage("inserting bug", errors.New("boom")), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("plain"), "fallback"))
}

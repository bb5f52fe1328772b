package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	errMissing := NotFound("need not found")

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"direct", errMissing, CodeNotFound},
		{"wrapped with fmt", fmt.Errorf("delete need1: %w", errMissing), CodeNotFound},
		{"wrap helper", Wrap(CodeInvalidArgument, "bad input", errors.New("title")), CodeInvalidArgument},
		{"plain error", errors.New("boom"), CodeInternal},
		{"nil", nil, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeInternal, "save session", cause)

	assert.Equal(t, "save session: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "need not found", NotFound("need not found").Error())
}

func TestSentinelIdentity(t *testing.T) {
	errA := InvalidArg("title is required")
	errB := InvalidArg("title is required")

	assert.ErrorIs(t, fmt.Errorf("ctx: %w", errA), errA)
	assert.NotErrorIs(t, errA, errB)
}

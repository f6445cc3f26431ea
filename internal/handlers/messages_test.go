package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/orbitronic/internal/service"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		ok   bool
	}{
		{name: "field", err: &service.FieldError{Field: "price", Message: "Price is required"}, want: "Price is required", ok: true},
		{name: "credentials", err: service.ErrInvalidCredentials, want: MsgInvalidLogin, ok: true},
		{name: "username", err: service.ErrDuplicateUsername, want: MsgUsernameTaken, ok: true},
		{name: "duplicate id", err: fmt.Errorf("create: %w", service.ErrDuplicateID), want: MsgDuplicateID, ok: true},
		{name: "details", err: fmt.Errorf("%w: eof", service.ErrInvalidDetailsFormat), want: MsgInvalidDetails, ok: true},
		{name: "not found", err: service.ErrNotFound, want: MsgProductNotFound, ok: true},
		{name: "unexpected", err: &service.UnexpectedError{Op: "persist", Err: errors.New("disk full")}, want: MsgUnexpectedAction},
		{name: "unknown", err: errors.New("boom"), want: MsgUnexpectedAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := message(tt.err)
			assert.Equal(t, tt.want, msg)
			assert.Equal(t, tt.ok, ok)
			assert.NotContains(t, msg, "disk full")
		})
	}
}

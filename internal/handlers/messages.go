package handlers

import (
	"errors"

	"github.com/Skotchmaster/orbitronic/internal/service"
)

const (
	MsgLoginOK          = "Login successful!"
	MsgInvalidLogin     = "Invalid username or password"
	MsgUsernameTaken    = "Username already exists"
	MsgSignupOK         = "Signup successful! Please login."
	MsgLoggedOut        = "Logged out successfully"
	MsgProductAdded     = "Product added successfully"
	MsgProductUpdated   = "Product updated successfully"
	MsgProductDeleted   = "Product deleted successfully"
	MsgDuplicateID      = "Product ID already exists"
	MsgInvalidDetails   = "Invalid JSON format for details"
	MsgProductNotFound  = "Product not found"
	MsgSearchRequired   = "Search query is required"
	MsgUnexpectedAction = "Something went wrong, please try again"
)

// message maps an expected failure to its user-facing notice. ok is false
// for unexpected failures, which must not reach the user verbatim.
func message(err error) (msg string, ok bool) {
	var fe *service.FieldError
	switch {
	case errors.As(err, &fe):
		return fe.Message, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidLogin, true
	case errors.Is(err, service.ErrDuplicateUsername):
		return MsgUsernameTaken, true
	case errors.Is(err, service.ErrDuplicateID):
		return MsgDuplicateID, true
	case errors.Is(err, service.ErrInvalidDetailsFormat):
		return MsgInvalidDetails, true
	case errors.Is(err, service.ErrNotFound):
		return MsgProductNotFound, true
	}
	return MsgUnexpectedAction, false
}

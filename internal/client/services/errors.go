package services

import (
	"errors"
)

// Local precondition failures: the operation is rejected before any request.
var (
	ErrCategoryRequired = errors.New("category is required")
	ErrNameRequired     = errors.New("product name is required")
	ErrIDRequired       = errors.New("product id is required")
	ErrImageRequired    = errors.New("image path is required")
	ErrNoCategories     = errors.New("no categories available")
	ErrInvalidProduct   = errors.New("server returned a product without id or name")
)

// User-facing messages for failures that have no server-provided text.
const (
	MsgSignInFailed    = "incorrect login information"
	MsgSignUpFailed    = "registration could not be completed"
	MsgSessionNotSaved = "the session could not be saved on this device"
	MsgSignOutFailed   = "the stored session could not be removed"
	MsgDeleteFailed    = "the product could not be deleted"
	MsgImageNotSaved   = "the image could not be saved"
)

var errMissingToken = errors.New("server response has no token")

// AlertError is a failure the presentation layer should show to the user
// right away as a one-shot alert. Message is ready for display; Err is the
// underlying cause.
type AlertError struct {
	Message string
	Err     error
}

func (e *AlertError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AlertError) Unwrap() error { return e.Err }

// AsAlert extracts an *AlertError from err's chain.
func AsAlert(err error) (*AlertError, bool) {
	var alert *AlertError
	if errors.As(err, &alert) {
		return alert, true
	}
	return nil, false
}

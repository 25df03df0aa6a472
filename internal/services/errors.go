package services

import (
	"errors"
	"fmt"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/pricing"
	"wickandwax/internal/repos"
	"wickandwax/internal/session"
)

var (
	ErrNotSignedIn = errors.New("sign in required")
	ErrInvalid     = errors.New("invalid input")
	ErrNotAllowed  = errors.New("action not allowed")
)

// InputError is a validation failure with a message safe to show the user.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string      { return e.Msg }
func (e *InputError) Is(target error) bool { return target == ErrInvalid }

func invalid(field, msg string) error { return &InputError{Field: field, Msg: msg} }

// EligibilityError carries the gate's refusal reason for a purchase action.
type EligibilityError struct {
	Reason pricing.Reason
	MaxQty int
}

func (e *EligibilityError) Error() string {
	switch e.Reason {
	case pricing.ReasonSelectFragrance:
		return "Please select a fragrance"
	case pricing.ReasonOutOfStock:
		return "This item is out of stock"
	case pricing.ReasonExceedsStock:
		return fmt.Sprintf("Only %d left in stock", e.MaxQty)
	case pricing.ReasonInvalidQuantity:
		return fmt.Sprintf("Quantity must be between 1 and %d", pricing.MaxQuantity)
	default:
		return "This item is not available right now"
	}
}

func (e *EligibilityError) Is(target error) bool { return target == ErrNotAllowed }

// Message picks the text shown to the user for err.
func Message(err error, fallback string) string {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Msg
	}
	var ee *EligibilityError
	if errors.As(err, &ee) {
		return ee.Error()
	}
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Error()
	}
	if errors.Is(err, repos.ErrDuplicateSubmission) {
		return "This form was already submitted"
	}
	if errors.Is(err, session.ErrCooldown) {
		return "Please wait before requesting another code"
	}
	if errors.Is(err, ErrNotSignedIn) {
		return "Please sign in to continue"
	}
	return apiclient.UserMessage(err, fallback)
}

package model

import (
	"errors"
	"fmt"
)

// NotFoundError reports that an entity id had no matching record.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ForbiddenError reports an authorization rule violation.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "access denied"
	}
	return e.Reason
}

// ConflictError reports a write that would violate a uniqueness rule,
// like a duplicate registration email or a lost slot race.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Reason == "" {
		return "conflict"
	}
	return e.Reason
}

// NoAvailabilityError reports that no instructor/slot matched a booking
// request. Terminal for the request; there is no waitlist.
type NoAvailabilityError struct {
	Date string
	Spot SpotLocation
}

func (e *NoAvailabilityError) Error() string {
	return "no instructor available for selected time slot"
}

// PaymentGatewayError wraps a failed gateway call with the gateway's message.
type PaymentGatewayError struct {
	Msg string
	Err error
}

func (e *PaymentGatewayError) Error() string {
	return fmt.Sprintf("payment gateway error: %s", e.Msg)
}

func (e *PaymentGatewayError) Unwrap() error { return e.Err }

// PaymentNotCompleteError reports a confirm call before gateway settlement.
// The caller must re-poll; the core schedules no retry.
type PaymentNotCompleteError struct {
	PaymentID string
}

func (e *PaymentNotCompleteError) Error() string {
	return "payment not completed"
}

// ValidationError reports malformed input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsForbidden(err error) bool {
	var f *ForbiddenError
	return errors.As(err, &f)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

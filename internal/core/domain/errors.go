package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Ledger errors
var (
	ErrBorrowNotFound   = errors.New("borrow not found")
	ErrCurrencyNotFound = errors.New("currency not found")
	ErrChargeNotFound   = errors.New("pending interest charge not found")

	// ErrInvalidAmount is returned for a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrOutstandingInterest blocks a repayment while the current interest
	// period is unsettled or has never been computed.
	ErrOutstandingInterest = errors.New("outstanding interest must be settled before repayment")

	// ErrClockSkew is returned when a borrow's accrual anchor lies after the
	// as-of date. That means a misconfigured anchor or a skewed clock, so it
	// is surfaced instead of being clamped to a one-day period.
	ErrClockSkew = errors.New("accrual anchor is after the as-of date")

	// ErrConcurrencyConflict maps lock wait timeouts and deadlocks on a
	// borrow row. The operation rolled back and may safely be retried.
	ErrConcurrencyConflict = errors.New("concurrent operation on the same borrow, retry")

	// ErrInvalidPeriod is returned by the interest estimator when the end
	// date is before the start date.
	ErrInvalidPeriod = errors.New("period end must not be before period start")
)

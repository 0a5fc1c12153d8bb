package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Borrow status values. A borrow is Paid exactly when its remaining
// amount reaches zero; it never leaves Paid.
const (
	BorrowStatusOpen = "Open"
	BorrowStatusPaid = "Paid"
)

// ChargePeriod is the day-granular window an interest charge covers.
// Start and End are both normalized to start-of-day and the day count is
// inclusive of both endpoints.
type ChargePeriod struct {
	Start time.Time
	End   time.Time
	Days  int
}

// NextStart returns the first day of the period that follows this one.
// Settlement advances a borrow's accrual anchor here so consecutive
// periods neither gap nor overlap.
func (p ChargePeriod) NextStart() time.Time {
	return p.End.AddDate(0, 0, 1)
}

// Estimate is the result of the forward interest estimator. It is never
// persisted.
type Estimate struct {
	Interest  float64   `json:"interest"`
	Days      int       `json:"days"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

package models

import (
	"time"

	"borrowdesk/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'USER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Master Tables
// ============================================================

// Currency master (each borrow is denominated in exactly one)
type Currency struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Code      string         `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Symbol    string         `gorm:"size:10" json:"symbol"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Currency) TableName() string {
	return "currencies"
}

// ============================================================
// Ledger Tables
// ============================================================

// Borrow is the loan record: borrowed principal, rate and the running
// outstanding balance. InterestDate is the accrual anchor — the first day
// of the next interest period.
type Borrow struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	CurrencyID      uint           `gorm:"not null" json:"currency_id"`
	Amount          float64        `gorm:"type:decimal(15,2);not null" json:"amount"`
	RemainingAmount float64        `gorm:"type:decimal(15,2);not null" json:"remaining_amount"`
	Rate            float64        `gorm:"type:decimal(5,2);not null" json:"rate"`
	BorrowedDate    time.Time      `gorm:"type:date;not null" json:"borrowed_date"`
	InterestDate    time.Time      `gorm:"type:date;not null" json:"interest_date"`
	Status          string         `gorm:"size:10;not null;default:'Open'" json:"status"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Currency      *Currency       `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
	PendingCharge *PendingCharge  `gorm:"foreignKey:BorrowID" json:"pending_charge,omitempty"`
	Interests     []InterestEntry `gorm:"foreignKey:BorrowID" json:"interests,omitempty"`
	Repayments    []Repayment     `gorm:"foreignKey:BorrowID" json:"repayments,omitempty"`
}

func (Borrow) TableName() string {
	return "borrows"
}

func (b *Borrow) IsPaid() bool {
	return b.Status == domain.BorrowStatusPaid
}

// BorrowResponse DTO
type BorrowResponse struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"user_id"`
	UserName        string    `json:"user_name,omitempty"`
	CurrencyID      uint      `json:"currency_id"`
	CurrencyCode    string    `json:"currency_code,omitempty"`
	CurrencySymbol  string    `json:"currency_symbol,omitempty"`
	Amount          float64   `json:"amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	Rate            float64   `json:"rate"`
	BorrowedDate    time.Time `json:"borrowed_date"`
	InterestDate    time.Time `json:"interest_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (b *Borrow) ToResponse() *BorrowResponse {
	resp := &BorrowResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		CurrencyID:      b.CurrencyID,
		Amount:          b.Amount,
		RemainingAmount: b.RemainingAmount,
		Rate:            b.Rate,
		BorrowedDate:    b.BorrowedDate,
		InterestDate:    b.InterestDate,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
	}

	if b.User != nil {
		resp.UserName = b.User.Username
	}
	if b.Currency != nil {
		resp.CurrencyCode = b.Currency.Code
		resp.CurrencySymbol = b.Currency.Symbol
	}

	return resp
}

// PendingCharge is the single computed-but-unsettled interest charge of a
// borrow. The unique index on borrow_id makes the "at most one per
// borrow" invariant structural; recomputation overwrites the row.
type PendingCharge struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BorrowID   uint      `gorm:"uniqueIndex;not null" json:"borrow_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CurrencyID uint      `gorm:"not null" json:"currency_id"`
	Principal  float64   `gorm:"type:decimal(15,2);not null" json:"principal"`
	Rate       float64   `gorm:"type:decimal(5,2);not null" json:"rate"`
	Interest   float64   `gorm:"type:decimal(12,2);not null" json:"interest"`
	StartDate  time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null" json:"end_date"`
	Days       int       `gorm:"not null" json:"days"`
	Paid       bool      `gorm:"default:false" json:"paid"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Borrow *Borrow `gorm:"foreignKey:BorrowID" json:"borrow,omitempty"`
}

func (PendingCharge) TableName() string {
	return "pending_charges"
}

// InterestEntry is the immutable history row created when a pending
// charge is settled.
type InterestEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BorrowID  uint      `gorm:"not null;index" json:"borrow_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	PaidDate  time.Time `gorm:"type:date;not null" json:"paid_date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Borrow *Borrow `gorm:"foreignKey:BorrowID" json:"borrow,omitempty"`
}

func (InterestEntry) TableName() string {
	return "interest_entries"
}

// Repayment is an immutable principal payment against a borrow.
type Repayment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Reference  string    `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	BorrowID   uint      `gorm:"not null;index" json:"borrow_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CurrencyID uint      `gorm:"not null" json:"currency_id"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PayDate    time.Time `gorm:"not null" json:"pay_date"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Borrow   *Borrow   `gorm:"foreignKey:BorrowID" json:"borrow,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Currency *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
}

func (Repayment) TableName() string {
	return "repayments"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Currency{},
		&Borrow{},
		&PendingCharge{},
		&InterestEntry{},
		&Repayment{},
	)
}

package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ReportService handles ledger reporting and dashboard aggregation
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ============================================================
// Interest Report
// ============================================================

// InterestReportRow represents one settled interest entry in the report
type InterestReportRow struct {
	EntryID      uint      `json:"entry_id"`
	BorrowID     uint      `json:"borrow_id"`
	Username     string    `json:"username"`
	CurrencyCode string    `json:"currency_code"`
	Amount       float64   `json:"amount"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	PaidDate     time.Time `json:"paid_date"`
}

// InterestReport lists settled interest entries within a date range
func (s *ReportService) InterestReport(ctx context.Context, from, to time.Time) ([]InterestReportRow, error) {
	var rows []InterestReportRow
	err := s.db.WithContext(ctx).Table("interest_entries").
		Select("interest_entries.id as entry_id, interest_entries.borrow_id, users.username, currencies.code as currency_code, interest_entries.amount, interest_entries.start_date, interest_entries.end_date, interest_entries.paid_date").
		Joins("LEFT JOIN users ON interest_entries.user_id = users.id").
		Joins("LEFT JOIN borrows ON interest_entries.borrow_id = borrows.id").
		Joins("LEFT JOIN currencies ON borrows.currency_id = currencies.id").
		Where("interest_entries.paid_date BETWEEN ? AND ?", from, to).
		Order("interest_entries.paid_date ASC").
		Scan(&rows).Error
	return rows, err
}

// ============================================================
// Repayment Report
// ============================================================

// RepaymentReportRow represents one repayment in the report
type RepaymentReportRow struct {
	RepaymentID  uint      `json:"repayment_id"`
	Reference    string    `json:"reference"`
	BorrowID     uint      `json:"borrow_id"`
	Username     string    `json:"username"`
	CurrencyCode string    `json:"currency_code"`
	Amount       float64   `json:"amount"`
	PayDate      time.Time `json:"pay_date"`
}

// RepaymentReport lists repayments within a date range
func (s *ReportService) RepaymentReport(ctx context.Context, from, to time.Time) ([]RepaymentReportRow, error) {
	var rows []RepaymentReportRow
	err := s.db.WithContext(ctx).Table("repayments").
		Select("repayments.id as repayment_id, repayments.reference, repayments.borrow_id, users.username, currencies.code as currency_code, repayments.amount, repayments.pay_date").
		Joins("LEFT JOIN users ON repayments.user_id = users.id").
		Joins("LEFT JOIN currencies ON repayments.currency_id = currencies.id").
		Where("repayments.pay_date BETWEEN ? AND ?", from, to).
		Order("repayments.pay_date ASC").
		Scan(&rows).Error
	return rows, err
}

// ============================================================
// Profit Series
// ============================================================

// ProfitPoint represents settled interest aggregated per period bucket
type ProfitPoint struct {
	Period   string  `json:"period"`
	Interest float64 `json:"interest"`
	Count    int64   `json:"count"`
}

// ProfitSeries aggregates settled interest by day, week or month.
// Grouping uses MySQL DATE_FORMAT; week buckets follow ISO year-week.
func (s *ReportService) ProfitSeries(ctx context.Context, granularity string, from, to time.Time) ([]ProfitPoint, error) {
	format := "%Y-%m"
	switch granularity {
	case "daily":
		format = "%Y-%m-%d"
	case "weekly":
		format = "%x-W%v"
	}

	var points []ProfitPoint
	err := s.db.WithContext(ctx).Table("interest_entries").
		Select("DATE_FORMAT(paid_date, ?) as period, COALESCE(SUM(amount), 0) as interest, COUNT(*) as count", format).
		Where("paid_date BETWEEN ? AND ?", from, to).
		Group("period").
		Order("period ASC").
		Scan(&points).Error
	return points, err
}

// ============================================================
// Dashboard
// ============================================================

// DashboardData represents dashboard summary data
type DashboardData struct {
	// Ledger totals
	OpenBorrows       int64   `json:"open_borrows"`
	PaidBorrows       int64   `json:"paid_borrows"`
	TotalBorrowed     float64 `json:"total_borrowed"`
	TotalOutstanding  float64 `json:"total_outstanding"`
	TotalRepaid       float64 `json:"total_repaid"`
	InterestCollected float64 `json:"interest_collected"`
	InterestPending   float64 `json:"interest_pending"`

	// This month
	InterestThisMonth   float64 `json:"interest_this_month"`
	RepaymentsThisMonth float64 `json:"repayments_this_month"`

	// Per currency breakdown
	Currencies []CurrencyStats `json:"currencies"`

	// Recent activity
	RecentRepayments []RepaymentReportRow `json:"recent_repayments"`
}

// CurrencyStats represents outstanding totals per currency
type CurrencyStats struct {
	CurrencyID   uint    `json:"currency_id"`
	Code         string  `json:"code"`
	Symbol       string  `json:"symbol"`
	OpenBorrows  int64   `json:"open_borrows"`
	Outstanding  float64 `json:"outstanding"`
	TotalLent    float64 `json:"total_lent"`
}

// GetDashboard returns dashboard summary data
func (s *ReportService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	// Borrow counts and totals
	s.db.WithContext(ctx).Table("borrows").
		Where("status = ? AND deleted_at IS NULL", "Open").Count(&data.OpenBorrows)
	s.db.WithContext(ctx).Table("borrows").
		Where("status = ? AND deleted_at IS NULL", "Paid").Count(&data.PaidBorrows)
	s.db.WithContext(ctx).Table("borrows").
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalBorrowed)
	s.db.WithContext(ctx).Table("borrows").
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(remaining_amount), 0)").
		Scan(&data.TotalOutstanding)

	// Repayment and interest totals
	s.db.WithContext(ctx).Table("repayments").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalRepaid)
	s.db.WithContext(ctx).Table("interest_entries").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.InterestCollected)
	s.db.WithContext(ctx).Table("pending_charges").
		Where("paid = ?", false).
		Select("COALESCE(SUM(interest), 0)").
		Scan(&data.InterestPending)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("interest_entries").
		Where("paid_date >= ?", startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.InterestThisMonth)
	s.db.WithContext(ctx).Table("repayments").
		Where("pay_date >= ?", startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.RepaymentsThisMonth)

	// Per currency breakdown
	s.db.WithContext(ctx).Table("borrows").
		Select("currencies.id as currency_id, currencies.code, currencies.symbol, SUM(CASE WHEN borrows.status = 'Open' THEN 1 ELSE 0 END) as open_borrows, COALESCE(SUM(borrows.remaining_amount), 0) as outstanding, COALESCE(SUM(borrows.amount), 0) as total_lent").
		Joins("JOIN currencies ON borrows.currency_id = currencies.id").
		Where("borrows.deleted_at IS NULL").
		Group("currencies.id, currencies.code, currencies.symbol").
		Order("currencies.code ASC").
		Scan(&data.Currencies)

	// Recent repayments
	s.db.WithContext(ctx).Table("repayments").
		Select("repayments.id as repayment_id, repayments.reference, repayments.borrow_id, users.username, currencies.code as currency_code, repayments.amount, repayments.pay_date").
		Joins("LEFT JOIN users ON repayments.user_id = users.id").
		Joins("LEFT JOIN currencies ON repayments.currency_id = currencies.id").
		Order("repayments.pay_date DESC").
		Limit(10).
		Scan(&data.RecentRepayments)

	return data, nil
}

package handlers

import (
	"fmt"
	"time"

	"borrowdesk/internal/core/services"
	"borrowdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// parseRange reads from/to query params, defaulting to the current month
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, err
		}
		// Inclusive end of day
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	return from, to, nil
}

// InterestReport returns the settled interest report
// @Summary Interest report
// @Description Get settled interest entries within a date range (Admin only)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /reports/interest [get]
func (h *ReportHandler) InterestReport(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	rows, err := h.reportService.InterestReport(c.Context(), from, to)
	if err != nil {
		return response.InternalServerError(c, "Failed to build interest report")
	}

	return response.Success(c, "Interest report retrieved successfully", fiber.Map{
		"from":  from,
		"to":    to,
		"rows":  rows,
		"count": len(rows),
	})
}

// RepaymentReport returns the repayment report
// @Summary Repayment report
// @Description Get repayments within a date range (Admin only)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /reports/repayments [get]
func (h *ReportHandler) RepaymentReport(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	rows, err := h.reportService.RepaymentReport(c.Context(), from, to)
	if err != nil {
		return response.InternalServerError(c, "Failed to build repayment report")
	}

	return response.Success(c, "Repayment report retrieved successfully", fiber.Map{
		"from":  from,
		"to":    to,
		"rows":  rows,
		"count": len(rows),
	})
}

// ProfitSeries returns aggregated settled interest
// @Summary Profit series
// @Description Get settled interest aggregated by day, week or month (Admin only)
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param granularity query string false "daily, weekly or monthly (default monthly)"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /reports/profit [get]
func (h *ReportHandler) ProfitSeries(c *fiber.Ctx) error {
	granularity := c.Query("granularity", "monthly")
	if granularity != "daily" && granularity != "weekly" && granularity != "monthly" {
		return response.BadRequest(c, "Invalid granularity, use daily, weekly or monthly")
	}

	from, to, err := parseRange(c)
	if err != nil {
		return response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	points, err := h.reportService.ProfitSeries(c.Context(), granularity, from, to)
	if err != nil {
		return response.InternalServerError(c, "Failed to build profit series")
	}

	return response.Success(c, "Profit series retrieved successfully", fiber.Map{
		"granularity": granularity,
		"from":        from,
		"to":          to,
		"points":      points,
	})
}

// ExportInterestReport exports the interest report as xlsx
// @Summary Export interest report
// @Description Download the settled interest report as an Excel file (Admin only)
// @Tags Reports
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /reports/interest/export [get]
func (h *ReportHandler) ExportInterestReport(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	rows, err := h.reportService.InterestReport(c.Context(), from, to)
	if err != nil {
		return response.InternalServerError(c, "Failed to build interest report")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Interest"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Entry ID", "Borrow ID", "Username", "Currency", "Amount", "Start Date", "End Date", "Paid Date"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		values := []interface{}{
			row.EntryID,
			row.BorrowID,
			row.Username,
			row.CurrencyCode,
			row.Amount,
			row.StartDate.Format("2006-01-02"),
			row.EndDate.Format("2006-01-02"),
			row.PaidDate.Format("2006-01-02"),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return response.InternalServerError(c, "Failed to write report file")
	}

	filename := fmt.Sprintf("interest_report_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// ExportRepaymentReport exports the repayment report as xlsx
// @Summary Export repayment report
// @Description Download the repayment report as an Excel file (Admin only)
// @Tags Reports
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /reports/repayments/export [get]
func (h *ReportHandler) ExportRepaymentReport(c *fiber.Ctx) error {
	from, to, err := parseRange(c)
	if err != nil {
		return response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	rows, err := h.reportService.RepaymentReport(c.Context(), from, to)
	if err != nil {
		return response.InternalServerError(c, "Failed to build repayment report")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Repayments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Repayment ID", "Reference", "Borrow ID", "Username", "Currency", "Amount", "Pay Date"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		values := []interface{}{
			row.RepaymentID,
			row.Reference,
			row.BorrowID,
			row.Username,
			row.CurrencyCode,
			row.Amount,
			row.PayDate.Format("2006-01-02 15:04:05"),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return response.InternalServerError(c, "Failed to write report file")
	}

	filename := fmt.Sprintf("repayment_report_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

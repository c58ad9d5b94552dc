package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"time"
	"unicode"

	"smartspend/internal/models"
	"smartspend/internal/repositories"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

var ErrUnsupportedReportFormat = errors.New("unsupported report format")

// pdfCurrencyFallback replaces currency symbols the core PDF fonts cannot draw.
const pdfCurrencyFallback = "Rs. "

type exportService struct {
	expenseRepo    repositories.ExpenseRepositoryInterface
	auditService   AuditServiceInterface
	auditLogger    AuditLoggerInterface
	archiver       ReportArchiverInterface
	metrics        MetricsRecorderInterface
	logger         *slog.Logger
	currencySymbol string
	now            func() time.Time
}

func NewExportService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	currencySymbol string,
	archiver ReportArchiverInterface,
) ExportServiceInterface {
	return &exportService{
		expenseRepo:    expenseRepo,
		auditService:   auditService,
		auditLogger:    auditLogger,
		archiver:       archiver,
		metrics:        metrics,
		logger:         logger,
		currencySymbol: currencySymbol,
		now:            time.Now,
	}
}

type exportRow struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type exportDocument struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Currency    string                `json:"currency"`
	Summary     models.ExpenseSummary `json:"summary"`
	Expenses    []exportRow           `json:"expenses"`
}

// Export writes every expense of the user, newest first, preceded by the dashboard summary.
// An empty format means CSV.
func (s *exportService) Export(userID uuid.UUID, format string, w io.Writer) (*models.ExportedReport, error) {
	if format == "" {
		format = models.ReportFormatCSV
	}
	if !models.IsValidReportFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedReportFormat, format)
	}

	start := time.Now()
	now := s.now()

	expenses, err := s.expenseRepo.GetAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	doc := exportDocument{
		GeneratedAt: now,
		Currency:    s.currencySymbol,
		Summary:     Summarize(expenses, now),
		Expenses:    make([]exportRow, 0, len(expenses)),
	}
	for i := range expenses {
		doc.Expenses = append(doc.Expenses, exportRow{
			Date:        expenses[i].Date.Format(models.DateLayout),
			Category:    expenses[i].Category,
			Amount:      expenses[i].Amount.StringFixed(2),
			Description: expenses[i].Description,
		})
	}

	cw := &countingWriter{w: w}
	switch format {
	case models.ReportFormatCSV:
		err = writeCSVReport(cw, &doc)
	case models.ReportFormatJSON:
		err = writeJSONReport(cw, &doc)
	case models.ReportFormatPDF:
		err = s.writePDFReport(cw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write %s report: %w", format, err)
	}

	report := &models.ExportedReport{
		Filename:    ReportFilename(format, now),
		ContentType: ReportContentType(format),
		Format:      format,
		Rows:        len(doc.Expenses),
		Bytes:       cw.n,
		GeneratedAt: now,
	}

	s.metrics.IncrementCounter("reports_exported", map[string]string{"format": format})
	s.metrics.RecordProcessingTime("export", time.Since(start))
	s.auditLogger.LogReportExported(context.Background(), userID, format, report.Rows, report.Bytes)
	if err := s.auditService.LogReportExported(userID, format, report.Rows, ""); err != nil {
		s.logger.Error("failed to audit report export", "user_id", userID, "error", err)
	}

	return report, nil
}

func (s *exportService) ArchivingEnabled() bool {
	return s.archiver != nil && s.archiver.Enabled()
}

// Archive uploads a rendered report under owner/filename and records the outcome.
// The archiver is shared by every caller, so repeated upload failures pause archiving
// for all of them.
func (s *exportService) Archive(ctx context.Context, userID uuid.UUID, owner string, report *models.ExportedReport, body []byte) (string, error) {
	if !s.ArchivingEnabled() {
		return "", ErrArchiveDisabled
	}

	start := time.Now()
	location, err := s.archiver.Archive(ctx, path.Join(owner, report.Filename), report.ContentType, body)
	if err != nil {
		s.auditLogger.LogReportArchiveFailed(ctx, userID, err.Error())
		return "", err
	}

	s.auditLogger.LogReportArchived(ctx, userID, location, time.Since(start).Milliseconds())
	if err := s.auditService.LogReportExported(userID, report.Format, report.Rows, location); err != nil {
		s.logger.Error("failed to audit report archive", "user_id", userID, "error", err)
	}

	return location, nil
}

// ReportFilename is the download name of a report generated at t.
func ReportFilename(format string, t time.Time) string {
	return "smartspend-expenses-" + t.Format("20060102") + "." + format
}

func ReportContentType(format string) string {
	switch format {
	case models.ReportFormatJSON:
		return "application/json"
	case models.ReportFormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

func writeCSVReport(w io.Writer, doc *exportDocument) error {
	writer := csv.NewWriter(w)

	summary := doc.Summary
	records := [][]string{
		{"Report", "SmartSpend expenses"},
		{"Generated", doc.GeneratedAt.Format(time.RFC3339)},
		{"Total", summary.TotalExpenses.StringFixed(2)},
		{"Count", strconv.FormatInt(summary.ExpenseCount, 10)},
		{"Average", summary.AverageExpense.StringFixed(2)},
		{"Top Category", summary.TopCategory},
		{},
		{"Date", "Category", "Amount", "Description"},
	}
	for _, row := range doc.Expenses {
		records = append(records, []string{row.Date, row.Category, row.Amount, row.Description})
	}

	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

func writeJSONReport(w io.Writer, doc *exportDocument) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("error encoding JSON data: %w", err)
	}
	return nil
}

func (s *exportService) writePDFReport(w io.Writer, doc *exportDocument) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	symbol := pdfCurrencySymbol(s.currencySymbol)
	money := func(amount string) string {
		return symbol + amount
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, "Generated by SmartSpend | "+doc.GeneratedAt.Format(models.DisplayDateLayout), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, "  SmartSpend expense report", "", 1, "L", true, 0, "")
	pdf.Ln(6)

	summary := doc.Summary
	pdf.SetTextColor(50, 50, 50)
	pdf.SetFont("Arial", "", 10)
	for _, line := range [][2]string{
		{"Total spent", money(summary.TotalExpenses.StringFixed(2))},
		{"Expenses", strconv.FormatInt(summary.ExpenseCount, 10)},
		{"Average expense", money(summary.AverageExpense.StringFixed(2))},
		{"This month", money(summary.MonthlyExpenses.StringFixed(2))},
		{"Last 30 days", money(summary.Last30Days.StringFixed(2))},
		{"Top category", summary.TopCategory},
	} {
		pdf.CellFormat(50, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{28, 35, 30, 97}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range []string{"Date", "Category", "Amount", "Description"} {
		pdf.CellFormat(widths[i], 7, header, "B", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range doc.Expenses {
		date, _ := time.Parse(models.DateLayout, row.Date)
		pdf.CellFormat(widths[0], 6, date.Format(models.DisplayDateLayout), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, row.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(money(row.Amount)), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, tr(truncateRunes(row.Description, 60)), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}

func pdfCurrencySymbol(symbol string) string {
	for _, r := range symbol {
		if r > unicode.MaxLatin1 {
			return pdfCurrencyFallback
		}
	}
	return symbol
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

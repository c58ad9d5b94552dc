package models

import "time"

const (
	ReportFormatCSV  = "csv"
	ReportFormatJSON = "json"
	ReportFormatPDF  = "pdf"
)

// ReportFormats lists the supported export formats
func ReportFormats() []string {
	return []string{ReportFormatCSV, ReportFormatJSON, ReportFormatPDF}
}

func IsValidReportFormat(format string) bool {
	for _, f := range ReportFormats() {
		if f == format {
			return true
		}
	}
	return false
}

// ExportedReport describes a report written by the export service.
type ExportedReport struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Format      string    `json:"format"`
	Rows        int       `json:"rows"`
	Bytes       int       `json:"bytes"`
	GeneratedAt time.Time `json:"generated_at"`
	Location    string    `json:"location,omitempty"`
}

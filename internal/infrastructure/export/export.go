// Package export renders tabular reports as Excel workbooks and PDF documents.
package export

import "time"

const (
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF   = "application/pdf"
)

// Table is a rendered report: one header row and any number of string rows.
type Table struct {
	Title       string
	GeneratedAt time.Time
	Headers     []string
	Rows        [][]string
}

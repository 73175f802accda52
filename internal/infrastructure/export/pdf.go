package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// PDF renders t as a landscape A4 document with the columns sharing the page
// width evenly. Cell text longer than the column is truncated.
func PDF(t Table) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := pageW - left - right
	if len(t.Headers) > 0 {
		colW /= float64(len(t.Headers))
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(47, 85, 151)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range t.Headers {
			pdf.CellFormat(colW, 7, tr(fit(pdf, h, colW)), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "L", false, 0, "")
	if !t.GeneratedAt.IsZero() {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, "Generated: "+t.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	header()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range t.Rows {
		if pdf.GetY()+6 > pageH-bottom {
			pdf.AddPage()
			header()
		}
		for i := range t.Headers {
			var v string
			if i < len(row) {
				v = row[i]
			}
			pdf.CellFormat(colW, 6, tr(fit(pdf, v, colW)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w-pad {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

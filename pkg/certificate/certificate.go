package certificate

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// ErrIncomplete recipient and event name are required.
var ErrIncomplete = errors.New("certificate: recipient and event are required")

// Data is everything printed on a participation certificate.
type Data struct {
	RegistrationID int64
	StudentName    string
	EventName      string
	EventDate      time.Time
}

// ID formats the printed certificate id, CEP- plus the registration id padded to six digits.
func ID(registrationID int64) string {
	return fmt.Sprintf("CEP-%06d", registrationID)
}

// Filename suggested download name.
func Filename(eventName string) string {
	return fmt.Sprintf("Certificate_%s.pdf", eventName)
}

// Render writes a one-page landscape A4 certificate to w.
func Render(w io.Writer, d Data) error {
	if strings.TrimSpace(d.StudentName) == "" || strings.TrimSpace(d.EventName) == "" {
		return ErrIncomplete
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate of Participation", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// borders
	pdf.SetLineWidth(1.0)
	pdf.SetDrawColor(50, 50, 100)
	pdf.Rect(10, 10, 277, 190, "D")
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(200, 150, 50)
	pdf.Rect(13, 13, 271, 184, "D")

	// heading
	pdf.SetY(25)
	pdf.SetFont("Times", "B", 30)
	pdf.SetTextColor(50, 50, 100)
	pdf.CellFormat(0, 10, "CAMPUS EVENT PORTAL UNIVERSITY", "", 1, "C", false, 0, "")

	pdf.SetY(45)
	pdf.SetFont("Times", "B", 40)
	pdf.SetTextColor(200, 150, 50)
	pdf.CellFormat(0, 15, "CERTIFICATE", "", 1, "C", false, 0, "")

	pdf.SetFont("Times", "", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "OF PARTICIPATION", "", 1, "C", false, 0, "")

	// body
	pdf.Ln(15)
	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(0, 10, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.Ln(5)
	pdf.SetFont("Times", "BI", 32)
	pdf.SetTextColor(50, 50, 100)
	pdf.CellFormat(0, 15, tr(d.StudentName), "", 1, "C", false, 0, "")

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "has successfully participated in the event", "", 1, "C", false, 0, "")

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 15, tr(strings.ToUpper(d.EventName)), "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, "Held on "+d.EventDate.Format("2006-01-02"), "", 1, "C", false, 0, "")

	// signatures and seal
	signature(pdf, 40, "Coordinator", "Event Coordinator")
	signature(pdf, 190, "Dr. Principal Name", "Dean of Students")

	pdf.SetDrawColor(200, 150, 50)
	pdf.SetLineWidth(0.5)
	pdf.Ellipse(148.5, 170, 15, 15, 0, "D")
	pdf.SetFont("Times", "B", 8)
	pdf.SetTextColor(200, 150, 50)
	pdf.SetXY(133.5, 165)
	pdf.CellFormat(30, 5, "OFFICIAL", "", 1, "C", false, 0, "")
	pdf.SetXY(133.5, 170)
	pdf.CellFormat(30, 5, "SEAL", "", 1, "C", false, 0, "")

	// footer
	pdf.SetY(-20)
	pdf.SetFont("Courier", "", 8)
	pdf.SetTextColor(150, 150, 150)
	footer := fmt.Sprintf("Certificate ID: %s | Verified by Campus Event Portal", ID(d.RegistrationID))
	pdf.CellFormat(0, 10, footer, "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("certificate: layout: %w", err)
	}
	return pdf.Output(w)
}

func signature(pdf *fpdf.Fpdf, x float64, name, title string) {
	pdf.SetY(-55)
	pdf.SetX(x)
	pdf.SetFont("Times", "I", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(60, 10, name, "", 1, "C", false, 0, "")
	pdf.SetX(x)
	pdf.CellFormat(60, 0, "__________________________", "", 1, "C", false, 0, "")
	pdf.SetX(x)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(60, 10, title, "", 0, "C", false, 0, "")
}

// Package report renders a vehicle's ledger and maintenance history as a
// downloadable document.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/adilzhm/garagelog/internal/due"
	"github.com/adilzhm/garagelog/internal/models"
)

// Format selects the output document type.
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

// ParseFormat validates a raw format string, defaulting to xlsx.
func ParseFormat(raw string) (Format, error) {
	switch raw {
	case "", string(FormatExcel):
		return FormatExcel, nil
	case string(FormatPDF):
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown report format %q", raw)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Generator renders reports. It holds no state; methods are safe for
// concurrent use.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the vehicle's history in the requested format.
func (g *Generator) Generate(v *models.Vehicle, format Format) ([]byte, error) {
	if format == FormatPDF {
		return g.pdf(v)
	}
	return g.excel(v)
}

// FileName builds a download name from the vehicle's plate and today's date.
func (g *Generator) FileName(v *models.Vehicle, format Format) string {
	plate := sanitizeFileName(v.Plate)
	if plate == "" {
		plate = v.ID
	}
	return fmt.Sprintf("vehicle-%s-%s.%s", plate, time.Now().Format("20060102"), format)
}

func dueLabel(isDue bool) string {
	if isDue {
		return "DUE"
	}
	return "ok"
}

func statusOf(v *models.Vehicle) due.Status {
	return due.Evaluate(v)
}

func formatDistance(d float64) string {
	return fmt.Sprintf("%.1f", d)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}

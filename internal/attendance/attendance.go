// Package attendance derives attending/not-attending/pending tallies from an
// event's response list and renders the spreadsheet export.
package attendance

import (
	"fmt"
	"io"
	"strings"

	"davet/internal/model"
)

// Status labels match what the roster sees on screen and in the export.
const (
	StatusAttending    = "Katılacak"
	StatusNotAttending = "Katılmayacak"
	StatusPending      = "Yanıt Bekliyor"
)

type Summary struct {
	Attending    int `json:"attending"`
	NotAttending int `json:"notAttending"`
	Pending      int `json:"pending"`
}

// Summarize counts roster responses into attending/not-attending buckets;
// everyone else on the roster is pending. Responses from employees outside
// the roster (deactivated after answering) are ignored, so the three buckets
// always sum to the roster size and pending can never go negative.
func Summarize(responses []model.Response, roster []model.Employee) Summary {
	members := make(map[int]bool, len(roster))
	for _, emp := range roster {
		members[emp.ID] = true
	}

	var s Summary
	for _, r := range responses {
		if !members[r.EmployeeID] {
			continue
		}
		if r.Attending {
			s.Attending++
		} else {
			s.NotAttending++
		}
	}
	s.Pending = len(roster) - s.Attending - s.NotAttending
	return s
}

// StatusFor returns the display status of a single employee.
func StatusFor(responses []model.Response, employeeID int) string {
	for _, r := range responses {
		if r.EmployeeID == employeeID {
			if r.Attending {
				return StatusAttending
			}
			return StatusNotAttending
		}
	}
	return StatusPending
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func escapeField(field string) string {
	return strings.ReplaceAll(field, `"`, `""`)
}

// WriteCSV writes the per-employee attendance sheet: a UTF-8 BOM so Excel
// picks up the Turkish characters, a title row, then one semicolon-separated
// row per roster employee.
func WriteCSV(w io.Writer, event *model.Event, roster []model.Employee) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\"%s - %s\"\n\n", escapeField(event.CompanyName), event.Date)
	b.WriteString("\"Ad Soyad\";\"Katılım Durumu\"\n")
	for _, emp := range roster {
		fmt.Fprintf(&b, "\"%s\";\"%s\"\n", escapeField(emp.Name), StatusFor(event.Responses, emp.ID))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// Filename builds the download name for an event's export: the company name
// upper-cased with underscores, then the visit date.
func Filename(companyName, date string) string {
	slug := strings.ToUpper(strings.Join(strings.Fields(companyName), "_"))
	if slug == "" {
		return fmt.Sprintf("davet_%s.csv", date)
	}
	return fmt.Sprintf("%s_davet_%s.csv", slug, date)
}

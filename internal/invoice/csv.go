package invoice

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"projecttracker/internal/model"
	"projecttracker/internal/service"
)

const dateLayout = "02-01-2006"

func money(v float64) string {
	return "€" + strconv.FormatFloat(v, 'f', 2, 64)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Slug lowercases a project name and collapses whitespace to hyphens, for
// filenames.
func Slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

func writeCSV(records [][]string) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	// Writer only errors on a broken io.Writer; strings.Builder never fails.
	_ = w.WriteAll(records)
	return sb.String()
}

// BundleCSV renders a billing bundle as the invoice CSV: one row per entry
// billed at the project rate, closed by the TOTAAL row. Amounts are rounded
// to two decimals only here, never during accumulation.
func BundleCSV(b service.BillingBundle) string {
	records := [][]string{
		{"Project", "Client", "Date", "Employee", "Description", "Hours", "Rate", "Amount"},
	}
	for _, e := range b.TimeEntries {
		records = append(records, []string{
			b.Project.Name,
			b.Project.Client,
			e.Date.Format(dateLayout),
			e.UserName,
			e.Description,
			number(e.Hours),
			money(b.Project.HourlyRate),
			money(e.Hours * b.Project.HourlyRate),
		})
	}
	records = append(records, []string{
		"", "", "", "", "TOTAAL", number(b.TotalHours), "", money(b.TotalAmount),
	})
	return writeCSV(records)
}

// BundleCSVFilename follows the factuur-<slug>-<ISO date>.csv pattern.
func BundleCSVFilename(projectName string, now time.Time) string {
	return "factuur-" + Slug(projectName) + "-" + now.Format("2006-01-02") + ".csv"
}

// EntriesCSV renders the time-tracking export. Values use the personal-first
// rate resolution, not the billing rate; admins get the extra Werknemer
// column.
func EntriesCSV(entries []model.TimeEntry, includeEmployee bool) string {
	header := []string{"Datum", "Project", "Klant", "Beschrijving", "Uren", "Uurtarief", "Waarde"}
	if includeEmployee {
		header = append(header, "Werknemer")
	}
	records := [][]string{header}
	for _, e := range entries {
		row := []string{
			e.Date.Format(dateLayout),
			e.ProjectName,
			e.ProjectClient,
			e.Description,
			number(e.Hours),
			money(service.EntryRate(e)),
			money(service.EntryValue(e)),
		}
		if includeEmployee {
			row = append(row, e.UserName)
		}
		records = append(records, row)
	}
	return writeCSV(records)
}

// EntriesCSVFilename follows the tijdregistratie_<ISO date>.csv pattern.
func EntriesCSVFilename(now time.Time) string {
	return "tijdregistratie_" + now.Format("2006-01-02") + ".csv"
}

package service

import (
	"strings"
	"time"

	"projecttracker/internal/model"
)

// BillingBundle is the aggregate the billing view and the invoice formatters
// consume. Totals are recomputed from entries on every read, never stored.
type BillingBundle struct {
	Project     model.Project     `json:"project"`
	TimeEntries []model.TimeEntry `json:"timeEntries"`
	TotalHours  float64           `json:"totalHours"`
	TotalAmount float64           `json:"totalAmount"`
}

// Totals sums hours and bills them at the project rate: the amount is the
// hour sum times the rate, in one multiplication, so it is exact for any
// grouping or order of the same entries. This is the billing-side rule; the
// time-tracking view uses EntryRate instead.
func Totals(entries []model.TimeEntry, projectRate float64) (hours, amount float64) {
	for _, e := range entries {
		hours += e.Hours
	}
	return hours, hours * projectRate
}

// EntryRate resolves the rate shown in the time-tracking value column:
// the logger's personal rate first, then the project rate, then the signup
// default. Deliberately independent from Totals, which always bills at the
// project rate — the two rules must not be unified.
func EntryRate(e model.TimeEntry) float64 {
	if e.UserHourlyRate > 0 {
		return e.UserHourlyRate
	}
	if e.ProjectHourlyRate > 0 {
		return e.ProjectHourlyRate
	}
	return model.DefaultUserRate
}

// EntryValue is the time-tracking display value of a single entry.
func EntryValue(e model.TimeEntry) float64 {
	return e.Hours * EntryRate(e)
}

// TotalValue sums EntryValue over the entries (time-tracking summary card).
func TotalValue(entries []model.TimeEntry) float64 {
	var total float64
	for _, e := range entries {
		total += EntryValue(e)
	}
	return total
}

// BuildBundle aggregates a project's entries into its billing bundle.
func BuildBundle(p model.Project, entries []model.TimeEntry) BillingBundle {
	hours, amount := Totals(entries, p.HourlyRate)
	return BillingBundle{
		Project:     p,
		TimeEntries: entries,
		TotalHours:  hours,
		TotalAmount: amount,
	}
}

// BuildBundles groups entries by project id and aggregates one bundle per
// project, preserving project order.
func BuildBundles(projects []model.Project, entries []model.TimeEntry) []BillingBundle {
	byProject := make(map[int][]model.TimeEntry, len(projects))
	for _, e := range entries {
		byProject[e.ProjectID] = append(byProject[e.ProjectID], e)
	}
	bundles := make([]BillingBundle, 0, len(projects))
	for _, p := range projects {
		bundles = append(bundles, BuildBundle(p, byProject[p.ID]))
	}
	return bundles
}

// EntryFilter narrows a set of time entries. Zero-valued fields are
// inactive; active conditions compose with AND.
type EntryFilter struct {
	Search    string    // case-insensitive substring over description, project, client and logger name
	UserID    int       // logger identity
	ProjectID int       // project identity
	From      time.Time // inclusive lower date bound
	To        time.Time // inclusive upper date bound
}

func (f EntryFilter) Match(e model.TimeEntry) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.ProjectName), q) &&
			!strings.Contains(strings.ToLower(e.ProjectClient), q) &&
			!strings.Contains(strings.ToLower(e.UserName), q) {
			return false
		}
	}
	if f.UserID != 0 && e.UserID != f.UserID {
		return false
	}
	if f.ProjectID != 0 && e.ProjectID != f.ProjectID {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	return true
}

// FilterEntries returns the entries matching the filter, in input order.
func FilterEntries(entries []model.TimeEntry, f EntryFilter) []model.TimeEntry {
	out := make([]model.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

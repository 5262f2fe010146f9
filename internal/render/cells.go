package render

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/issue-tracker/internal/model"
)

// Column headers in display order.
var Columns = []string{"ID", "Title", "Status", "Priority", "Assignee", "UpdatedAt"}

const (
	shortIDLen          = 8
	assigneePlaceholder = "N/A"
	invalidDate         = "Invalid Date"
)

// Accepted backend timestamp layouts, tried in order. Date-times without
// a zone are local to the display location; bare dates are UTC.
var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", false},
}

// ShortID returns the first 8 characters of id followed by an ellipsis.
// Shorter ids are kept whole, still followed by the ellipsis.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) > shortIDLen {
		r = r[:shortIDLen]
	}
	return string(r) + "..."
}

// AssigneeLabel returns the assignee, or N/A when unset or empty.
func AssigneeLabel(assignee *string) string {
	if assignee == nil || *assignee == "" {
		return assigneePlaceholder
	}
	return *assignee
}

// Formatter renders timestamps in a fixed location and layout.
type Formatter struct {
	Location *time.Location
	Layout   string
}

// NewFormatter returns a Formatter; a nil location means time.Local and
// an empty layout means the default en-US style layout.
func NewFormatter(loc *time.Location, layout string) Formatter {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = model.DefaultTimeLayout
	}
	return Formatter{Location: loc, Layout: layout}
}

// Timestamp parses a backend timestamp string and formats it for display.
// Strings that do not parse render as "Invalid Date".
func (f Formatter) Timestamp(s string) string {
	loc := f.location()
	for _, tl := range timestampLayouts {
		parseLoc := time.UTC
		if tl.local {
			parseLoc = loc
		}
		t, err := time.ParseInLocation(tl.layout, s, parseLoc)
		if err == nil {
			return t.In(loc).Format(f.layout())
		}
	}
	return invalidDate
}

// widestDates produce the longest numeric fields (Dec 31, 11 PM) and
// the longest month and weekday names for text layouts.
var widestDates = []time.Time{
	time.Date(2006, time.December, 31, 23, 59, 59, 999999999, time.UTC),
	time.Date(2006, time.September, 27, 23, 59, 59, 999999999, time.UTC),
}

// MaxWidth returns the widest cell Timestamp can produce with this
// layout, including the invalid-date text.
func (f Formatter) MaxWidth() int {
	w := lipgloss.Width(invalidDate)
	for _, d := range widestDates {
		wall := time.Date(d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), f.location())
		w = max(w, lipgloss.Width(wall.Format(f.layout())))
	}
	return w
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

func (f Formatter) layout() string {
	if f.Layout == "" {
		return model.DefaultTimeLayout
	}
	return f.Layout
}

// Row returns the six display cells for an issue, in Columns order.
func Row(issue model.Issue, f Formatter) []string {
	return []string{
		ShortID(issue.ID),
		issue.Title,
		string(issue.Status),
		string(issue.Priority),
		AssigneeLabel(issue.Assignee),
		f.Timestamp(issue.UpdatedAt),
	}
}

// Rows maps issues to display rows, preserving order.
func Rows(issues []model.Issue, f Formatter) [][]string {
	rows := make([][]string, len(issues))
	for i, issue := range issues {
		rows[i] = Row(issue, f)
	}
	return rows
}

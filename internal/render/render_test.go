package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nhle/issue-tracker/internal/model"
	"github.com/nhle/issue-tracker/tests/testutil"
)

func sampleIssues(t *testing.T) []model.Issue {
	t.Helper()
	var issues []model.Issue
	if err := json.Unmarshal([]byte(testutil.SampleIssuesJSON), &issues); err != nil {
		t.Fatalf("decoding sample issues: %v", err)
	}
	return issues
}

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"abcdef1234567890", "abcdef12..."},
		{"12345678", "12345678..."},
		{"3f2b9c1e-8d4a-4e7f-9a6b-1c2d3e4f5a6b", "3f2b9c1e..."},
		{"abc", "abc..."},
		{"", "..."},
	}

	for _, tt := range tests {
		if got := ShortID(tt.id); got != tt.want {
			t.Errorf("ShortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestAssigneeLabel(t *testing.T) {
	alice := "alice"
	empty := ""

	if got := AssigneeLabel(nil); got != "N/A" {
		t.Errorf("expected N/A for nil, got %q", got)
	}
	if got := AssigneeLabel(&empty); got != "N/A" {
		t.Errorf("expected N/A for empty, got %q", got)
	}
	if got := AssigneeLabel(&alice); got != "alice" {
		t.Errorf("expected alice, got %q", got)
	}
}

func TestFormatter_Timestamp(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		f    Formatter
		in   string
		want string
	}{
		{"utc default layout", NewFormatter(time.UTC, ""), "2024-01-02T00:00:00Z", "1/2/2024, 12:00:00 AM"},
		{"converted to zone", NewFormatter(tokyo, ""), "2024-01-02T00:00:00Z", "1/2/2024, 9:00:00 AM"},
		{"fractional seconds", NewFormatter(time.UTC, ""), "2024-03-05T14:07:09.123456Z", "3/5/2024, 2:07:09 PM"},
		{"offset input", NewFormatter(time.UTC, ""), "2024-01-02T02:00:00+02:00", "1/2/2024, 12:00:00 AM"},
		{"zoneless is local", NewFormatter(tokyo, ""), "2024-01-02T08:30:00", "1/2/2024, 8:30:00 AM"},
		{"custom layout", NewFormatter(time.UTC, time.DateTime), "2024-01-02T00:00:00Z", "2024-01-02 00:00:00"},
		{"garbage", NewFormatter(time.UTC, ""), "yesterday", "Invalid Date"},
		{"empty", NewFormatter(time.UTC, ""), "", "Invalid Date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Timestamp(tt.in); got != tt.want {
				t.Errorf("Timestamp(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRow_ConcreteScenario(t *testing.T) {
	issues := sampleIssues(t)

	got := Row(issues[0], NewFormatter(time.UTC, ""))

	want := []string{"abcdef12...", "Fix bug", "todo", "high", "N/A", "1/2/2024, 12:00:00 AM"}
	if len(got) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d (%s): expected %q, got %q", i, Columns[i], want[i], got[i])
		}
	}
}

func TestTable(t *testing.T) {
	// Arrange
	issues := []model.Issue{
		{ID: "11111111aaaa", Title: "First", Status: model.StatusTodo, Priority: model.PriorityLow, UpdatedAt: "2024-01-02T00:00:00Z"},
		{ID: "22222222bbbb", Title: "Second", Status: model.StatusDone, Priority: model.PriorityHigh, UpdatedAt: "2024-01-03T00:00:00Z"},
	}

	// Act
	out := Table(issues, NewFormatter(time.UTC, ""))

	// Assert
	for _, header := range Columns {
		if !strings.Contains(out, header) {
			t.Errorf("expected header %q in output:\n%s", header, out)
		}
	}
	first := strings.Index(out, "11111111...")
	second := strings.Index(out, "22222222...")
	if first < 0 || second < 0 {
		t.Fatalf("expected both ids in output:\n%s", out)
	}
	if first > second {
		t.Error("expected rows to keep server order")
	}
}

func TestTable_Empty(t *testing.T) {
	out := Table(nil, NewFormatter(time.UTC, ""))

	title := strings.Index(out, Title)
	msg := strings.Index(out, NoIssuesText)
	if title < 0 || msg < 0 {
		t.Fatalf("expected title and no-issues message, got:\n%s", out)
	}
	if title > msg {
		t.Error("expected title above the no-issues message")
	}
	if strings.Contains(out, "UpdatedAt") {
		t.Errorf("expected no table headers, got:\n%s", out)
	}
}

func TestFormatter_MaxWidth(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   int
	}{
		{"default layout", "", len("12/31/2006, 11:59:59 PM")},
		{"short date", "2006-01-02", len("Invalid Date")},
		{"month names", "Monday, January 2 2006", len("Wednesday, September 27 2006")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatter(time.UTC, tt.layout)

			if got := f.MaxWidth(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFormatter_MaxWidthCoversTimestamps(t *testing.T) {
	f := NewFormatter(time.UTC, "")

	for _, ts := range []string{"2024-12-31T23:59:59Z", "2024-10-10T10:10:10Z", "not a date"} {
		if w := len(f.Timestamp(ts)); w > f.MaxWidth() {
			t.Errorf("%s: cell width %d exceeds MaxWidth %d", ts, w, f.MaxWidth())
		}
	}
}

func TestHTML(t *testing.T) {
	// Arrange
	issues := sampleIssues(t)
	issues[0].Title = "<script>alert(1)</script>"
	buf := &bytes.Buffer{}

	// Act
	err := HTML(buf, issues, NewFormatter(time.UTC, ""))

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected a table element, got %q", out)
	}
	if strings.Count(out, "<tr>") != 2 {
		t.Errorf("expected header row and one body row, got %d rows", strings.Count(out, "<tr>"))
	}
	if !strings.Contains(out, "<td>abcdef12...</td>") {
		t.Errorf("expected truncated id cell, got %q", out)
	}
	if !strings.Contains(out, "<td>N/A</td>") {
		t.Errorf("expected assignee placeholder, got %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Error("expected title to be escaped")
	}
}

func TestHTML_Empty(t *testing.T) {
	buf := &bytes.Buffer{}

	if err := HTML(buf, []model.Issue{}, NewFormatter(time.UTC, "")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<table") {
		t.Error("expected no table element for zero issues")
	}
	if !strings.Contains(out, NoIssuesText) {
		t.Errorf("expected no-issues message, got %q", out)
	}
}

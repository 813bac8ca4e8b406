// Package report builds the training participation report: how many
// people signed up for each training event in the recent window.
package report

import (
	"sort"
	"time"

	"github.com/matehops/mateh/internal/baserow"
)

// submissionFormats are the timestamp layouts seen on registration rows,
// tried in order. The form builder changed its export format over time,
// so older rows carry the US-style layout.
var submissionFormats = []string{
	"1/2/2006 3:04PM",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
}

// ParseSubmissionTime parses a registration timestamp, first matching
// format wins. The second return is false when no format matches.
func ParseSubmissionTime(s string) (time.Time, bool) {
	for _, layout := range submissionFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Skipped records a registration row whose timestamp could not be
// parsed. Callers log these; they never abort the report.
type Skipped struct {
	RowID int64
	Value string
}

// Tally counts registrations per training name. Rows older than months
// before now are dropped; the comparison is at date granularity, so a
// registration on the cutoff day itself still counts.
func Tally(rows []*baserow.Row, trainingField, timeField string, now time.Time, months int) (map[string]int, []Skipped) {
	cutoff := monthsAgo(toDate(now), months)

	counts := make(map[string]int)
	var skipped []Skipped
	for _, row := range rows {
		raw := row.Str(timeField)
		ts, ok := ParseSubmissionTime(raw)
		if !ok {
			skipped = append(skipped, Skipped{RowID: row.ID, Value: raw})
			continue
		}
		if toDate(ts).Before(cutoff) {
			continue
		}
		counts[row.Str(trainingField)]++
	}
	return counts, skipped
}

// Line is one rendered report row.
type Line struct {
	Training string `json:"training"`
	Count    int    `json:"count"`
}

// Lines flattens counts sorted by training name for stable rendering.
func Lines(counts map[string]int) []Line {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]Line, len(names))
	for i, name := range names {
		lines[i] = Line{Training: name, Count: counts[name]}
	}
	return lines
}

// monthsAgo returns the date months before d, clamped to the last day
// of the target month (two months before May 31 is March 31, but two
// months before April 30 is the end of February).
func monthsAgo(d time.Time, months int) time.Time {
	y, m, day := d.Date()
	m -= time.Month(months)
	for m <= 0 {
		m += 12
		y--
	}
	if last := daysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// toDate truncates t to midnight UTC of its civil date.
func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matehops/mateh/internal/baserow"
)

func TestParseSubmissionTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			"iso with millis",
			"2025-06-05T12:56:10.630Z",
			time.Date(2025, 6, 5, 12, 56, 10, 630_000_000, time.UTC),
			true,
		},
		{
			"iso without millis",
			"2025-06-05T12:56:10Z",
			time.Date(2025, 6, 5, 12, 56, 10, 0, time.UTC),
			true,
		},
		{
			"us style",
			"6/5/2025 1:56PM",
			time.Date(2025, 6, 5, 13, 56, 0, 0, time.UTC),
			true,
		},
		{"garbage", "not-a-date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSubmissionTime(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseSubmissionTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseSubmissionTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTally(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	today := "2025-06-10T08:00:00Z"
	fourMonthsAgo := "2025-02-10T08:00:00Z"

	rows := []*baserow.Row{
		baserow.NewRow(1, map[string]any{"רישום לאירוע": "A", "Submission Time": today}),
		baserow.NewRow(2, map[string]any{"רישום לאירוע": "A", "Submission Time": today}),
		baserow.NewRow(3, map[string]any{"רישום לאירוע": "A", "Submission Time": fourMonthsAgo}),
		baserow.NewRow(4, map[string]any{"רישום לאירוע": "B", "Submission Time": today}),
	}

	counts, skipped := Tally(rows, "רישום לאירוע", "Submission Time", now, 2)
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}

	want := map[string]int{"A": 2, "B": 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("Tally() mismatch (-want +got):\n%s", diff)
	}
}

func TestTally_SkipsUnparseable(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	rows := []*baserow.Row{
		baserow.NewRow(7, map[string]any{"training": "A", "time": "yesterday-ish"}),
		baserow.NewRow(8, map[string]any{"training": "A", "time": "2025-06-09T10:00:00Z"}),
	}

	counts, skipped := Tally(rows, "training", "time", now, 2)

	want := map[string]int{"A": 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("Tally() mismatch (-want +got):\n%s", diff)
	}
	if len(skipped) != 1 || skipped[0].RowID != 7 || skipped[0].Value != "yesterday-ish" {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestTally_CutoffDayCounts(t *testing.T) {
	now := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	rows := []*baserow.Row{
		baserow.NewRow(1, map[string]any{"t": "A", "ts": "2025-04-10T00:30:00Z"}), // exactly on cutoff
		baserow.NewRow(2, map[string]any{"t": "A", "ts": "2025-04-09T23:59:59Z"}), // one day too old
	}

	counts, _ := Tally(rows, "t", "ts", now, 2)
	if counts["A"] != 1 {
		t.Errorf("counts[A] = %d, want 1", counts["A"])
	}
}

func TestMonthsAgo(t *testing.T) {
	tests := []struct {
		name   string
		d      time.Time
		months int
		want   time.Time
	}{
		{"plain", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 2, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)},
		{"year boundary", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), 2, time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)},
		{"clamp to february", time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), 2, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"clamp leap february", time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), 2, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"no clamp needed", time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), 2, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)},
		{"december wrap", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 2, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := monthsAgo(tt.d, tt.months)
			if !got.Equal(tt.want) {
				t.Errorf("monthsAgo(%v, %d) = %v, want %v", tt.d, tt.months, got, tt.want)
			}
		})
	}
}

func TestLines_Sorted(t *testing.T) {
	lines := Lines(map[string]int{"ג": 3, "א": 1, "ב": 2})

	want := []Line{{"א", 1}, {"ב", 2}, {"ג", 3}}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

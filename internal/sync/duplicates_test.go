package sync

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matehops/mateh/internal/baserow"
)

func TestFindDuplicates(t *testing.T) {
	rows := []*baserow.Row{
		baserow.NewRow(1, map[string]any{"phone": "0521111111", "name": "דנה לוי"}),
		baserow.NewRow(2, map[string]any{"phone": "0521111111", "name": "דנה לוי-כהן"}),
		baserow.NewRow(3, map[string]any{"phone": "0522222222", "name": "יוסי כהן"}),
		baserow.NewRow(4, map[string]any{"name": "בלי טלפון"}),
		baserow.NewRow(5, map[string]any{"name": "גם בלי"}),
	}

	got := FindDuplicates(rows, "phone", "name")
	want := map[string][]string{
		"0521111111": {"דנה לוי", "דנה לוי-כהן"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindDuplicates() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindDuplicates_NoGroups(t *testing.T) {
	rows := []*baserow.Row{
		baserow.NewRow(1, map[string]any{"phone": "0521111111", "name": "א"}),
		baserow.NewRow(2, map[string]any{"phone": "0522222222", "name": "ב"}),
	}

	if got := FindDuplicates(rows, "phone", "name"); len(got) != 0 {
		t.Errorf("FindDuplicates() = %v, want empty", got)
	}
}

func TestDuplicateActivists(t *testing.T) {
	sc := testSchema(t)
	cols := sc.Activists

	activists := &fakeTable{rows: []*baserow.Row{
		baserow.NewRow(1, map[string]any{cols.NormalizedPhone: "0521111111", cols.FullName: "דנה לוי"}),
		baserow.NewRow(2, map[string]any{cols.NormalizedPhone: "0521111111", cols.FullName: "דנה לוי"}),
	}}

	svc := newTestService(t, Tables{Activists: activists}, Deps{})
	got, err := svc.DuplicateActivists(context.Background())
	if err != nil {
		t.Fatalf("DuplicateActivists() error = %v", err)
	}

	want := map[string][]string{"0521111111": {"דנה לוי", "דנה לוי"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DuplicateActivists() mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateRegistrations(t *testing.T) {
	sc := testSchema(t)
	cols := sc.Registrations

	regs := &fakeTable{rows: []*baserow.Row{
		baserow.NewRow(1, map[string]any{cols.NormalizedPhone: "0521111111", cols.FullName: "דנה לוי"}),
		baserow.NewRow(2, map[string]any{cols.NormalizedPhone: "0521111111", cols.FullName: "דנה לוי"}),
		baserow.NewRow(3, map[string]any{cols.NormalizedPhone: "0523333333", cols.FullName: "רק פעם אחת"}),
	}}

	svc := newTestService(t, Tables{Registrations: regs}, Deps{})
	got, err := svc.DuplicateRegistrations(context.Background())
	if err != nil {
		t.Fatalf("DuplicateRegistrations() error = %v", err)
	}

	want := map[string][]string{"0521111111": {"דנה לוי", "דנה לוי"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DuplicateRegistrations() mismatch (-want +got):\n%s", diff)
	}
}

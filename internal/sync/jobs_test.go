package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matehops/mateh/internal/baserow"
)

func TestJobs_PipelineOrder(t *testing.T) {
	svc := newTestService(t, Tables{}, Deps{})

	var names []string
	for _, job := range svc.Jobs() {
		names = append(names, job.Name)
		if job.Description == "" {
			t.Errorf("job %q has no description", job.Name)
		}
	}

	want := []string{
		"validate-ids",
		"fill-emails",
		"fill-facebook",
		"fill-names",
		"fill-birthdays",
		"link-recruits",
		"ensure-uuids",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("job order (-want +got):\n%s", diff)
	}
}

func TestRun(t *testing.T) {
	sc := testSchema(t)
	cols := sc.Activists

	row := baserow.NewRow(1, map[string]any{cols.NationalID: "123456782"})
	activists := &fakeTable{rows: []*baserow.Row{row}}
	svc := newTestService(t, Tables{Activists: activists}, Deps{})

	res, err := svc.Run(context.Background(), "validate-ids", false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Job != "validate-ids" {
		t.Errorf("Result.Job = %q, want %q", res.Job, "validate-ids")
	}
	if res.Scanned != 1 || res.Updated != 1 {
		t.Errorf("Result = %+v, want Scanned 1 Updated 1", res)
	}
	if res.Duration < 0 {
		t.Errorf("Result.Duration = %v, want non-negative", res.Duration)
	}
	if got := row.Str(cols.IDValid); got != sc.Values.Yes {
		t.Errorf("id_valid = %q, want %q", got, sc.Values.Yes)
	}
}

func TestRun_UnknownJob(t *testing.T) {
	svc := newTestService(t, Tables{}, Deps{})

	_, err := svc.Run(context.Background(), "defragment-moon", false)
	if !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("Run() error = %v, want ErrUnknownJob", err)
	}
}

func TestRun_FailedJobKeepsName(t *testing.T) {
	sc := testSchema(t)

	// Two registration columns match the email fragment, so the fill
	// aborts on resolution.
	regs := &fakeTable{rows: []*baserow.Row{
		baserow.NewRow(101, map[string]any{
			sc.Registrations.EmailFragment:         "a@x.il",
			sc.Registrations.EmailFragment + " #2": "b@x.il",
		}),
	}}
	svc := newTestService(t, Tables{Registrations: regs, Activists: &fakeTable{}}, Deps{})

	res, err := svc.Run(context.Background(), "fill-emails", false)
	if err == nil {
		t.Fatal("Run() error = nil, want resolution failure")
	}
	if res.Job != "fill-emails" {
		t.Errorf("Result.Job = %q, want %q", res.Job, "fill-emails")
	}
}

func TestRun_FullReachesFills(t *testing.T) {
	sc := testSchema(t)
	cols := sc.Activists

	regs := &fakeTable{}
	activists := &fakeTable{rows: []*baserow.Row{
		baserow.NewRow(1, map[string]any{cols.NormalizedPhone: "0521111111", cols.Email: "a@x.il"}),
	}}
	svc := newTestService(t, Tables{Activists: activists, Registrations: regs}, Deps{})

	if _, err := svc.Run(context.Background(), "fill-emails", true); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if hasFilter(activists.lastFilters(), baserow.Empty(cols.Email)) {
		t.Errorf("full run filtered on empty target, got %v", activists.lastFilters())
	}
}

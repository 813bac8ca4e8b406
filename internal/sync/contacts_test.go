package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/matehops/mateh/internal/baserow"
)

func TestEnsureUUIDs(t *testing.T) {
	sc := testSchema(t)
	cols := sc.Activists

	first := baserow.NewRow(1, map[string]any{cols.FullName: "דנה לוי"})
	second := baserow.NewRow(2, map[string]any{cols.FullName: "יוסי כהן"})
	tagged := baserow.NewRow(3, map[string]any{cols.UUID: uuid.NewString()})
	activists := &fakeTable{rows: []*baserow.Row{first, second, tagged}}

	svc := newTestService(t, Tables{Activists: activists}, Deps{})
	res, err := svc.EnsureUUIDs(context.Background())
	if err != nil {
		t.Fatalf("EnsureUUIDs() error = %v", err)
	}

	if res.Scanned != 2 || res.Updated != 2 {
		t.Errorf("Result = %+v, want Scanned 2 Updated 2", res)
	}
	u1, u2 := first.Str(cols.UUID), second.Str(cols.UUID)
	if uuid.Validate(u1) != nil || uuid.Validate(u2) != nil {
		t.Errorf("assigned uuids %q, %q are not valid", u1, u2)
	}
	if u1 == u2 {
		t.Errorf("rows share uuid %q", u1)
	}
	if !hasFilter(activists.lastFilters(), baserow.Empty(cols.UUID)) {
		t.Errorf("missing empty uuid filter, got %v", activists.lastFilters())
	}
}

func TestContactsPendingSave(t *testing.T) {
	sc := testSchema(t)
	cols := sc.Activists

	id := uuid.NewString()
	pending := baserow.NewRow(1, map[string]any{
		cols.FullName:        "דנה לוי",
		cols.Phone:           "052-111-1111",
		cols.NormalizedPhone: "0521111111",
		cols.SavedAsContact:  false,
		cols.Clearance:       sc.Values.ClearancePrefix + "מלא",
		cols.UUID:            id,
	})
	saved := baserow.NewRow(2, map[string]any{
		cols.FullName:       "כבר שמור",
		cols.Phone:          "052-222-2222",
		cols.SavedAsContact: true,
		cols.Clearance:      sc.Values.ClearancePrefix + "מלא",
	})
	uncleared := baserow.NewRow(3, map[string]any{
		cols.FullName:       "בלי סיווג",
		cols.Phone:          "052-333-3333",
		cols.SavedAsContact: false,
	})
	activists := &fakeTable{rows: []*baserow.Row{pending, saved, uncleared}}

	svc := newTestService(t, Tables{Activists: activists}, Deps{})
	got, err := svc.ContactsPendingSave(context.Background())
	if err != nil {
		t.Fatalf("ContactsPendingSave() error = %v", err)
	}

	want := []Contact{{
		Name:  "דנה לוי " + sc.Values.ContactTag + " (" + id + ")",
		Phone: "0521111111",
		UUID:  id,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ContactsPendingSave() mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkContactSaved(t *testing.T) {
	sc := testSchema(t)
	cols := sc.Activists

	id := uuid.NewString()
	row := baserow.NewRow(1, map[string]any{
		cols.UUID:           id,
		cols.SavedAsContact: false,
	})
	activists := &fakeTable{rows: []*baserow.Row{row}}
	svc := newTestService(t, Tables{Activists: activists}, Deps{})

	if err := svc.MarkContactSaved(context.Background(), id); err != nil {
		t.Fatalf("MarkContactSaved() error = %v", err)
	}
	if !row.Bool(cols.SavedAsContact) {
		t.Error("saved-as-contact flag still off")
	}
	if got := activists.updates(); len(got) != 1 || got[0] != 1 {
		t.Errorf("updated rows = %v, want [1]", got)
	}
}

func TestMarkContactSaved_UnknownUUID(t *testing.T) {
	activists := &fakeTable{}
	svc := newTestService(t, Tables{Activists: activists}, Deps{})

	err := svc.MarkContactSaved(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("MarkContactSaved() error = %v, want ErrContactNotFound", err)
	}
}

func TestMarkContactSaved_MalformedUUID(t *testing.T) {
	activists := &fakeTable{}
	svc := newTestService(t, Tables{Activists: activists}, Deps{})

	err := svc.MarkContactSaved(context.Background(), "not-a-uuid")
	if !errors.Is(err, ErrInvalidContactID) {
		t.Fatalf("MarkContactSaved() error = %v, want ErrInvalidContactID", err)
	}
	if activists.fetchCount() != 0 {
		t.Error("table queried for a malformed uuid")
	}
}

package sync

// sync_test.go holds the in-memory table fake and fixture helpers
// shared by the operation tests.

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/matehops/mateh/internal/baserow"
	"github.com/matehops/mateh/internal/logging"
	"github.com/matehops/mateh/internal/schema"
)

// fakeTable is an in-memory Table. It applies the string-valued filter
// operators the way the remote store would and records every call so
// tests can assert which filters an operation requested. Filters it
// cannot evaluate locally (single_select_equal works on option ids, not
// labels) are recorded and ignored.
type fakeTable struct {
	mu sync.Mutex

	rows    []*baserow.Row
	calls   [][]baserow.Filter
	updated []int64

	failIDs map[int64]bool // row ids whose Update fails
	rowsErr error
}

func (f *fakeTable) Rows(_ context.Context, filters ...baserow.Filter) ([]*baserow.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, filters)
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}

	var out []*baserow.Row
	for _, row := range f.rows {
		if matchesAll(row, filters) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeTable) Get(_ context.Context, rowID int64) (*baserow.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.ID == rowID {
			return row, nil
		}
	}
	return nil, baserow.ErrNotFound
}

func (f *fakeTable) Update(_ context.Context, row *baserow.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failIDs[row.ID] {
		return baserow.ErrNotFound
	}
	f.updated = append(f.updated, row.ID)
	row.ClearChanges()
	return nil
}

// updates returns a copy of the updated-row id log.
func (f *fakeTable) updates() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.updated...)
}

// fetchCount returns how many Rows calls the table has seen.
func (f *fakeTable) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// lastFilters returns the filters of the most recent Rows call.
func (f *fakeTable) lastFilters() []baserow.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func matchesAll(row *baserow.Row, filters []baserow.Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case baserow.OpEmpty:
			if row.Str(f.Field) != "" {
				return false
			}
		case baserow.OpNotEmpty:
			if row.Str(f.Field) == "" {
				return false
			}
		case baserow.OpEqual:
			if row.Str(f.Field) != f.Value {
				return false
			}
		case baserow.OpNotEqual:
			if row.Str(f.Field) == f.Value {
				return false
			}
		case baserow.OpContains:
			if !strings.Contains(row.Str(f.Field), f.Value) {
				return false
			}
		}
	}
	return true
}

// hasFilter reports whether filters contains an entry equal to want.
func hasFilter(filters []baserow.Filter, want baserow.Filter) bool {
	for _, f := range filters {
		if f == want {
			return true
		}
	}
	return false
}

// testSchema loads the embedded production column mapping.
func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sc, err := schema.Load("")
	if err != nil {
		t.Fatalf("schema.Load() error = %v", err)
	}
	return sc
}

// newTestService wires a Service over fake tables with logging discarded.
func newTestService(t *testing.T, tables Tables, deps Deps) *Service {
	t.Helper()
	return New(tables, testSchema(t), deps, logging.Discard())
}

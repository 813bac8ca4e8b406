// Package sync implements the reconciliation operations that keep the
// activist base coherent: ID validation, cross-table field fills keyed
// by normalized phone number, recruitment linking, duplicate detection,
// contact export and the training participation report.
//
// Every operation is a linear scan: fetch the relevant rows (the table
// client materializes the full result), derive values per row, write
// changed fields back. A failed write on one row is logged and the scan
// moves on; nothing is retried. The only hard stops are schema
// mismatches, which abort an operation before any row is touched.
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/matehops/mateh/internal/baserow"
	"github.com/matehops/mateh/internal/lookup"
	"github.com/matehops/mateh/internal/schema"
)

// Table is the slice of the Baserow client the operations use.
// *baserow.Table implements it; tests substitute in-memory fakes.
type Table interface {
	Rows(ctx context.Context, filters ...baserow.Filter) ([]*baserow.Row, error)
	Get(ctx context.Context, rowID int64) (*baserow.Row, error)
	Update(ctx context.Context, row *baserow.Row) error
}

// Tables bundles the three tables every operation may touch.
type Tables struct {
	Activists     Table
	Registrations Table
	Recruitment   Table
}

// PhoneLookup answers phone-number queries against the leaked profile
// database. *lookup.PhoneDB implements it.
type PhoneLookup interface {
	LookupPhone(ctx context.Context, phone string) ([]string, error)
}

// Deps holds the optional external collaborators. A nil field disables
// the fills that depend on it: no phone database means FillFacebook
// merges registration data only, no engines make FillNames a no-op.
type Deps struct {
	Rishumon lookup.Directory
	Elector  lookup.Directory
	PhoneDB  PhoneLookup
}

// Service runs the reconciliation operations against the shared base.
type Service struct {
	tables Tables
	schema *schema.Schema
	deps   Deps
	log    *slog.Logger
}

// New creates a Service. logger may be nil, in which case the process
// default is used.
func New(tables Tables, sc *schema.Schema, deps Deps, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tables: tables,
		schema: sc,
		deps:   deps,
		log:    logger,
	}
}

// Result is the aggregate outcome of one operation run. Failed counts
// rows whose update was rejected by the remote store; their errors are
// logged when they happen and not collected here.
type Result struct {
	Job      string        `json:"job,omitempty"`
	Scanned  int           `json:"scanned"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"-"`
}

// updateSafe persists a row's staged changes. Failures are logged and
// counted but never abort the caller's scan.
func (s *Service) updateSafe(ctx context.Context, t Table, row *baserow.Row, res *Result) {
	if !row.Changed() {
		return
	}
	if err := t.Update(ctx, row); err != nil {
		res.Failed++
		s.log.Error("row update failed", "row_id", row.ID, "error", err)
		return
	}
	res.Updated++
}

// valueSeparator joins multi-value cells; existing cell content is
// split on it when merging.
const valueSeparator = " , "

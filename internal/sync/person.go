package sync

import (
	"context"
	"fmt"

	"github.com/matehops/mateh/internal/baserow"
	"github.com/matehops/mateh/internal/idnum"
	"github.com/matehops/mateh/internal/lookup"
)

// FillNames resolves activists' registry names from their identity
// numbers. Each configured engine fills its own name column: Rishumon
// into the rishumon-name field, Elector into the elector-name field.
// Rows whose identity number does not validate are skipped. When an
// engine has no record for the number, the not-found marker is written
// so the row is not queried again on the next run.
//
// With a single engine configured the scan covers only rows whose name
// column for that engine is still empty; with both, every row holding
// an identity number is scanned. With neither the operation is a no-op.
func (s *Service) FillNames(ctx context.Context) (Result, error) {
	cols := s.schema.Activists

	type engine struct {
		dir   lookup.Directory
		field string
	}
	engines := []engine{
		{s.deps.Rishumon, cols.RishumonName},
		{s.deps.Elector, cols.ElectorName},
	}

	filters := []baserow.Filter{baserow.NotEmpty(cols.NationalID)}
	switch {
	case s.deps.Rishumon != nil && s.deps.Elector == nil:
		filters = append(filters, baserow.Empty(cols.RishumonName))
	case s.deps.Rishumon == nil && s.deps.Elector != nil:
		filters = append(filters, baserow.Empty(cols.ElectorName))
	case s.deps.Rishumon == nil && s.deps.Elector == nil:
		return Result{}, nil
	}

	rows, err := s.tables.Activists.Rows(ctx, filters...)
	if err != nil {
		return Result{}, fmt.Errorf("fetch activists: %w", err)
	}

	var res Result
	for _, row := range rows {
		res.Scanned++
		id := row.Str(cols.NationalID)
		if !idnum.Valid(id) {
			s.log.Debug("skipping row with unvalidated identity number", "row_id", row.ID)
			continue
		}

		for _, eng := range engines {
			if eng.dir == nil {
				continue
			}
			persons, err := eng.dir.LookupID(ctx, id)
			if err != nil {
				return res, fmt.Errorf("lookup id for row %d: %w", row.ID, err)
			}

			name := s.schema.Values.NotFound
			if len(persons) > 0 {
				name = persons[0].FullName()
			}
			if row.Str(eng.field) == name {
				continue
			}
			row.Set(eng.field, name)
			s.updateSafe(ctx, s.tables.Activists, row, &res)
		}
	}
	return res, nil
}

// FillBirthdays writes the registry birth date of every activist whose
// Rishumon name lookup already succeeded and whose identity number is
// marked valid. The registry returns dates as 8-digit YYYYMMDD strings;
// they are stored as YYYY-MM-DD. Malformed registry dates are logged
// and skipped. A no-op when the Rishumon engine is not configured.
func (s *Service) FillBirthdays(ctx context.Context) (Result, error) {
	if s.deps.Rishumon == nil {
		return Result{}, nil
	}
	cols := s.schema.Activists

	rows, err := s.tables.Activists.Rows(ctx,
		baserow.NotEqual(cols.RishumonName, s.schema.Values.NotFound),
		baserow.SingleSelectEqual(cols.IDValid, s.schema.Values.IDValidYesOption),
	)
	if err != nil {
		return Result{}, fmt.Errorf("fetch activists: %w", err)
	}

	var res Result
	for _, row := range rows {
		res.Scanned++
		id := row.Str(cols.NationalID)

		persons, err := s.deps.Rishumon.LookupID(ctx, id)
		if err != nil {
			return res, fmt.Errorf("lookup id for row %d: %w", row.ID, err)
		}
		if len(persons) == 0 {
			continue
		}

		birth, ok := formatBirthDate(persons[0].BirthDate)
		if !ok {
			s.log.Warn("skipping malformed registry birth date",
				"row_id", row.ID, "value", persons[0].BirthDate)
			continue
		}
		if row.Str(cols.RishumonBirthdate) == birth {
			continue
		}
		row.Set(cols.RishumonBirthdate, birth)
		s.updateSafe(ctx, s.tables.Activists, row, &res)
	}
	return res, nil
}

// formatBirthDate converts an 8-digit YYYYMMDD string to YYYY-MM-DD.
func formatBirthDate(bd string) (string, bool) {
	if len(bd) != 8 {
		return "", false
	}
	for i := 0; i < len(bd); i++ {
		if bd[i] < '0' || bd[i] > '9' {
			return "", false
		}
	}
	return bd[0:4] + "-" + bd[4:6] + "-" + bd[6:8], true
}

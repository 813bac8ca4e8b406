package sync

import (
	"context"
	"fmt"

	"github.com/matehops/mateh/internal/baserow"
	"github.com/matehops/mateh/internal/idnum"
)

// ValidateIDs checks the identity number of every activist that has one
// but has not been validated yet, and writes the result into the
// id-valid select field. Malformed numbers (wrong length, non-digits)
// are logged and skipped; they leave the select untouched so the row is
// picked up again once the number is corrected.
func (s *Service) ValidateIDs(ctx context.Context) (Result, error) {
	cols := s.schema.Activists
	rows, err := s.tables.Activists.Rows(ctx,
		baserow.Empty(cols.IDValid),
		baserow.NotEmpty(cols.NationalID),
	)
	if err != nil {
		return Result{}, fmt.Errorf("fetch activists: %w", err)
	}

	var res Result
	for _, row := range rows {
		res.Scanned++
		id := row.Str(cols.NationalID)

		digit, err := idnum.CheckDigit(id)
		if err != nil {
			s.log.Error("skipping malformed identity number",
				"row_id", row.ID, "name", row.Str(cols.FullName), "error", err)
			continue
		}

		if digit == 0 {
			row.Set(cols.IDValid, s.schema.Values.Yes)
		} else {
			s.log.Info("invalid identity number",
				"row_id", row.ID, "name", row.Str(cols.FullName), "remainder", digit)
			row.Set(cols.IDValid, s.schema.Values.No)
		}
		s.updateSafe(ctx, s.tables.Activists, row, &res)
	}
	return res, nil
}

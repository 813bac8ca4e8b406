package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/matehops/mateh/internal/baserow"
)

// LinkRecruitment marks every activist with a phone number as a team
// candidate or not, depending on whether the recruitment table has a
// row with the same phone, and points the matching recruitment row back
// at the activist through its link field. The two writes are
// independent; a failure on one side does not roll back the other.
//
// Recruitment rows are keyed by their trimmed phone field. When several
// share a phone, the last one fetched wins the back-reference.
func (s *Service) LinkRecruitment(ctx context.Context) (Result, error) {
	recRows, err := s.tables.Recruitment.Rows(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch recruitment rows: %w", err)
	}

	byPhone := make(map[string]*baserow.Row, len(recRows))
	for _, rec := range recRows {
		byPhone[strings.TrimSpace(rec.Str(s.schema.Recruitment.Phone))] = rec
	}

	rows, err := s.tables.Activists.Rows(ctx,
		baserow.NotEmpty(s.schema.Activists.NormalizedPhone))
	if err != nil {
		return Result{}, fmt.Errorf("fetch activists: %w", err)
	}

	var res Result
	for _, row := range rows {
		res.Scanned++
		phone := row.Str(s.schema.Activists.NormalizedPhone)

		candidate := s.schema.Values.No
		if rec, ok := byPhone[phone]; ok {
			candidate = s.schema.Values.Yes
			rec.Set(s.schema.Recruitment.Activists, []int64{row.ID})
			s.updateSafe(ctx, s.tables.Recruitment, rec, &res)
		}

		if row.Str(s.schema.Activists.Candidate) != candidate {
			row.Set(s.schema.Activists.Candidate, candidate)
		}
		s.updateSafe(ctx, s.tables.Activists, row, &res)
	}
	return res, nil
}

package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/matehops/mateh/internal/baserow"
	"github.com/matehops/mateh/internal/schema"
)

// supplementFunc fetches extra values for a phone number from a source
// outside the base, merged into the fill alongside registration data.
type supplementFunc func(ctx context.Context, phone string) ([]string, error)

// FillEmails copies email addresses from event registrations onto the
// matching activists, joining on the normalized phone number. With full
// set, activists whose email field is already populated are reprocessed
// too; otherwise only empty fields are filled.
func (s *Service) FillEmails(ctx context.Context, full bool) (Result, error) {
	return s.fillFromRegistrations(ctx,
		s.schema.Registrations.EmailFragment, s.schema.Activists.Email, full, nil)
}

// FillFacebook copies facebook profiles from event registrations onto
// the matching activists. When the leaked phone database is configured,
// profile ids found there are merged in as well.
func (s *Service) FillFacebook(ctx context.Context, full bool) (Result, error) {
	var supplement supplementFunc
	if s.deps.PhoneDB != nil {
		supplement = s.deps.PhoneDB.LookupPhone
	}
	return s.fillFromRegistrations(ctx,
		s.schema.Registrations.FacebookFragment, s.schema.Activists.Facebook, full, supplement)
}

// fillFromRegistrations is the shared phone-join fill. It builds a
// phone → values index over the whole registrations table, then walks
// the targeted activists merging index values, supplementary lookup
// results and the cell's existing content. Values already present are
// never dropped; duplicates and empties are.
//
// The source column is located by name fragment and must match exactly
// one registration column; a failed resolution aborts the operation
// before any row is written (schema mismatch, not row data).
func (s *Service) fillFromRegistrations(ctx context.Context, sourceFragment, targetField string, full bool, supplement supplementFunc) (Result, error) {
	regRows, err := s.tables.Registrations.Rows(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch registrations: %w", err)
	}

	byPhone, err := s.phoneIndex(regRows, sourceFragment)
	if err != nil {
		return Result{}, err
	}

	filters := []baserow.Filter{baserow.NotEmpty(s.schema.Activists.NormalizedPhone)}
	if !full {
		filters = append(filters, baserow.Empty(targetField))
	}
	rows, err := s.tables.Activists.Rows(ctx, filters...)
	if err != nil {
		return Result{}, fmt.Errorf("fetch activists: %w", err)
	}

	var res Result
	for _, row := range rows {
		res.Scanned++
		phone := row.Str(s.schema.Activists.NormalizedPhone)

		if supplement != nil {
			extra, err := supplement(ctx, phone)
			if err != nil {
				return res, fmt.Errorf("supplementary lookup for %s: %w", phone, err)
			}
			byPhone[phone] = append(byPhone[phone], extra...)
		}

		if current := row.Str(targetField); current != "" {
			byPhone[phone] = append(byPhone[phone], strings.Split(current, valueSeparator)...)
		}

		byPhone[phone] = dedupe(byPhone[phone])
		merged := strings.Join(byPhone[phone], valueSeparator)
		if merged == "" || merged == row.Str(targetField) {
			continue
		}

		s.log.Info("filling field", "row_id", row.ID, "field", targetField, "values", len(byPhone[phone]))
		row.Set(targetField, merged)
		s.updateSafe(ctx, s.tables.Activists, row, &res)
	}
	return res, nil
}

// phoneIndex maps each normalized phone number seen on the given rows
// to the non-empty values of the column matching sourceFragment. The
// column is resolved once against the live column set.
func (s *Service) phoneIndex(rows []*baserow.Row, sourceFragment string) (map[string][]string, error) {
	index := make(map[string][]string)
	if len(rows) == 0 {
		return index, nil
	}

	source, err := schema.ResolveColumn(rows[0].Columns(), sourceFragment)
	if err != nil {
		return nil, fmt.Errorf("resolve registration column: %w", err)
	}

	for _, row := range rows {
		value := row.Str(source)
		if value == "" {
			continue
		}
		phone := row.Str(s.schema.Registrations.NormalizedPhone)
		index[phone] = append(index[phone], value)
	}
	return index, nil
}

// dedupe trims each value and drops repeats and empties, keeping the
// first occurrence's position.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

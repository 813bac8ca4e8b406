package sync

import (
	"context"
	"fmt"

	"github.com/matehops/mateh/internal/baserow"
)

// FindDuplicates groups rows by normalized phone number and returns the
// groups holding two or more entries, mapping the shared phone to the
// name-field values of its rows. Rows without a phone number cannot be
// duplicates of anything and are ignored. The order of names within a
// group is not guaranteed.
func FindDuplicates(rows []*baserow.Row, phoneField, nameField string) map[string][]string {
	byPhone := make(map[string][]string)
	for _, row := range rows {
		phone := row.Str(phoneField)
		if phone == "" {
			continue
		}
		byPhone[phone] = append(byPhone[phone], row.Str(nameField))
	}

	for phone, names := range byPhone {
		if len(names) < 2 {
			delete(byPhone, phone)
		}
	}
	return byPhone
}

// DuplicateActivists reports activists sharing a phone number.
func (s *Service) DuplicateActivists(ctx context.Context) (map[string][]string, error) {
	rows, err := s.tables.Activists.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch activists: %w", err)
	}
	return FindDuplicates(rows, s.schema.Activists.NormalizedPhone, s.schema.Activists.FullName), nil
}

// DuplicateRegistrations reports event registrations sharing a phone
// number, typically the same person signing up for several trainings.
func (s *Service) DuplicateRegistrations(ctx context.Context) (map[string][]string, error) {
	rows, err := s.tables.Registrations.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch registrations: %w", err)
	}
	return FindDuplicates(rows, s.schema.Registrations.NormalizedPhone, s.schema.Registrations.FullName), nil
}

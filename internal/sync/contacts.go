package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/matehops/mateh/internal/baserow"
)

// Contact lookup errors. ErrContactNotFound means no activist row
// carries the given UUID; ErrInvalidContactID means the id is not a
// UUID at all and the table was never queried.
var (
	ErrContactNotFound  = errors.New("sync: contact not found")
	ErrInvalidContactID = errors.New("sync: invalid contact uuid")
)

// Contact is one activist prepared for export to a phone's address
// book. Name embeds the organization tag and the row's UUID so a saved
// contact can be traced back to the base.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	UUID  string `json:"uuid"`
}

// EnsureUUIDs assigns a fresh UUID to every activist row missing one.
// The UUID column is what contact export and MarkContactSaved key on,
// so this runs before either of them is useful.
func (s *Service) EnsureUUIDs(ctx context.Context) (Result, error) {
	rows, err := s.tables.Activists.Rows(ctx, baserow.Empty(s.schema.Activists.UUID))
	if err != nil {
		return Result{}, fmt.Errorf("fetch activists: %w", err)
	}

	var res Result
	for _, row := range rows {
		res.Scanned++
		row.Set(s.schema.Activists.UUID, uuid.NewString())
		s.updateSafe(ctx, s.tables.Activists, row, &res)
	}
	return res, nil
}

// ContactsPendingSave lists the activists that should be saved to the
// organizer's contacts but have not been yet: they have a phone number,
// passed vetting, and their saved-as-contact flag is still off.
func (s *Service) ContactsPendingSave(ctx context.Context) ([]Contact, error) {
	cols := s.schema.Activists
	rows, err := s.tables.Activists.Rows(ctx,
		baserow.NotEmpty(cols.Phone),
		baserow.Equal(cols.SavedAsContact, "false"),
		baserow.Contains(cols.Clearance, s.schema.Values.ClearancePrefix),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch activists: %w", err)
	}

	contacts := make([]Contact, 0, len(rows))
	for _, row := range rows {
		id := row.Str(cols.UUID)
		contacts = append(contacts, Contact{
			Name:  fmt.Sprintf("%s %s (%s)", row.Str(cols.FullName), s.schema.Values.ContactTag, id),
			Phone: row.Str(cols.NormalizedPhone),
			UUID:  id,
		})
	}
	return contacts, nil
}

// MarkContactSaved flips the saved-as-contact flag on the activist row
// whose UUID column matches id. Returns ErrContactNotFound when no row
// matches.
func (s *Service) MarkContactSaved(ctx context.Context, id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidContactID, id)
	}

	rows, err := s.tables.Activists.Rows(ctx,
		baserow.Equal(s.schema.Activists.UUID, id))
	if err != nil {
		return fmt.Errorf("fetch activists: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: uuid %s", ErrContactNotFound, id)
	}

	for _, row := range rows {
		row.Set(s.schema.Activists.SavedAsContact, true)
		if err := s.tables.Activists.Update(ctx, row); err != nil {
			return fmt.Errorf("mark contact %s saved: %w", id, err)
		}
	}
	return nil
}

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/matehops/mateh/internal/report"
)

// trainingWindowMonths is how far back the participation report reaches.
const trainingWindowMonths = 2

// TrainingCounts tallies recent event registrations per training name.
// Registrations whose submission timestamp cannot be parsed are logged
// and left out of the count.
func (s *Service) TrainingCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.tables.Registrations.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch registrations: %w", err)
	}

	counts, skipped := report.Tally(rows,
		s.schema.Registrations.Training,
		s.schema.Registrations.SubmissionTime,
		time.Now(), trainingWindowMonths)
	for _, sk := range skipped {
		s.log.Warn("could not parse submission time", "row_id", sk.RowID, "value", sk.Value)
	}
	return counts, nil
}

// Package lookup holds the external registries the sync operations
// consult: the Rishumon population-registry API, a local Postgres import
// of the Elector voter-registry dump, and a leaked phone-to-profile
// database shipped as a SQLite file.
package lookup

import "context"

// Person is one registry record for an identity number.
type Person struct {
	FirstName string
	LastName  string

	// BirthDate is an 8-digit YYYYMMDD string; empty when the registry
	// does not carry birth dates.
	BirthDate string
}

// FullName returns the person's display name.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Directory answers identity-number queries. Implementations may return
// zero records (unknown id) or several (registry duplicates).
type Directory interface {
	LookupID(ctx context.Context, id string) ([]Person, error)
}

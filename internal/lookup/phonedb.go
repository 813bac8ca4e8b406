package lookup

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// PhoneDB looks up profile identifiers in the leaked phone-to-profile
// database, a SQLite file with a single facebook(phone, uid) table.
// The file is opened read-only; this service never writes to it.
type PhoneDB struct {
	db *sql.DB
}

// OpenPhoneDB opens the database file and verifies it is readable.
func OpenPhoneDB(path string) (*PhoneDB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open phone db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping phone db %s: %w", path, err)
	}
	return &PhoneDB{db: db}, nil
}

// Close closes the underlying database handle.
func (p *PhoneDB) Close() error {
	return p.db.Close()
}

// LookupPhone returns the profile ids recorded for a phone number.
func (p *PhoneDB) LookupPhone(ctx context.Context, phone string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT uid FROM facebook WHERE phone = ?`, phone)
	if err != nil {
		return nil, fmt.Errorf("query phone db: %w", err)
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scan phone db row: %w", err)
		}
		uids = append(uids, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read phone db rows: %w", err)
	}
	return uids, nil
}

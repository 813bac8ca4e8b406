package lookup

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// newPhoneDBFixture creates a throwaway database with a few rows.
func newPhoneDBFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phones.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE facebook (phone TEXT, uid TEXT)`,
		`INSERT INTO facebook VALUES ('0521234567', '100001')`,
		`INSERT INTO facebook VALUES ('0521234567', '100002')`,
		`INSERT INTO facebook VALUES ('0539876543', '200001')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

func TestPhoneDB_LookupPhone(t *testing.T) {
	pdb, err := OpenPhoneDB(newPhoneDBFixture(t))
	if err != nil {
		t.Fatalf("OpenPhoneDB() error = %v", err)
	}
	defer pdb.Close()

	uids, err := pdb.LookupPhone(context.Background(), "0521234567")
	if err != nil {
		t.Fatalf("LookupPhone() error = %v", err)
	}
	if len(uids) != 2 {
		t.Fatalf("got %d uids, want 2", len(uids))
	}
	if uids[0] != "100001" || uids[1] != "100002" {
		t.Errorf("uids = %v", uids)
	}

	none, err := pdb.LookupPhone(context.Background(), "0500000000")
	if err != nil {
		t.Fatalf("LookupPhone() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d uids for unknown phone, want 0", len(none))
	}
}

func TestOpenPhoneDB_MissingFile(t *testing.T) {
	if _, err := OpenPhoneDB(filepath.Join(t.TempDir(), "absent.db")); err == nil {
		t.Fatal("OpenPhoneDB() expected error for missing file")
	}
}

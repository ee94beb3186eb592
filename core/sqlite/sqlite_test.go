package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestDriverInfo(t *testing.T) {
	info := GetInfo()

	if info.DriverName != DriverName() {
		t.Errorf("DriverName mismatch: info=%s, func=%s", info.DriverName, DriverName())
	}
	if info.DriverType != DriverType() {
		t.Errorf("DriverType mismatch: info=%s, func=%s", info.DriverType, DriverType())
	}
	if info.IsCGO != IsCGO() {
		t.Errorf("IsCGO mismatch: info=%v, func=%v", info.IsCGO, IsCGO())
	}
	if info.Package == "" {
		t.Error("Package should not be empty")
	}

	switch DriverType() {
	case "purego":
		if IsCGO() || DriverName() != "sqlite" {
			t.Errorf("purego driver registered as %q", DriverName())
		}
	case "cgo":
		if !IsCGO() || DriverName() != "sqlite3" {
			t.Errorf("cgo driver registered as %q", DriverName())
		}
	default:
		t.Errorf("unknown driver type: %s", DriverType())
	}
}

func TestOpenAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	schema := []string{
		`CREATE TABLE IF NOT EXISTS scores (id TEXT PRIMARY KEY, title TEXT)`,
		`CREATE INDEX IF NOT EXISTS scores_title ON scores(title)`,
	}
	ctx := context.Background()
	if err := Migrate(ctx, db, schema); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := Migrate(ctx, db, schema); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO scores (id, title) VALUES (?, ?)`, "a", "Sonata"); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	var title string
	if err := db.QueryRow(`SELECT title FROM scores WHERE id = ?`, "a").Scan(&title); err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if title != "Sonata" {
		t.Errorf("expected 'Sonata', got '%s'", title)
	}
}

func TestMigrateRollsBack(t *testing.T) {
	db := MustOpen(filepath.Join(t.TempDir(), "bad.db"))
	defer db.Close()

	err := Migrate(context.Background(), db, []string{
		`CREATE TABLE t1 (id INTEGER)`,
		`CREATE TABLE broken (`,
	})
	if err == nil {
		t.Fatal("Migrate should fail on a bad statement")
	}
	var n int
	if err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE name = 't1'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("failed migration should leave no tables behind")
	}
}

func TestOpenReadOnly(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ro.db")

	db := MustOpen(dbPath)
	if _, err := db.Exec(`CREATE TABLE test (id INTEGER PRIMARY KEY, value TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	db.Close()

	rodb, err := OpenReadOnly(dbPath)
	if err != nil {
		t.Fatalf("failed to open read-only: %v", err)
	}
	defer rodb.Close()

	if _, err := rodb.Exec(`INSERT INTO test (value) VALUES ('x')`); err == nil {
		t.Error("write through a read-only handle should fail")
	}
}

func TestWithParam(t *testing.T) {
	if got := withParam("a.db", "mode=ro"); got != "a.db?mode=ro" {
		t.Errorf("withParam = %q", got)
	}
	if got := withParam("file:a.db?cache=shared", "mode=ro"); got != "file:a.db?cache=shared&mode=ro" {
		t.Errorf("withParam = %q", got)
	}
}

// Package catalog keeps a SQLite index of the scores held in the content
// store. Each entry records where the source blob lives and a few facts
// read from the parsed score, so listings never touch the blobs.
package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/core/sqlite"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS scores (
		id          TEXT PRIMARY KEY,
		hash        TEXT NOT NULL UNIQUE,
		blake3      TEXT NOT NULL,
		name        TEXT NOT NULL,
		format      TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		instruments INTEGER NOT NULL DEFAULT 0,
		size        INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS scores_format ON scores(format)`,
}

const columns = `id, hash, blake3, name, format, title, instruments, size, created_at`

// Entry describes one stored score.
type Entry struct {
	ID          string    `json:"id"`
	Hash        string    `json:"hash"`
	Blake3      string    `json:"blake3"`
	Name        string    `json:"name"`
	Format      string    `json:"format"`
	Title       string    `json:"title,omitempty"`
	Instruments int       `json:"instruments"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListOptions filters List results.
type ListOptions struct {
	// Format keeps only entries of this source format when set.
	Format string
	// Limit caps the number of entries (0 = no limit).
	Limit int
}

// Catalog is safe for concurrent use; it relies on database/sql pooling.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the catalog database at path and brings its
// schema up to date.
func Open(ctx context.Context, path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.NewIO("create directory", filepath.Dir(path), err)
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open catalog %s", path)
	}
	return &Catalog{db: db, path: path}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Path returns the database file path.
func (c *Catalog) Path() string { return c.path }

// Add records e and returns the stored entry. A new UUID and creation
// time are assigned when missing. Adding a blob hash that is already
// cataloged fails with ErrAlreadyExists.
func (c *Catalog) Add(ctx context.Context, e Entry) (Entry, error) {
	if e.Hash == "" {
		return Entry{}, errors.NewValidation("hash", "must not be empty")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	} else if _, err := uuid.Parse(e.ID); err != nil {
		return Entry{}, errors.NewValidation("id", err.Error())
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.CreatedAt = e.CreatedAt.Truncate(time.Second)

	if existing, err := c.FindByHash(ctx, e.Hash); err == nil {
		return existing, errors.Wrapf(errors.ErrAlreadyExists, "score %s cataloged as %s", e.Hash, existing.ID)
	} else if !errors.Is(err, errors.ErrNotFound) {
		return Entry{}, err
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO scores (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Hash, e.Blake3, e.Name, e.Format, e.Title, e.Instruments, e.Size,
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Entry{}, errors.Wrapf(err, "insert score %s", e.ID)
	}
	logging.Debug("catalog_add", "id", e.ID, "hash", e.Hash, "format", e.Format)
	return e, nil
}

// Get returns the entry with the given id.
func (c *Catalog) Get(ctx context.Context, id string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+columns+` FROM scores WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, errors.NewNotFound("score", id)
	}
	return e, err
}

// FindByHash returns the entry of the blob with the given SHA-256 hash.
func (c *Catalog) FindByHash(ctx context.Context, hash string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+columns+` FROM scores WHERE hash = ?`, hash)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, errors.NewNotFound("score with hash", hash)
	}
	return e, err
}

// Resolve finds an entry by full id or by a unique id prefix of at least
// four characters.
func (c *Catalog) Resolve(ctx context.Context, ref string) (Entry, error) {
	if e, err := c.Get(ctx, ref); err == nil || !errors.Is(err, errors.ErrNotFound) {
		return e, err
	}
	if len(ref) < 4 || strings.ContainsAny(ref, "%_") {
		return Entry{}, errors.NewNotFound("score", ref)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+columns+` FROM scores WHERE id LIKE ? ORDER BY id LIMIT 2`, ref+"%")
	if err != nil {
		return Entry{}, errors.Wrap(err, "resolve score")
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return Entry{}, err
	}
	switch len(entries) {
	case 0:
		return Entry{}, errors.NewNotFound("score", ref)
	case 1:
		return entries[0], nil
	}
	return Entry{}, errors.NewValidation("id", "prefix "+ref+" is ambiguous")
}

// List returns entries in creation order.
func (c *Catalog) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query := `SELECT ` + columns + ` FROM scores`
	var args []any
	if opts.Format != "" {
		query += ` WHERE format = ?`
		args = append(args, opts.Format)
	}
	query += ` ORDER BY created_at, id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list scores")
	}
	return scanEntries(rows)
}

// Remove deletes the entry with the given id. The blob stays in the
// content store.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "remove score %s", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFound("score", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var created string
	err := s.Scan(&e.ID, &e.Hash, &e.Blake3, &e.Name, &e.Format, &e.Title,
		&e.Instruments, &e.Size, &created)
	if err != nil {
		return Entry{}, err
	}
	e.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "score %s: bad created_at", e.ID)
	}
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read scores")
	}
	return entries, nil
}

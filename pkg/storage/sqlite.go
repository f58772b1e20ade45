package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
	"github.com/AaronLge/GeometrieConverter/pkg/storage/migrations"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// SQLite is the file-backed Store implementation.
type SQLite struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLite)(nil)

// DefaultPath returns the database location used when none is configured.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "geoconv", "structures.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "geoconv", "structures.db"), nil
}

// Open opens (creating if needed) the structure database at path. An empty
// path falls back to DefaultPath. The database runs in WAL mode with a busy
// timeout so concurrent CLI and API access does not fail outright.
func Open(path string) (*SQLite, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "creating database directory")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "opening database %s", path)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "enabling foreign keys")
	}

	s := &SQLite{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "running migrations")
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// migrate applies all pending .up.sql migrations in version order.
func (s *SQLite) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// List returns the entries of one database, ordered by identifier.
func (s *SQLite) List(ctx context.Context, kind Kind) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.identifier, s.height_reference, s.water_depth_m, s.updated_at,
		       (SELECT COUNT(*) FROM segments WHERE structure_id = s.id),
		       (SELECT COUNT(*) FROM added_masses WHERE structure_id = s.id)
		FROM structures s
		WHERE s.kind = ?
		ORDER BY s.identifier
	`, string(kind))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "listing %s structures", kind)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{Kind: kind}
		var depth sql.NullFloat64
		var updated sql.NullTime
		if err := rows.Scan(&e.Identifier, &e.HeightReference, &depth, &updated, &e.Sections, &e.Masses); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "scanning %s entry", kind)
		}
		if depth.Valid {
			e.WaterDepth = &depth.Float64
		}
		if updated.Valid {
			e.UpdatedAt = updated.Time
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "iterating %s entries", kind)
	}
	return entries, nil
}

// Get loads a stored structure as a full bundle.
func (s *SQLite) Get(ctx context.Context, kind Kind, identifier string) (structure.Bundle, error) {
	var (
		id    int64
		b     structure.Bundle
		depth sql.NullFloat64
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT id, height_reference, water_depth_m
		FROM structures WHERE kind = ? AND identifier = ?
	`, string(kind), identifier)
	if err := row.Scan(&id, &b.Meta.HeightReference, &depth); err != nil {
		if err == sql.ErrNoRows {
			return structure.Bundle{}, errs.New(errs.ErrCodeNotFound, "no %s structure named %q", kind, identifier)
		}
		return structure.Bundle{}, errs.Wrap(errs.ErrCodeStorage, err, "loading %s %q", kind, identifier)
	}
	b.Meta.Identifier = identifier
	if depth.Valid {
		b.Meta.WaterDepth = &depth.Float64
	}

	segs, err := s.db.QueryContext(ctx, `
		SELECT section, top_m, bottom_m, d_top_m, d_bottom_m, t_mm
		FROM segments WHERE structure_id = ? ORDER BY position
	`, id)
	if err != nil {
		return structure.Bundle{}, errs.Wrap(errs.ErrCodeStorage, err, "loading %s %q segments", kind, identifier)
	}
	defer segs.Close()
	for segs.Next() {
		var seg structure.Segment
		if err := segs.Scan(&seg.Section, &seg.Top, &seg.Bottom, &seg.DTop, &seg.DBottom, &seg.Thickness); err != nil {
			return structure.Bundle{}, errs.Wrap(errs.ErrCodeStorage, err, "scanning segment")
		}
		b.Segments = append(b.Segments, seg)
	}
	if err := segs.Err(); err != nil {
		return structure.Bundle{}, errs.Wrap(errs.ErrCodeStorage, err, "iterating segments")
	}

	masses, err := s.db.QueryContext(ctx, `
		SELECT top_m, bottom_m, mass_t, comment
		FROM added_masses WHERE structure_id = ? ORDER BY position
	`, id)
	if err != nil {
		return structure.Bundle{}, errs.Wrap(errs.ErrCodeStorage, err, "loading %s %q masses", kind, identifier)
	}
	defer masses.Close()
	for masses.Next() {
		var m structure.AddedMass
		var bottom sql.NullFloat64
		if err := masses.Scan(&m.Top, &bottom, &m.Mass, &m.Comment); err != nil {
			return structure.Bundle{}, errs.Wrap(errs.ErrCodeStorage, err, "scanning added mass")
		}
		if bottom.Valid {
			m.Bottom = &bottom.Float64
		}
		b.Masses = append(b.Masses, m)
	}
	if err := masses.Err(); err != nil {
		return structure.Bundle{}, errs.Wrap(errs.ErrCodeStorage, err, "iterating added masses")
	}

	return b, nil
}

// Save stores a new structure under its bundle identifier.
func (s *SQLite) Save(ctx context.Context, kind Kind, b structure.Bundle) error {
	if err := errs.ValidateIdentifier(b.Meta.Identifier); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "beginning transaction")
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM structures WHERE kind = ? AND identifier = ?",
		string(kind), b.Meta.Identifier).Scan(&count)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "checking identifier")
	}
	if count > 0 {
		return errs.New(errs.ErrCodeDuplicateIdentifier, "a %s structure named %q already exists", kind, b.Meta.Identifier)
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO structures (kind, identifier, height_reference, water_depth_m, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(kind), b.Meta.Identifier, b.Meta.HeightReference, b.Meta.WaterDepth, now, now)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "saving %s %q", kind, b.Meta.Identifier)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "reading new structure id")
	}

	if err := insertParts(ctx, tx, id, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "committing %s %q", kind, b.Meta.Identifier)
	}
	return nil
}

// Replace overwrites the structure stored under identifier, renaming it when
// the bundle carries a different identifier.
func (s *SQLite) Replace(ctx context.Context, kind Kind, identifier string, b structure.Bundle) error {
	if err := errs.ValidateIdentifier(b.Meta.Identifier); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "beginning transaction")
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM structures WHERE kind = ? AND identifier = ?",
		string(kind), identifier).Scan(&id)
	if err == sql.ErrNoRows {
		return errs.New(errs.ErrCodeNotFound, "no %s structure named %q", kind, identifier)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "looking up %s %q", kind, identifier)
	}

	if b.Meta.Identifier != identifier {
		var count int
		err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM structures WHERE kind = ? AND identifier = ?",
			string(kind), b.Meta.Identifier).Scan(&count)
		if err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "checking identifier")
		}
		if count > 0 {
			return errs.New(errs.ErrCodeDuplicateIdentifier, "a %s structure named %q already exists", kind, b.Meta.Identifier)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE structures SET identifier = ?, height_reference = ?, water_depth_m = ?, updated_at = ?
		WHERE id = ?
	`, b.Meta.Identifier, b.Meta.HeightReference, b.Meta.WaterDepth, time.Now().UTC(), id)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "updating %s %q", kind, identifier)
	}
	for _, table := range []string{"segments", "added_masses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE structure_id = ?", id); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "clearing %s", table)
		}
	}

	if err := insertParts(ctx, tx, id, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "committing %s %q", kind, identifier)
	}
	return nil
}

// Delete removes a stored structure and its child rows.
func (s *SQLite) Delete(ctx context.Context, kind Kind, identifier string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM structures WHERE kind = ? AND identifier = ?",
		string(kind), identifier)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "deleting %s %q", kind, identifier)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "deleting %s %q", kind, identifier)
	}
	if n == 0 {
		return errs.New(errs.ErrCodeNotFound, "no %s structure named %q", kind, identifier)
	}
	return nil
}

// insertParts writes a bundle's segment and mass rows for the structure id.
func insertParts(ctx context.Context, tx *sql.Tx, id int64, b structure.Bundle) error {
	segStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segments (structure_id, position, section, top_m, bottom_m, d_top_m, d_bottom_m, t_mm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "preparing segment insert")
	}
	defer segStmt.Close()
	for i, seg := range b.Segments {
		if _, err := segStmt.ExecContext(ctx, id, i, seg.Section, seg.Top, seg.Bottom, seg.DTop, seg.DBottom, seg.Thickness); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "saving segment %d", i+1)
		}
	}

	massStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO added_masses (structure_id, position, top_m, bottom_m, mass_t, comment)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "preparing mass insert")
	}
	defer massStmt.Close()
	for i, m := range b.Masses {
		if _, err := massStmt.ExecContext(ctx, id, i, m.Top, m.Bottom, m.Mass, m.Comment); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "saving added mass %d", i+1)
		}
	}
	return nil
}

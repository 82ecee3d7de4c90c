package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/suretime/suretime/pkg/tzmap"

	_ "modernc.org/sqlite"
)

// SQLite caches the mapping in a WAL-mode SQLite database, one row per
// name/territory/iana triple. WAL mode plus the busy-timeout pragma
// lets concurrent processes share a cache path safely, unlike File.
type SQLite struct {
	db     *sql.DB
	window time.Duration
	src    tzmap.Source
	opts   tzmap.BuildOptions

	now func() time.Time
}

var _ Backend = (*SQLite)(nil)

// NewSQLite opens (or creates) the cache database and initializes the
// schema. Non-positive expirationMinutes selects
// DefaultExpirationMinutes.
func NewSQLite(path string, expirationMinutes int, src tzmap.Source, opts tzmap.BuildOptions) (*SQLite, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &SQLite{
		db:     db,
		window: expiration(expirationMinutes),
		src:    src,
		opts:   opts,
		now:    time.Now,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tzmap_meta (
		id            INTEGER PRIMARY KEY CHECK (id = 1),
		version       INTEGER NOT NULL,
		downloaded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tzmap (
		name      TEXT NOT NULL,
		territory TEXT NOT NULL,
		iana      TEXT NOT NULL,
		PRIMARY KEY (name, territory, iana)
	);

	CREATE INDEX IF NOT EXISTS idx_tzmap_name ON tzmap(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the stored mapping when the meta row is present, carries
// the current schema version, and is still fresh. Otherwise rebuilds.
func (s *SQLite) Get() (tzmap.Mapping, error) {
	downloadedAt, ok, err := s.meta()
	if err != nil {
		return nil, err
	}
	if !ok || stale(s.now(), downloadedAt, s.window) {
		return s.Download()
	}
	return s.load()
}

// Download rebuilds the mapping from the CLDR source and replaces the
// stored rows in a single transaction.
func (s *SQLite) Download() (tzmap.Mapping, error) {
	m, err := tzmap.Build(s.src, s.opts)
	if err != nil {
		return nil, err
	}
	if err := s.store(m); err != nil {
		return nil, err
	}
	return m, nil
}

// meta reads the download timestamp. ok is false when no mapping has
// been stored yet or the stored one has a foreign schema version.
func (s *SQLite) meta() (downloadedAt time.Time, ok bool, err error) {
	var version int
	var atStr string
	err = s.db.QueryRow(`SELECT version, downloaded_at FROM tzmap_meta WHERE id = 1`).
		Scan(&version, &atStr)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	if version != schemaVersion {
		return time.Time{}, false, nil
	}
	at, parseErr := time.Parse(time.RFC3339Nano, atStr)
	if parseErr != nil {
		return time.Time{}, false, fmt.Errorf("parse cache downloaded_at: %w", parseErr)
	}
	return at, true, nil
}

// load reassembles the mapping from its rows. Row order matches the
// sorted-set invariant of the in-memory form.
func (s *SQLite) load() (tzmap.Mapping, error) {
	rows, err := s.db.Query(`SELECT name, territory, iana FROM tzmap ORDER BY name, territory, iana`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(tzmap.Mapping)
	for rows.Next() {
		var name, territory, iana string
		if err := rows.Scan(&name, &territory, &iana); err != nil {
			return nil, err
		}
		byTerritory, ok := m[name]
		if !ok {
			byTerritory = make(map[string][]string)
			m[name] = byTerritory
		}
		byTerritory[territory] = append(byTerritory[territory], iana)
	}
	return m, rows.Err()
}

// store replaces all rows and the meta row in one transaction, retried
// on transient contention.
func (s *SQLite) store(m tzmap.Mapping) error {
	now := s.now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		if _, err := tx.Exec(`DELETE FROM tzmap`); err != nil {
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO tzmap (name, territory, iana) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for name, byTerritory := range m {
			for territory, ianas := range byTerritory {
				for _, iana := range ianas {
					if _, err := stmt.Exec(name, territory, iana); err != nil {
						return err
					}
				}
			}
		}
		if _, err := tx.Exec(
			`INSERT INTO tzmap_meta (id, version, downloaded_at) VALUES (1, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   version = excluded.version,
			   downloaded_at = excluded.downloaded_at`,
			schemaVersion, now,
		); err != nil {
			return err
		}
		return tx.Commit()
	})
}

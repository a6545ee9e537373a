// Package storage persists ASTRA state in a local SQLite database. The
// database is a best-effort mirror of in-memory state: the coordinator
// treats write failures as non-fatal and a stored value that fails to
// decode as absent.
package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/samvrith66/astra/internal/career"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database with typed methods for profile, role,
// analysis, roadmap, day progress, and the diagnostic message trail.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (used
// by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "astra.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for maintenance and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// migrate reads embedded SQL migration files and applies any that haven't
// been run yet.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// --- app state (JSON rows) ---

func (s *Store) setState(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(b), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) getState(key string, out any) error {
	var value string
	err := s.db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *Store) SaveProfile(p career.Profile) error { return s.setState(keyProfile, p) }

func (s *Store) LoadProfile() (career.Profile, error) {
	var p career.Profile
	err := s.getState(keyProfile, &p)
	return p, err
}

func (s *Store) SaveRole(r career.Role) error { return s.setState(keyRole, r) }

func (s *Store) LoadRole() (career.Role, error) {
	var r career.Role
	err := s.getState(keyRole, &r)
	return r, err
}

func (s *Store) SaveAnalysis(a career.GapAnalysis) error { return s.setState(keyAnalysis, a) }

func (s *Store) LoadAnalysis() (career.GapAnalysis, error) {
	var a career.GapAnalysis
	err := s.getState(keyAnalysis, &a)
	return a, err
}

func (s *Store) SaveRoadmap(r career.Roadmap) error { return s.setState(keyRoadmap, r) }

func (s *Store) LoadRoadmap() (career.Roadmap, error) {
	var r career.Roadmap
	err := s.getState(keyRoadmap, &r)
	return r, err
}

// --- day progress ---

// SetDayDone records the completion state for one roadmap day key.
func (s *Store) SetDayDone(dayKey string, done bool) error {
	doneInt := 0
	if done {
		doneInt = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO day_progress (day_key, done, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(day_key) DO UPDATE SET done = excluded.done, updated_at = excluded.updated_at`,
		dayKey, doneInt, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// LoadProgress returns the full day-key → completion map. Stale keys from
// an earlier roadmap are returned as stored; aggregation against the
// current roadmap is the caller's concern.
func (s *Store) LoadProgress() (map[string]bool, error) {
	rows, err := s.db.Query("SELECT day_key, done FROM day_progress")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var key string
		var done int
		if err := rows.Scan(&key, &done); err != nil {
			return nil, err
		}
		result[key] = done != 0
	}
	return result, rows.Err()
}

// --- agent messages ---

func (s *Store) SaveMessage(m career.AgentMessage) error {
	_, err := s.db.Exec(`
		INSERT INTO agent_messages (id, type, message, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, string(m.Type), m.Message, m.Timestamp.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) RecentMessages(limit int) ([]career.AgentMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, type, message, created_at FROM agent_messages
		ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []career.AgentMessage
	for rows.Next() {
		var m career.AgentMessage
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Type, &m.Message, &createdAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		m.Timestamp = t
		results = append(results, m)
	}
	return results, rows.Err()
}

// ResetAll clears every durable row in one transaction, so a reset is
// never partially observable.
func (s *Store) ResetAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning reset transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"app_state", "day_progress", "agent_messages"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return tx.Commit()
}

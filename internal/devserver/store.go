// Package devserver is a local, self-contained implementation of the
// agentic backend's REST and WebSocket contract. It exists so the console
// and the client SDK can be exercised offline and in integration tests; the
// production backend remains an external service.
package devserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/hyperengineering/steward/internal/types"
	"github.com/hyperengineering/steward/migrations"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Store is the SQLite-backed state of the dev server. All entity IDs are
// assigned here, server-side, as ULIDs.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the dev server database at dbPath, applying
// pragmas and pending migrations. Use ":memory:" for tests.
func OpenStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers anyway, and an in-memory database exists
	// per connection, so the pool must stay at one.
	db.SetMaxOpenConns(1)

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// runMigrations applies all pending migrations from the embedded FS.
func runMigrations(db *sql.DB) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func newID() string { return ulid.Make().String() }

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func timePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

// inClause builds a "col IN (?, ?, ...)" fragment and its args.
func inClause(col string, values []string) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")), args
}

// --- Profiles ---

// CreateProfile registers a profile, optionally under a parent.
func (s *Store) CreateProfile(id, name, role, parentID string) error {
	var parent any
	if parentID != "" {
		parent = parentID
	}
	_, err := s.db.Exec(`
		INSERT INTO profiles (id, name, role, parent_id, state, created_at)
		VALUES (?, ?, ?, ?, 'running', ?)
	`, id, name, role, parent, fmtTime(time.Now()))
	return err
}

// ProfileExists reports whether the profile is registered.
func (s *Store) ProfileExists(id string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// ProfileState returns the run state of a profile.
func (s *Store) ProfileState(id string) (string, error) {
	var state string
	err := s.db.QueryRow(`SELECT state FROM profiles WHERE id = ?`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return state, err
}

// SetProfileState updates the run state of a profile.
func (s *Store) SetProfileState(id, state string) error {
	res, err := s.db.Exec(`UPDATE profiles SET state = ? WHERE id = ?`, state, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Children returns the direct child profiles of id.
func (s *Store) Children(id string) ([]types.TeamMember, error) {
	rows, err := s.db.Query(`
		SELECT id, name, role, state FROM profiles WHERE parent_id = ? ORDER BY name
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []types.TeamMember
	for rows.Next() {
		var m types.TeamMember
		if err := rows.Scan(&m.AgenticID, &m.Name, &m.Role, &m.Status); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Team returns the siblings of id (profiles sharing its parent).
func (s *Store) Team(id string) ([]types.TeamMember, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.role, p.state
		FROM profiles p
		JOIN profiles self ON self.id = ?
		WHERE p.parent_id IS self.parent_id AND p.id != self.id
		ORDER BY p.name
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []types.TeamMember
	for rows.Next() {
		var m types.TeamMember
		if err := rows.Scan(&m.AgenticID, &m.Name, &m.Role, &m.Status); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Hierarchy builds the agent tree rooted at id.
func (s *Store) Hierarchy(id string) (*types.HierarchyNode, error) {
	var node types.HierarchyNode
	err := s.db.QueryRow(`SELECT id, name, role FROM profiles WHERE id = ?`, id).
		Scan(&node.AgenticID, &node.Name, &node.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	children, err := s.Children(id)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		child, err := s.Hierarchy(c.AgenticID)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, *child)
	}
	return &node, nil
}

// --- Settings (per-profile singleton configs) ---

// GetSetting loads the JSON document stored under key into out. Missing
// settings return ErrNotFound.
func (s *Store) GetSetting(profileID, key string, out any) error {
	var value string
	err := s.db.QueryRow(`
		SELECT value FROM profile_settings WHERE profile_id = ? AND key = ?
	`, profileID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(value), out)
}

// PutSetting stores v as the JSON document under key.
func (s *Store) PutSetting(profileID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO profile_settings (profile_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (profile_id, key) DO UPDATE SET value = excluded.value
	`, profileID, key, string(data))
	return err
}

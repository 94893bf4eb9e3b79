// Package store persists user-defined email templates in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/hal9000y/compose-mcp/internal/template"
)

// ErrNotFound indicates no template has the requested id.
var ErrNotFound = errors.New("template not found")

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	body       TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	recipient  TEXT NOT NULL DEFAULT '',
	variables  TEXT NOT NULL DEFAULT '[]',
	is_default INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Record is a stored template with bookkeeping fields.
type Record struct {
	template.EmailTemplate
	IsDefault bool      `json:"is_default" jsonschema:"whether this is the user's default template"`
	CreatedAt time.Time `json:"created_at" jsonschema:"creation time"`
	UpdatedAt time.Time `json:"updated_at" jsonschema:"last update time"`
}

// Patch holds the fields to change in Update; nil fields keep their value.
type Patch struct {
	Name      *string
	Template  *string
	Subject   *string
	Recipient *string
	Variables []template.Variable
	IsDefault *bool
}

// Templates is a SQLite backed template repository.
type Templates struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Templates, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll failed: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db.ExecContext(%.30q) failed: %w", stmt, err)
		}
	}

	return &Templates{db: db, logger: logger, now: time.Now}, nil
}

// Close releases the database.
func (s *Templates) Close() error {
	return s.db.Close()
}

// Create stores t under a new id, ignoring t.ID.
func (s *Templates) Create(ctx context.Context, t template.EmailTemplate, isDefault bool) (Record, error) {
	t.ID = uuid.NewString()
	s.checkKeys(t)

	vars, err := json.Marshal(nonNil(t.Variables))
	if err != nil {
		return Record{}, fmt.Errorf("json.Marshal failed: %w", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, body, subject, recipient, variables, is_default, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Template, t.Subject, t.Recipient, string(vars), isDefault, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert template failed: %w", err)
	}

	return Record{EmailTemplate: t, IsDefault: isDefault, CreatedAt: now, UpdatedAt: now}, nil
}

// Get returns the template with the given id.
func (s *Templates) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, body, subject, recipient, variables, is_default, created_at, updated_at
		 FROM templates WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("scan template %s failed: %w", id, err)
	}

	return rec, nil
}

// List returns all templates, newest first.
func (s *Templates) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, body, subject, recipient, variables, is_default, created_at, updated_at
		 FROM templates ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query templates failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template failed: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return records, nil
}

// Update applies p to the template with the given id.
func (s *Templates) Update(ctx context.Context, id string, p Patch) (Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Template != nil {
		rec.Template = *p.Template
	}
	if p.Subject != nil {
		rec.Subject = *p.Subject
	}
	if p.Recipient != nil {
		rec.Recipient = *p.Recipient
	}
	if p.Variables != nil {
		rec.Variables = p.Variables
	}
	if p.IsDefault != nil {
		rec.IsDefault = *p.IsDefault
	}
	rec.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
	s.checkKeys(rec.EmailTemplate)

	vars, err := json.Marshal(nonNil(rec.Variables))
	if err != nil {
		return Record{}, fmt.Errorf("json.Marshal failed: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE templates SET name = ?, body = ?, subject = ?, recipient = ?, variables = ?, is_default = ?, updated_at = ?
		 WHERE id = ?`,
		rec.Name, rec.Template, rec.Subject, rec.Recipient, string(vars), rec.IsDefault, rec.UpdatedAt.UnixMilli(), id,
	)
	if err != nil {
		return Record{}, fmt.Errorf("update template %s failed: %w", id, err)
	}

	return rec, nil
}

// Delete removes the template with the given id.
func (s *Templates) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template %s failed: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("res.RowsAffected failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

func (s *Templates) checkKeys(t template.EmailTemplate) {
	if err := template.Validate(t); err != nil {
		s.logger.Warn("template keys do not match variables", zap.String("template_id", t.ID), zap.Error(err))
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec                  Record
		vars                 string
		createdAt, updatedAt int64
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Template, &rec.Subject, &rec.Recipient,
		&vars, &rec.IsDefault, &createdAt, &updatedAt)
	if err != nil {
		return Record{}, err
	}

	if err := json.Unmarshal([]byte(vars), &rec.Variables); err != nil {
		return Record{}, fmt.Errorf("json.Unmarshal variables failed: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return rec, nil
}

func nonNil(vars []template.Variable) []template.Variable {
	if vars == nil {
		return []template.Variable{}
	}
	return vars
}

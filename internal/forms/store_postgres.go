package forms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"formdesk/internal/schema"
	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
)

// PostgresStore persists form definitions in PostgreSQL. The schema document
// is stored as JSONB so authoring tools keep their extra attributes.
//
// The type cardinality invariant is enforced twice: AssignType runs a
// SELECT ... FOR UPDATE check inside a transaction, and a partial unique
// index on constrained types backstops multi-instance races.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const formDefinitionsDDL = `
CREATE TABLE IF NOT EXISTS form_definitions (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    form_type   TEXT NOT NULL DEFAULT '',
    schema_doc  JSONB,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS form_definitions_constrained_type
    ON form_definitions (form_type)
    WHERE form_type IN ('registration', 'contact');
`

// EnsureSchema creates the table and indexes when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, formDefinitionsDDL); err != nil {
		return fmt.Errorf("ensure form_definitions schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, form *FormDefinition) error {
	doc, err := form.Schema.Encode()
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form_definitions (id, name, description, form_type, schema_doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		form.ID.String(), form.Name, form.Description, string(form.Type),
		nullableDoc(doc), form.CreatedAt, form.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert form definition: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, form *FormDefinition) error {
	doc, err := form.Schema.Encode()
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE form_definitions
		SET name = $2, description = $3, schema_doc = $4, updated_at = $5
		WHERE id = $1`,
		form.ID.String(), form.Name, form.Description, nullableDoc(doc), form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update form definition: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update form definition: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.FormID) (*FormDefinition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, form_type, schema_doc, created_at, updated_at
		FROM form_definitions WHERE id = $1`, id.String())
	return scanForm(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*FormDefinition, error) {
	return s.query(ctx, `
		SELECT id, name, description, form_type, schema_doc, created_at, updated_at
		FROM form_definitions ORDER BY created_at DESC, id`)
}

func (s *PostgresStore) FindByType(ctx context.Context, t domain.FormType) ([]*FormDefinition, error) {
	return s.query(ctx, `
		SELECT id, name, description, form_type, schema_doc, created_at, updated_at
		FROM form_definitions WHERE form_type = $1 ORDER BY created_at DESC, id`, string(t))
}

func (s *PostgresStore) AssignType(ctx context.Context, id domain.FormID, t domain.FormType, now time.Time) (*FormDefinition, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin assign transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the target row first so concurrent assigns to the same form
	// serialize here.
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT true FROM form_definitions WHERE id = $1 FOR UPDATE`, id.String(),
	).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock form definition: %w", err)
	}

	if t.Constrained() {
		var holderID, holderName string
		err := tx.QueryRowContext(ctx, `
			SELECT id, name FROM form_definitions
			WHERE form_type = $1 AND id <> $2 FOR UPDATE`,
			string(t), id.String(),
		).Scan(&holderID, &holderName)
		switch {
		case err == nil:
			hid, parseErr := domain.ParseFormID(holderID)
			if parseErr != nil {
				return nil, fmt.Errorf("parse holder id: %w", parseErr)
			}
			return nil, &TypeConflictError{Type: t, HolderID: hid, HolderName: holderName}
		case errors.Is(err, sql.ErrNoRows):
			// slot is free
		default:
			return nil, fmt.Errorf("check type holder: %w", err)
		}
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE form_definitions SET form_type = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, name, description, form_type, schema_doc, created_at, updated_at`,
		id.String(), string(t), now,
	)
	form, err := scanForm(row)
	if isUniqueViolation(err) {
		return nil, sentinel.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assign transaction: %w", err)
	}
	return form, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*FormDefinition, error) {
	var (
		idStr, name, description, formType string
		doc                                []byte
		createdAt, updatedAt               time.Time
	)
	err := row.Scan(&idStr, &name, &description, &formType, &doc, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan form definition: %w", err)
	}

	id, err := domain.ParseFormID(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored form id: %w", err)
	}
	form := &FormDefinition{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        domain.FormType(formType),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if len(doc) > 0 {
		parsed, err := schema.Decode(doc)
		if err != nil {
			return nil, fmt.Errorf("decode stored schema: %w", err)
		}
		form.Schema = parsed
	}
	return form, nil
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]*FormDefinition, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query form definitions: %w", err)
	}
	defer rows.Close()

	var out []*FormDefinition
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, form)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate form definitions: %w", err)
	}
	return out, nil
}

func nullableDoc(doc []byte) any {
	if len(doc) == 0 {
		return nil
	}
	return doc
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

package response

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"formdesk/internal/enrich"
	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
)

// PostgresStore persists responses with the payload as a JSONB envelope
// ({kind, data}), so raw and enriched variants share one column and old
// rows with unknown kinds degrade at replay instead of failing the read.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const formResponsesDDL = `
CREATE TABLE IF NOT EXISTS form_responses (
    id         UUID PRIMARY KEY,
    form_id    UUID NOT NULL,
    payload    JSONB,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS form_responses_form_id
    ON form_responses (form_id, created_at DESC);
`

// EnsureSchema creates the table and indexes when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, formResponsesDDL); err != nil {
		return fmt.Errorf("ensure form_responses schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, resp *FormResponse) error {
	payload, err := enrich.EncodePayload(resp.Payload)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form_responses (id, form_id, payload, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
		resp.ID.String(), resp.FormID.String(), nullablePayload(payload), resp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert form response: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ResponseID) (*FormResponse, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, payload, created_at
		FROM form_responses WHERE id = $1`, id.String())
	return scanResponse(row)
}

func (s *PostgresStore) ListByForm(ctx context.Context, formID domain.FormID) ([]*FormResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, payload, created_at
		FROM form_responses WHERE form_id = $1
		ORDER BY created_at DESC, id`, formID.String())
	if err != nil {
		return nil, fmt.Errorf("query form responses: %w", err)
	}
	defer rows.Close()

	var out []*FormResponse
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate form responses: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResponse(row rowScanner) (*FormResponse, error) {
	var (
		idStr, formIDStr string
		payload          []byte
		createdAt        time.Time
	)
	err := row.Scan(&idStr, &formIDStr, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan form response: %w", err)
	}

	id, err := domain.ParseResponseID(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored response id: %w", err)
	}
	formID, err := domain.ParseFormID(formIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored form id: %w", err)
	}
	decoded, err := enrich.DecodePayload(payload)
	if err != nil {
		return nil, err
	}
	return &FormResponse{
		ID:        id,
		FormID:    formID,
		CreatedAt: createdAt,
		Payload:   decoded,
	}, nil
}

func nullablePayload(payload []byte) any {
	if len(payload) == 0 {
		return nil
	}
	return payload
}

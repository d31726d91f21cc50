package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"property_underwriting/pkg/models"
)

// DealRepo stores deal records and their latest analysis snapshot.
//
// Schema assumption (managed by migrations elsewhere):
//
//	CREATE TABLE IF NOT EXISTS deals (
//	  id UUID PRIMARY KEY,
//	  name TEXT NOT NULL,
//	  deal_json JSONB NOT NULL,
//	  analysis_json JSONB,
//	  updated_at TIMESTAMPTZ
//	);
type DealRepo struct{}

func NewDealRepo() *DealRepo {
	return &DealRepo{}
}

// DealRecord is one stored deal plus whatever analysis was last computed for
// it. Analysis is an opaque JSON blob from the repo's point of view.
type DealRecord struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Deal     models.DealInputs `json:"deal"`
	Analysis json.RawMessage   `json:"analysis,omitempty"`
}

// Save upserts a deal record by id, minting an id for new records.
func (r *DealRepo) Save(ctx context.Context, rec *DealRecord) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	dealJSON, err := json.Marshal(rec.Deal)
	if err != nil {
		return fmt.Errorf("failed to marshal deal: %w", err)
	}

	query := `
		INSERT INTO deals (id, name, deal_json, analysis_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			deal_json = EXCLUDED.deal_json,
			analysis_json = EXCLUDED.analysis_json,
			updated_at = EXCLUDED.updated_at;
	`
	_, err = pool.Exec(ctx, query, rec.ID, rec.Name, dealJSON, rec.Analysis, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save deal: %w", err)
	}
	return nil
}

// SaveAnalysis attaches a computed analysis snapshot to an existing deal.
func (r *DealRepo) SaveAnalysis(ctx context.Context, id uuid.UUID, analysis any) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	tag, err := pool.Exec(ctx,
		`UPDATE deals SET analysis_json = $2, updated_at = $3 WHERE id = $1`,
		id, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no deal found for id %s", id)
	}
	return nil
}

// Load retrieves one deal record by id.
func (r *DealRepo) Load(ctx context.Context, id uuid.UUID) (*DealRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rec := &DealRecord{ID: id}
	var dealJSON []byte
	err := pool.QueryRow(ctx,
		`SELECT name, deal_json, analysis_json FROM deals WHERE id = $1`,
		id).Scan(&rec.Name, &dealJSON, &rec.Analysis)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no deal found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load deal: %w", err)
	}

	if err := json.Unmarshal(dealJSON, &rec.Deal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deal: %w", err)
	}
	return rec, nil
}

// List returns id/name pairs for every stored deal, newest first.
func (r *DealRepo) List(ctx context.Context) ([]DealRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `SELECT id, name FROM deals ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var out []DealRecord
	for rows.Next() {
		var rec DealRecord
		if err := rows.Scan(&rec.ID, &rec.Name); err != nil {
			return nil, fmt.Errorf("failed to scan deal row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

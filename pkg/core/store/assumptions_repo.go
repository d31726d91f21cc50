package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"property_underwriting/pkg/models"
)

// AssumptionsRepo stores the single active GlobalAssumptions record. One row
// keyed by a fixed id; updating replaces it.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS assumptions (
//	  id INT PRIMARY KEY,
//	  assumptions_json JSONB NOT NULL,
//	  updated_at TIMESTAMPTZ
//	);
type AssumptionsRepo struct{}

func NewAssumptionsRepo() *AssumptionsRepo {
	return &AssumptionsRepo{}
}

const activeAssumptionsID = 1

// Save replaces the active assumptions record.
func (r *AssumptionsRepo) Save(ctx context.Context, a models.GlobalAssumptions) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	query := `
		INSERT INTO assumptions (id, assumptions_json, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET
			assumptions_json = EXCLUDED.assumptions_json,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := pool.Exec(ctx, query, activeAssumptionsID, jsonData, time.Now()); err != nil {
		return fmt.Errorf("failed to save assumptions: %w", err)
	}
	return nil
}

// Load returns the active assumptions, or the built-in defaults when the
// table has no row yet.
func (r *AssumptionsRepo) Load(ctx context.Context) (models.GlobalAssumptions, error) {
	pool := GetPool()
	if pool == nil {
		return models.GlobalAssumptions{}, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx,
		`SELECT assumptions_json FROM assumptions WHERE id = $1`,
		activeAssumptionsID).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.DefaultAssumptions(), nil
		}
		return models.GlobalAssumptions{}, fmt.Errorf("failed to load assumptions: %w", err)
	}

	var a models.GlobalAssumptions
	if err := json.Unmarshal(jsonData, &a); err != nil {
		return models.GlobalAssumptions{}, fmt.Errorf("failed to unmarshal assumptions: %w", err)
	}
	return a, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/repository/base"
)

type OverrideRepository struct {
	*base.Repository
}

func NewOverrideRepository(repo *base.Repository) *OverrideRepository {
	return &OverrideRepository{Repository: repo}
}

// ListByPriest returns every unavailable slot declared by a priest.
func (r *OverrideRepository) ListByPriest(ctx context.Context, priestID string) ([]model.AvailabilityOverride, error) {
	query := `
		SELECT priest_id, to_char(slot_date, 'YYYY-MM-DD'), to_char(slot_time, 'HH24:MI')
		FROM availability_overrides
		WHERE priest_id = $1
		ORDER BY slot_date, slot_time
	`

	rows, err := r.Query(ctx, query, priestID)
	if err != nil {
		return nil, fmt.Errorf("get overrides by priest: %w", err)
	}
	defer rows.Close()

	var overrides []model.AvailabilityOverride
	for rows.Next() {
		var o model.AvailabilityOverride
		if err := rows.Scan(&o.PriestID, &o.SlotDate, &o.SlotTime); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}

	return overrides, nil
}

// ReplaceDate swaps the whole override set of one date in a single transaction.
// Last write wins.
func (r *OverrideRepository) ReplaceDate(ctx context.Context, req model.SaveAvailabilityRequest) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`DELETE FROM availability_overrides WHERE priest_id = $1 AND slot_date = $2::date`,
			req.PriestID, req.Date)
		if err != nil {
			return fmt.Errorf("delete overrides: %w", err)
		}

		for _, slot := range req.UnavailableSlots {
			_, err := tx.Exec(ctx, `
				INSERT INTO availability_overrides (priest_id, slot_date, slot_time)
				VALUES ($1, $2::date, $3::time)
				ON CONFLICT DO NOTHING
			`, req.PriestID, req.Date, slot)
			if err != nil {
				return fmt.Errorf("insert override %s: %w", slot, err)
			}
		}
		return nil
	})
}

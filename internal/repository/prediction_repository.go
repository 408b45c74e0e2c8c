// Package repository provides persistence for audited predictions, the one
// durable store this engine keeps (spec-level Non-goal: no persistent
// historical storage beyond a simple audit log).
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/raceintel/internal/database"
	"github.com/yourusername/raceintel/internal/models"
)

// PredictionRepository is the persistence seam for predictions, matching
// auditor.PredictionStore plus the write path analyzers use to record a
// fresh tip.
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.Prediction) error
	InsertBatch(ctx context.Context, predictions []models.Prediction) error
	UnauditedSince(ctx context.Context, since time.Time) ([]models.Prediction, error)
	SaveVerdicts(ctx context.Context, predictions []models.Prediction) error
	AuditedSince(ctx context.Context, since time.Time) ([]models.Prediction, error)
}

// PostgresPredictionRepository implements PredictionRepository for
// PostgreSQL, tolerant of schema drift: unknown columns are ignored on
// read, missing optional columns default to nil/zero.
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository.
func NewPostgresPredictionRepository(db *database.DB) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert writes a single new prediction.
func (r *PostgresPredictionRepository) Insert(ctx context.Context, p *models.Prediction) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO predictions (
			id, race_id, venue, race_number, start_time, discipline,
			selection_number, selection_name, predicted_2nd_fav_odds,
			is_goldmine, analyzer, created_at, audit_completed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.GetPool().Exec(ctx, query,
		p.ID, p.RaceID, p.Venue, p.RaceNumber, p.StartTime, p.Discipline,
		p.SelectionNumber, p.SelectionName, p.Predicted2ndFavOdds,
		p.IsGoldmine, p.Analyzer, p.CreatedAt, p.AuditCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// InsertBatch writes multiple predictions inside a single transaction.
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range predictions {
		p := &predictions[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO predictions (
				id, race_id, venue, race_number, start_time, discipline,
				selection_number, selection_name, predicted_2nd_fav_odds,
				is_goldmine, analyzer, created_at, audit_completed
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`,
			p.ID, p.RaceID, p.Venue, p.RaceNumber, p.StartTime, p.Discipline,
			p.SelectionNumber, p.SelectionName, p.Predicted2ndFavOdds,
			p.IsGoldmine, p.Analyzer, p.CreatedAt, p.AuditCompleted,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prediction %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return nil
}

// UnauditedSince returns every prediction not yet audited whose start time
// falls at or after since.
func (r *PostgresPredictionRepository) UnauditedSince(ctx context.Context, since time.Time) ([]models.Prediction, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT id, race_id, venue, race_number, start_time, discipline,
		       selection_number, selection_name, predicted_2nd_fav_odds,
		       is_goldmine, analyzer, created_at, audit_completed
		FROM predictions
		WHERE audit_completed = false AND start_time >= $1
		ORDER BY start_time ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query unaudited predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(
			&p.ID, &p.RaceID, &p.Venue, &p.RaceNumber, &p.StartTime, &p.Discipline,
			&p.SelectionNumber, &p.SelectionName, &p.Predicted2ndFavOdds,
			&p.IsGoldmine, &p.Analyzer, &p.CreatedAt, &p.AuditCompleted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unaudited predictions: %w", err)
	}

	return predictions, nil
}

// AuditedSince returns every prediction already audited whose start time
// falls at or after since, for the audit summary endpoint.
func (r *PostgresPredictionRepository) AuditedSince(ctx context.Context, since time.Time) ([]models.Prediction, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT id, race_id, venue, race_number, start_time, discipline,
		       selection_number, selection_name, predicted_2nd_fav_odds,
		       is_goldmine, analyzer, created_at, audit_completed,
		       verdict, match_tier, net_profit
		FROM predictions
		WHERE audit_completed = true AND start_time >= $1
		ORDER BY start_time ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query audited predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(
			&p.ID, &p.RaceID, &p.Venue, &p.RaceNumber, &p.StartTime, &p.Discipline,
			&p.SelectionNumber, &p.SelectionName, &p.Predicted2ndFavOdds,
			&p.IsGoldmine, &p.Analyzer, &p.CreatedAt, &p.AuditCompleted,
			&p.Verdict, &p.MatchTier, &p.NetProfit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audited prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audited predictions: %w", err)
	}

	return predictions, nil
}

// SaveVerdicts writes the audit verdict fields back for each prediction in
// one batch, each mutated exactly once.
func (r *PostgresPredictionRepository) SaveVerdicts(ctx context.Context, predictions []models.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range predictions {
		_, err := tx.Exec(ctx, `
			UPDATE predictions SET
				audit_completed = true,
				verdict = $2,
				match_tier = $3,
				net_profit = $4,
				actual_top_5 = $5,
				actual_2nd_fav_odds = $6,
				selection_position = $7,
				trifecta_payout = $8,
				trifecta_combination = $9,
				superfecta_payout = $10,
				superfecta_combination = $11,
				top1_place_payout = $12,
				top2_place_payout = $13,
				audit_timestamp = $14
			WHERE id = $1
		`,
			p.ID, p.Verdict, p.MatchTier, p.NetProfit,
			p.ActualTop5, p.Actual2ndFavOdds, p.SelectionPosition,
			p.TrifectaPayout, p.TrifectaCombination,
			p.SuperfectaPayout, p.SuperfectaCombination,
			p.Top1PlacePayout, p.Top2PlacePayout, p.AuditTimestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to save verdict for prediction %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit verdict batch: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"healthtrack/pkg/model"
)

// SymptomRepository manages the user's tracked symptom definitions
type SymptomRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSymptomRepository creates a new SymptomRepository
func NewSymptomRepository(db *pgxpool.Pool, logger *zap.Logger) *SymptomRepository {
	return &SymptomRepository{
		db:     db,
		logger: logger,
	}
}

// GetTrackedSymptoms returns every symptom the user tracks
func (r *SymptomRepository) GetTrackedSymptoms(ctx context.Context) ([]model.TrackedSymptom, error) {
	query := `
		SELECT id, name, is_binary
		FROM tracked_symptoms
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to get tracked symptoms", zap.Error(err))
		return nil, fmt.Errorf("failed to get tracked symptoms: %w", err)
	}
	defer rows.Close()

	var symptoms []model.TrackedSymptom
	for rows.Next() {
		var s model.TrackedSymptom
		if err := rows.Scan(&s.ID, &s.Name, &s.IsBinary); err != nil {
			r.logger.Error("failed to scan tracked symptom", zap.Error(err))
			continue
		}
		symptoms = append(symptoms, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating tracked symptoms", zap.Error(err))
		return nil, fmt.Errorf("error iterating tracked symptoms: %w", err)
	}

	return symptoms, nil
}

// SaveTrackedSymptom inserts a symptom definition, ignoring duplicates by name
func (r *SymptomRepository) SaveTrackedSymptom(ctx context.Context, symptom *model.TrackedSymptom) error {
	query := `
		INSERT INTO tracked_symptoms (id, name, is_binary)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, symptom.ID, symptom.Name, symptom.IsBinary)
	if err != nil {
		r.logger.Error("failed to save tracked symptom",
			zap.Error(err),
			zap.String("name", symptom.Name),
		)
		return fmt.Errorf("failed to save tracked symptom: %w", err)
	}

	return nil
}

// DeleteTrackedSymptom removes a symptom definition by id
func (r *SymptomRepository) DeleteTrackedSymptom(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tracked_symptoms WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete tracked symptom",
			zap.Error(err),
			zap.String("id", id),
		)
		return fmt.Errorf("failed to delete tracked symptom: %w", err)
	}
	return nil
}

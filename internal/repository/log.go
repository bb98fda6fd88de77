package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"healthtrack/internal/security"
	"healthtrack/pkg/model"
)

// LogRepository manages daily log persistence. One row exists per calendar
// date; writes upsert on the date key. When an encryptor is configured,
// free-text notes are encrypted at rest.
type LogRepository struct {
	db     *pgxpool.Pool
	enc    *security.Encryptor
	logger *zap.Logger
}

// NewLogRepository creates a new LogRepository. The encryptor may be nil.
func NewLogRepository(db *pgxpool.Pool, enc *security.Encryptor, logger *zap.Logger) *LogRepository {
	return &LogRepository{
		db:     db,
		enc:    enc,
		logger: logger,
	}
}

// GetLogs retrieves the full log history. Filtering and sorting is the
// caller's concern.
func (r *LogRepository) GetLogs(ctx context.Context) ([]model.DailyLog, error) {
	query := `
		SELECT
			log_date, mood, pain_level, energy_level,
			meals, activities, medications_taken,
			medication_adherence, notes, is_flare_day,
			weather, symptom_ratings
		FROM daily_logs
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to get daily logs", zap.Error(err))
		return nil, fmt.Errorf("failed to get daily logs: %w", err)
	}
	defer rows.Close()

	var logs []model.DailyLog
	for rows.Next() {
		var log model.DailyLog
		var adherenceJSON, ratingsJSON []byte

		err := rows.Scan(
			&log.Date,
			&log.Mood,
			&log.PainLevel,
			&log.EnergyLevel,
			&log.Meals,
			&log.Activities,
			&log.MedicationsTaken,
			&adherenceJSON,
			&log.Notes,
			&log.IsFlareDay,
			&log.Weather,
			&ratingsJSON,
		)
		if err != nil {
			r.logger.Error("failed to scan daily log", zap.Error(err))
			continue
		}

		if len(adherenceJSON) > 0 {
			if err := json.Unmarshal(adherenceJSON, &log.MedicationAdherence); err != nil {
				r.logger.Error("failed to decode medication adherence",
					zap.Error(err),
					zap.Time("date", log.Date),
				)
				continue
			}
		}
		if len(ratingsJSON) > 0 {
			if err := json.Unmarshal(ratingsJSON, &log.SymptomRatings); err != nil {
				r.logger.Error("failed to decode symptom ratings",
					zap.Error(err),
					zap.Time("date", log.Date),
				)
				continue
			}
		}

		if r.enc != nil && log.Notes != nil {
			plain, err := r.enc.Decrypt(*log.Notes)
			if err != nil {
				r.logger.Error("failed to decrypt notes",
					zap.Error(err),
					zap.Time("date", log.Date),
				)
				continue
			}
			log.Notes = &plain
		}

		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating daily logs", zap.Error(err))
		return nil, fmt.Errorf("error iterating daily logs: %w", err)
	}

	return logs, nil
}

// SaveLog upserts a daily log by its date
func (r *LogRepository) SaveLog(ctx context.Context, log *model.DailyLog) error {
	adherenceJSON, err := json.Marshal(log.MedicationAdherence)
	if err != nil {
		return fmt.Errorf("failed to encode medication adherence: %w", err)
	}
	ratingsJSON, err := json.Marshal(log.SymptomRatings)
	if err != nil {
		return fmt.Errorf("failed to encode symptom ratings: %w", err)
	}

	notes := log.Notes
	if r.enc != nil && notes != nil {
		sealed, err := r.enc.Encrypt(*notes)
		if err != nil {
			return fmt.Errorf("failed to encrypt notes: %w", err)
		}
		notes = &sealed
	}

	query := `
		INSERT INTO daily_logs (
			log_date, mood, pain_level, energy_level,
			meals, activities, medications_taken,
			medication_adherence, notes, is_flare_day,
			weather, symptom_ratings, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (log_date) DO UPDATE SET
			mood = EXCLUDED.mood,
			pain_level = EXCLUDED.pain_level,
			energy_level = EXCLUDED.energy_level,
			meals = EXCLUDED.meals,
			activities = EXCLUDED.activities,
			medications_taken = EXCLUDED.medications_taken,
			medication_adherence = EXCLUDED.medication_adherence,
			notes = EXCLUDED.notes,
			is_flare_day = EXCLUDED.is_flare_day,
			weather = EXCLUDED.weather,
			symptom_ratings = EXCLUDED.symptom_ratings,
			updated_at = NOW()
	`

	_, err = r.db.Exec(ctx, query,
		log.Date,
		log.Mood,
		log.PainLevel,
		log.EnergyLevel,
		log.Meals,
		log.Activities,
		log.MedicationsTaken,
		adherenceJSON,
		notes,
		log.IsFlareDay,
		log.Weather,
		ratingsJSON,
	)
	if err != nil {
		r.logger.Error("failed to save daily log",
			zap.Error(err),
			zap.Time("date", log.Date),
		)
		return fmt.Errorf("failed to save daily log: %w", err)
	}

	return nil
}

// DeleteLog removes the log for a calendar date
func (r *LogRepository) DeleteLog(ctx context.Context, date time.Time) error {
	_, err := r.db.Exec(ctx, `DELETE FROM daily_logs WHERE log_date = $1`, date)
	if err != nil {
		r.logger.Error("failed to delete daily log",
			zap.Error(err),
			zap.Time("date", date),
		)
		return fmt.Errorf("failed to delete daily log: %w", err)
	}
	return nil
}

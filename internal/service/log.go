package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthtrack/internal/audit"
	"healthtrack/pkg/model"
)

// LogRepositoryInterface defines the interface for daily log storage
type LogRepositoryInterface interface {
	GetLogs(ctx context.Context) ([]model.DailyLog, error)
	SaveLog(ctx context.Context, log *model.DailyLog) error
	DeleteLog(ctx context.Context, date time.Time) error
}

// SymptomRepositoryInterface defines the interface for tracked symptom storage
type SymptomRepositoryInterface interface {
	GetTrackedSymptoms(ctx context.Context) ([]model.TrackedSymptom, error)
	SaveTrackedSymptom(ctx context.Context, symptom *model.TrackedSymptom) error
	DeleteTrackedSymptom(ctx context.Context, id string) error
}

// LogService manages daily log and tracked symptom writes. Successful writes
// clear the chart series cache so subsequent reads see fresh data.
type LogService struct {
	repo     LogRepositoryInterface
	symptoms SymptomRepositoryInterface
	charts   *ChartDataService
	audit    *audit.Logger
	logger   *zap.Logger
}

// NewLogService creates a new LogService. The audit logger may be nil.
func NewLogService(repo LogRepositoryInterface, symptoms SymptomRepositoryInterface, charts *ChartDataService, auditLogger *audit.Logger, logger *zap.Logger) *LogService {
	return &LogService{
		repo:     repo,
		symptoms: symptoms,
		charts:   charts,
		audit:    auditLogger,
		logger:   logger,
	}
}

// ListLogs returns the full log history sorted by date ascending
func (s *LogService) ListLogs(ctx context.Context) ([]model.DailyLog, error) {
	logs, err := s.repo.GetLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})
	return logs, nil
}

// SaveLog validates and upserts a daily log, then clears the series cache
func (s *LogService) SaveLog(ctx context.Context, log *model.DailyLog) error {
	if err := validateLog(log); err != nil {
		return err
	}

	// Normalize the date to midnight UTC so the one-row-per-date upsert key
	// is stable regardless of the caller's clock.
	log.Date = log.Date.Truncate(24 * time.Hour)

	if err := s.repo.SaveLog(ctx, log); err != nil {
		return fmt.Errorf("failed to save log: %w", err)
	}

	s.charts.ClearCache()

	if s.audit != nil {
		s.audit.LogUpdate(ctx, audit.ResourceDailyLog, log.Date.Format("2006-01-02"))
	}

	s.logger.Info("daily log saved",
		zap.Time("date", log.Date),
		zap.Bool("is_flare_day", log.IsFlareDay),
	)

	return nil
}

// DeleteLog removes the log for a date and clears the series cache
func (s *LogService) DeleteLog(ctx context.Context, date time.Time) error {
	if err := s.repo.DeleteLog(ctx, date.Truncate(24*time.Hour)); err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}

	s.charts.ClearCache()

	if s.audit != nil {
		s.audit.LogDelete(ctx, audit.ResourceDailyLog, date.Format("2006-01-02"))
	}

	s.logger.Info("daily log deleted", zap.Time("date", date))
	return nil
}

// TrackedSymptoms returns the user's tracked symptom definitions
func (s *LogService) TrackedSymptoms(ctx context.Context) ([]model.TrackedSymptom, error) {
	symptoms, err := s.symptoms.GetTrackedSymptoms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked symptoms: %w", err)
	}
	return symptoms, nil
}

// TrackSymptom registers a new symptom to track
func (s *LogService) TrackSymptom(ctx context.Context, name string, isBinary bool) (*model.TrackedSymptom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("symptom name is required")
	}

	symptom := &model.TrackedSymptom{
		ID:       uuid.New().String(),
		Name:     name,
		IsBinary: isBinary,
	}
	if err := s.symptoms.SaveTrackedSymptom(ctx, symptom); err != nil {
		return nil, fmt.Errorf("failed to track symptom: %w", err)
	}

	s.charts.ClearCache()

	if s.audit != nil {
		s.audit.LogCreate(ctx, audit.ResourceTrackedSymptom, symptom.ID)
	}

	s.logger.Info("symptom tracked", zap.String("name", name))
	return symptom, nil
}

// UntrackSymptom removes a tracked symptom definition
func (s *LogService) UntrackSymptom(ctx context.Context, id string) error {
	if err := s.symptoms.DeleteTrackedSymptom(ctx, id); err != nil {
		return fmt.Errorf("failed to untrack symptom: %w", err)
	}

	s.charts.ClearCache()

	if s.audit != nil {
		s.audit.LogDelete(ctx, audit.ResourceTrackedSymptom, id)
	}

	s.logger.Info("symptom untracked", zap.String("id", id))
	return nil
}

// validateLog checks rating ranges before a log is persisted
func validateLog(log *model.DailyLog) error {
	if log.Date.IsZero() {
		return fmt.Errorf("log date is required")
	}
	if log.Mood != nil && (*log.Mood < 1 || *log.Mood > 10) {
		return fmt.Errorf("mood must be between 1 and 10")
	}
	if log.PainLevel != nil && (*log.PainLevel < 0 || *log.PainLevel > 10) {
		return fmt.Errorf("pain level must be between 0 and 10")
	}
	if log.EnergyLevel != nil && (*log.EnergyLevel < 1 || *log.EnergyLevel > 10) {
		return fmt.Errorf("energy level must be between 1 and 10")
	}
	for _, rating := range log.SymptomRatings {
		if rating.Rating < 0 || rating.Rating > 10 {
			return fmt.Errorf("symptom rating must be between 0 and 10")
		}
	}
	return nil
}

package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
)

// ResourceType represents the type of resource being changed
type ResourceType string

const (
	ResourceDailyLog        ResourceType = "daily_log"
	ResourceTrackedSymptom  ResourceType = "tracked_symptom"
	ResourceDashboardWidget ResourceType = "dashboard_widget"
	ResourceReport          ResourceType = "report"
)

// Entry represents an audit log entry
type Entry struct {
	OperationType  OperationType
	ResourceType   ResourceType
	ResourceID     string
	Timestamp      time.Time
	AdditionalData map[string]interface{}
}

// Logger records data changes in the audit_logs table
type Logger struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewLogger creates a new audit logger
func NewLogger(db *pgxpool.Pool, logger *zap.Logger) *Logger {
	return &Logger{
		db:     db,
		logger: logger,
	}
}

// Log creates an audit log entry. Failures are logged but never block the
// operation being audited.
func (l *Logger) Log(ctx context.Context, entry Entry) error {
	// Set timestamp if not provided
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// Log to structured logger first
	l.logger.Info("Audit log entry",
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
	)

	// Store in database
	query := `
		INSERT INTO audit_logs (
			operation_type, resource_type, resource_id, timestamp, additional_data
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := l.db.Exec(ctx, query,
		entry.OperationType,
		entry.ResourceType,
		entry.ResourceID,
		entry.Timestamp,
		entry.AdditionalData,
	)

	if err != nil {
		l.logger.Error("Failed to write audit log to database",
			zap.Error(err),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return err
	}

	return nil
}

// LogCreate logs a CREATE operation
func (l *Logger) LogCreate(ctx context.Context, resourceType ResourceType, resourceID string) error {
	return l.Log(ctx, Entry{
		OperationType: OperationCreate,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
	})
}

// LogUpdate logs an UPDATE operation
func (l *Logger) LogUpdate(ctx context.Context, resourceType ResourceType, resourceID string) error {
	return l.Log(ctx, Entry{
		OperationType: OperationUpdate,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
	})
}

// LogDelete logs a DELETE operation
func (l *Logger) LogDelete(ctx context.Context, resourceType ResourceType, resourceID string) error {
	return l.Log(ctx, Entry{
		OperationType: OperationDelete,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
	})
}

// RecentEntries retrieves the most recent audit log entries
func (l *Logger) RecentEntries(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT operation_type, resource_type, resource_id, timestamp
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := l.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.OperationType,
			&e.ResourceType,
			&e.ResourceID,
			&e.Timestamp,
		)
		if err != nil {
			l.logger.Error("Failed to scan audit log", zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"healthtrack/pkg/model"
)

// WidgetRepository persists the dashboard widget layout
type WidgetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewWidgetRepository creates a new WidgetRepository
func NewWidgetRepository(db *pgxpool.Pool, logger *zap.Logger) *WidgetRepository {
	return &WidgetRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all widgets ordered by their layout position
func (r *WidgetRepository) List(ctx context.Context) ([]model.DashboardWidget, error) {
	query := `
		SELECT id, kind, position, width, height, created_at, updated_at
		FROM dashboard_widgets
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to list widgets", zap.Error(err))
		return nil, fmt.Errorf("failed to list widgets: %w", err)
	}
	defer rows.Close()

	var widgets []model.DashboardWidget
	for rows.Next() {
		var w model.DashboardWidget
		err := rows.Scan(&w.ID, &w.Kind, &w.Position, &w.Width, &w.Height, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			r.logger.Error("failed to scan widget", zap.Error(err))
			continue
		}
		widgets = append(widgets, w)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating widgets", zap.Error(err))
		return nil, fmt.Errorf("error iterating widgets: %w", err)
	}

	return widgets, nil
}

// Insert stores a new widget
func (r *WidgetRepository) Insert(ctx context.Context, widget *model.DashboardWidget) error {
	query := `
		INSERT INTO dashboard_widgets (id, kind, position, width, height, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		widget.ID,
		widget.Kind,
		widget.Position,
		widget.Width,
		widget.Height,
		widget.CreatedAt,
		widget.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to insert widget",
			zap.Error(err),
			zap.String("widget_id", widget.ID),
		)
		return fmt.Errorf("failed to insert widget: %w", err)
	}

	return nil
}

// Update replaces a widget's mutable fields
func (r *WidgetRepository) Update(ctx context.Context, widget *model.DashboardWidget) error {
	query := `
		UPDATE dashboard_widgets
		SET kind = $2, position = $3, width = $4, height = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		widget.ID,
		widget.Kind,
		widget.Position,
		widget.Width,
		widget.Height,
		widget.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to update widget",
			zap.Error(err),
			zap.String("widget_id", widget.ID),
		)
		return fmt.Errorf("failed to update widget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("widget not found: %s", widget.ID)
	}

	return nil
}

// Delete removes a widget by id
func (r *WidgetRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dashboard_widgets WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete widget",
			zap.Error(err),
			zap.String("widget_id", id),
		)
		return fmt.Errorf("failed to delete widget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("widget not found: %s", id)
	}

	return nil
}

// UpdatePositions rewrites the layout order in a single transaction. The
// slice index of each id becomes its new position.
func (r *WidgetRepository) UpdatePositions(ctx context.Context, ids []string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for position, id := range ids {
		_, err := tx.Exec(ctx,
			`UPDATE dashboard_widgets SET position = $2, updated_at = NOW() WHERE id = $1`,
			id, position,
		)
		if err != nil {
			r.logger.Error("failed to update widget position",
				zap.Error(err),
				zap.String("widget_id", id),
			)
			return fmt.Errorf("failed to update widget position: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit position updates: %w", err)
	}

	return nil
}

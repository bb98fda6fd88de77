package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthtrack/internal/audit"
	"healthtrack/pkg/model"
)

// WidgetRepositoryInterface defines the interface for widget layout storage
type WidgetRepositoryInterface interface {
	List(ctx context.Context) ([]model.DashboardWidget, error)
	Insert(ctx context.Context, widget *model.DashboardWidget) error
	Update(ctx context.Context, widget *model.DashboardWidget) error
	Delete(ctx context.Context, id string) error
	UpdatePositions(ctx context.Context, ids []string) error
}

// WidgetService manages the user-configurable dashboard widget layout
type WidgetService struct {
	repo   WidgetRepositoryInterface
	audit  *audit.Logger
	logger *zap.Logger
}

// NewWidgetService creates a new WidgetService. The audit logger may be nil.
func NewWidgetService(repo WidgetRepositoryInterface, auditLogger *audit.Logger, logger *zap.Logger) *WidgetService {
	return &WidgetService{
		repo:   repo,
		audit:  auditLogger,
		logger: logger,
	}
}

// List returns the widget layout ordered by position
func (s *WidgetService) List(ctx context.Context) ([]model.DashboardWidget, error) {
	widgets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list widgets: %w", err)
	}
	return widgets, nil
}

// Add appends a widget at the end of the layout
func (s *WidgetService) Add(ctx context.Context, kind string, width, height int) (*model.DashboardWidget, error) {
	if kind == "" {
		return nil, fmt.Errorf("widget kind is required")
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("widget dimensions must be positive")
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list widgets: %w", err)
	}

	now := time.Now()
	widget := &model.DashboardWidget{
		ID:        uuid.New().String(),
		Kind:      kind,
		Position:  len(existing),
		Width:     width,
		Height:    height,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, widget); err != nil {
		s.logger.Error("failed to add widget",
			zap.Error(err),
			zap.String("kind", kind),
		)
		return nil, fmt.Errorf("failed to add widget: %w", err)
	}

	if s.audit != nil {
		s.audit.LogCreate(ctx, audit.ResourceDashboardWidget, widget.ID)
	}

	s.logger.Info("widget added",
		zap.String("widget_id", widget.ID),
		zap.String("kind", kind),
	)
	return widget, nil
}

// Remove deletes a widget and compacts the remaining positions
func (s *WidgetService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to remove widget",
			zap.Error(err),
			zap.String("widget_id", id),
		)
		return fmt.Errorf("failed to remove widget: %w", err)
	}

	remaining, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list widgets: %w", err)
	}
	ids := make([]string, len(remaining))
	for i, w := range remaining {
		ids[i] = w.ID
	}
	if err := s.repo.UpdatePositions(ctx, ids); err != nil {
		return fmt.Errorf("failed to compact widget positions: %w", err)
	}

	if s.audit != nil {
		s.audit.LogDelete(ctx, audit.ResourceDashboardWidget, id)
	}

	s.logger.Info("widget removed", zap.String("widget_id", id))
	return nil
}

// Reorder rewrites the layout order to match the given id sequence
func (s *WidgetService) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("widget id list is required")
	}
	if err := s.repo.UpdatePositions(ctx, ids); err != nil {
		s.logger.Error("failed to reorder widgets", zap.Error(err))
		return fmt.Errorf("failed to reorder widgets: %w", err)
	}
	s.logger.Info("widgets reordered", zap.Int("count", len(ids)))
	return nil
}

// Resize updates a widget's dimensions
func (s *WidgetService) Resize(ctx context.Context, id string, width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("widget dimensions must be positive")
	}

	widgets, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list widgets: %w", err)
	}
	for _, w := range widgets {
		if w.ID != id {
			continue
		}
		w.Width = width
		w.Height = height
		w.UpdatedAt = time.Now()
		if err := s.repo.Update(ctx, &w); err != nil {
			s.logger.Error("failed to resize widget",
				zap.Error(err),
				zap.String("widget_id", id),
			)
			return fmt.Errorf("failed to resize widget: %w", err)
		}
		if s.audit != nil {
			s.audit.LogUpdate(ctx, audit.ResourceDashboardWidget, id)
		}
		return nil
	}
	return fmt.Errorf("widget not found: %s", id)
}

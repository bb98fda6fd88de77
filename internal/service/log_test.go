package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthtrack/pkg/model"
)

// MockLogRepository is a mock implementation of LogRepositoryInterface
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) GetLogs(ctx context.Context) ([]model.DailyLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyLog), args.Error(1)
}

func (m *MockLogRepository) SaveLog(ctx context.Context, log *model.DailyLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockLogRepository) DeleteLog(ctx context.Context, date time.Time) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}

// MockSymptomRepository is a mock implementation of SymptomRepositoryInterface
type MockSymptomRepository struct {
	mock.Mock
}

func (m *MockSymptomRepository) GetTrackedSymptoms(ctx context.Context) ([]model.TrackedSymptom, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrackedSymptom), args.Error(1)
}

func (m *MockSymptomRepository) SaveTrackedSymptom(ctx context.Context, symptom *model.TrackedSymptom) error {
	args := m.Called(ctx, symptom)
	return args.Error(0)
}

func (m *MockSymptomRepository) DeleteTrackedSymptom(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newLogFixture(t *testing.T) (*LogService, *MockLogRepository, *MockSymptomRepository, *ChartDataService) {
	t.Helper()
	repo := new(MockLogRepository)
	symptoms := new(MockSymptomRepository)
	charts, _, _ := newTestChartService(t, nil)
	svc := NewLogService(repo, symptoms, charts, nil, zap.NewNop())
	return svc, repo, symptoms, charts
}

func TestLogService_SaveLog_TruncatesDateAndClearsCache(t *testing.T) {
	svc, repo, _, charts := newLogFixture(t)
	repo.On("SaveLog", mock.Anything, mock.Anything).Return(nil)

	// warm the cache so the write has something to invalidate
	_, err := charts.GetChartData(context.Background(), model.MetricMood, model.PeriodWeek)
	require.NoError(t, err)
	require.Equal(t, 1, charts.cache.len())

	log := &model.DailyLog{
		Date: time.Date(2026, 3, 10, 15, 42, 7, 0, time.UTC),
		Mood: intPtr(6),
	}
	err = svc.SaveLog(context.Background(), log)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), log.Date)
	assert.Equal(t, 0, charts.cache.len())
	repo.AssertExpectations(t)
}

func TestLogService_SaveLog_Validation(t *testing.T) {
	svc, repo, _, _ := newLogFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		log  model.DailyLog
	}{
		{"missing date", model.DailyLog{Mood: intPtr(5)}},
		{"mood too low", model.DailyLog{Date: date, Mood: intPtr(0)}},
		{"mood too high", model.DailyLog{Date: date, Mood: intPtr(11)}},
		{"negative pain", model.DailyLog{Date: date, PainLevel: intPtr(-1)}},
		{"pain too high", model.DailyLog{Date: date, PainLevel: intPtr(11)}},
		{"energy too low", model.DailyLog{Date: date, EnergyLevel: intPtr(0)}},
		{"symptom rating out of range", model.DailyLog{Date: date, SymptomRatings: []model.SymptomRating{
			{SymptomName: "headache", Rating: 11},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SaveLog(context.Background(), &tt.log)
			assert.Error(t, err)
		})
	}
	repo.AssertNotCalled(t, "SaveLog", mock.Anything, mock.Anything)
}

func TestLogService_SaveLog_BoundaryValuesAccepted(t *testing.T) {
	svc, repo, _, _ := newLogFixture(t)
	repo.On("SaveLog", mock.Anything, mock.Anything).Return(nil)

	log := &model.DailyLog{
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Mood:        intPtr(1),
		PainLevel:   intPtr(0),
		EnergyLevel: intPtr(10),
		SymptomRatings: []model.SymptomRating{
			{SymptomName: "headache", Rating: 0},
			{SymptomName: "nausea", Rating: 10},
		},
	}

	assert.NoError(t, svc.SaveLog(context.Background(), log))
}

func TestLogService_ListLogs_SortsAscending(t *testing.T) {
	svc, repo, _, _ := newLogFixture(t)
	repo.On("GetLogs", mock.Anything).Return([]model.DailyLog{
		{Date: day(0)},
		{Date: day(5)},
		{Date: day(2)},
	}, nil)

	logs, err := svc.ListLogs(context.Background())

	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, day(5), logs[0].Date)
	assert.Equal(t, day(2), logs[1].Date)
	assert.Equal(t, day(0), logs[2].Date)
}

func TestLogService_DeleteLog_ClearsCache(t *testing.T) {
	svc, repo, _, charts := newLogFixture(t)
	date := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	repo.On("DeleteLog", mock.Anything, date.Truncate(24*time.Hour)).Return(nil)

	_, err := charts.GetChartData(context.Background(), model.MetricMood, model.PeriodWeek)
	require.NoError(t, err)

	err = svc.DeleteLog(context.Background(), date)

	require.NoError(t, err)
	assert.Equal(t, 0, charts.cache.len())
	repo.AssertExpectations(t)
}

func TestLogService_TrackSymptom(t *testing.T) {
	svc, _, symptoms, _ := newLogFixture(t)
	symptoms.On("SaveTrackedSymptom", mock.Anything, mock.Anything).Return(nil)

	symptom, err := svc.TrackSymptom(context.Background(), "  headache ", false)

	require.NoError(t, err)
	assert.Equal(t, "headache", symptom.Name)
	assert.NotEmpty(t, symptom.ID)
	assert.False(t, symptom.IsBinary)
	symptoms.AssertExpectations(t)
}

func TestLogService_TrackSymptom_EmptyName(t *testing.T) {
	svc, _, symptoms, _ := newLogFixture(t)

	_, err := svc.TrackSymptom(context.Background(), "   ", false)

	assert.Error(t, err)
	symptoms.AssertNotCalled(t, "SaveTrackedSymptom", mock.Anything, mock.Anything)
}

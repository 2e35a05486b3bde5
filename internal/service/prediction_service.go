package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/catalog"
	"github.com/noah-isme/hurricane-api/internal/grading"
	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

type targetState interface {
	LoadSubjects(ctx context.Context) ([]models.Subject, error)
	LoadTarget(ctx context.Context) (models.PredictionTarget, error)
	SaveTarget(ctx context.Context, target models.PredictionTarget) error
}

// PredictionReport bundles the target with the per-subject plans.
type PredictionReport struct {
	Target      models.PredictionTarget `json:"target"`
	Predictions []models.Prediction     `json:"predictions"`
}

// PredictionService manages the goal, the strong set and the predictions.
type PredictionService struct {
	state   targetState
	catalog *catalog.Catalog
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewPredictionService constructs the service.
func NewPredictionService(state targetState, cat *catalog.Catalog, logger *zap.Logger) *PredictionService {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionService{state: state, catalog: cat, logger: logger}
}

// Target returns the stored goal and strong set.
func (s *PredictionService) Target(ctx context.Context) (models.PredictionTarget, error) {
	target, err := s.state.LoadTarget(ctx)
	if err != nil {
		return target, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prediction target")
	}
	return target, nil
}

// SetGoal changes the rank goal.
func (s *PredictionService) SetGoal(ctx context.Context, goal models.Goal) (models.PredictionTarget, error) {
	if !goal.Valid() {
		return models.PredictionTarget{}, appErrors.Clone(appErrors.ErrValidation, "goal must be excellent or good")
	}
	return s.update(ctx, func(t *models.PredictionTarget) { t.Goal = goal })
}

// ToggleStrong flags or unflags a subject as strong. Adding to a full set is
// a no-op.
func (s *PredictionService) ToggleStrong(ctx context.Context, name string) (models.PredictionTarget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.PredictionTarget{}, appErrors.Clone(appErrors.ErrValidation, "subject name required")
	}
	return s.update(ctx, func(t *models.PredictionTarget) { t.Strong = t.Strong.Toggle(name) })
}

// Predict back-solves every graded subject in display order.
func (s *PredictionService) Predict(ctx context.Context) (*PredictionReport, error) {
	target, err := s.Target(ctx)
	if err != nil {
		return nil, err
	}
	subjects, err := s.state.LoadSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	s.catalog.Sort(subjects)
	return &PredictionReport{Target: target, Predictions: grading.PredictAll(subjects, target)}, nil
}

func (s *PredictionService) update(ctx context.Context, apply func(*models.PredictionTarget)) (models.PredictionTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.Target(ctx)
	if err != nil {
		return target, err
	}
	apply(&target)
	if err := s.state.SaveTarget(ctx, target); err != nil {
		return target, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store prediction target")
	}
	s.logger.Debug("prediction target updated", zap.String("goal", string(target.Goal)), zap.Int("strong", len(target.Strong)))
	return target, nil
}

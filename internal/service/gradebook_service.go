package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/catalog"
	"github.com/noah-isme/hurricane-api/internal/grading"
	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

type subjectState interface {
	LoadSubjects(ctx context.Context) ([]models.Subject, error)
	SaveSubjects(ctx context.Context, subjects []models.Subject) error
}

// SuggestionPrefetcher warms practice suggestions for a subject.
type SuggestionPrefetcher interface {
	Prefetch(subject string, score float64)
}

// DefaultPracticeScore is assumed for subjects without any average yet.
const DefaultPracticeScore = 7.0

// SelectSubjectsRequest replaces the tracked subject list.
type SelectSubjectsRequest struct {
	Subjects []string `json:"subjects" validate:"required,min=1,dive,required,max=100"`
}

// SetScoreRequest writes or clears one assessment slot.
type SetScoreRequest struct {
	Semester models.Semester   `json:"semester" validate:"required,oneof=hk1 hk2"`
	Field    models.ScoreField `json:"field" validate:"required,oneof=tx1 tx2 tx3 tx4 tx5 gk ck"`
	Value    *float64          `json:"value"`
}

// ToggleAssessmentRequest flips a pass-fail slot. Sending the stored value
// again clears the slot.
type ToggleAssessmentRequest struct {
	Semester models.Semester   `json:"semester" validate:"required,oneof=hk1 hk2"`
	Field    models.ScoreField `json:"field" validate:"required,oneof=tx1 tx2 tx3 gk ck"`
	Pass     *bool             `json:"pass" validate:"required"`
}

// SubjectRow is a subject with its result for the requested period.
type SubjectRow struct {
	models.Subject
	Value  *float64           `json:"value"`
	Status *models.PassStatus `json:"status"`
}

// SubjectList is the ordered subject table of a period.
type SubjectList struct {
	Period   models.Period `json:"period"`
	Subjects []SubjectRow  `json:"subjects"`
}

// GradebookService manages subjects and their assessments. Mutations are
// serialised so every write is a full read-modify-write of the collection.
type GradebookService struct {
	state     subjectState
	catalog   *catalog.Catalog
	prefetch  SuggestionPrefetcher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	mu        sync.Mutex
}

// NewGradebookService constructs the service. prefetch and metrics may be nil.
func NewGradebookService(state subjectState, cat *catalog.Catalog, prefetch SuggestionPrefetcher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GradebookService {
	if cat == nil {
		cat = catalog.Default()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookService{state: state, catalog: cat, prefetch: prefetch, metrics: metrics, validator: validate, logger: logger}
}

// SelectSubjects replaces the subject list with fresh, empty subjects.
func (s *GradebookService) SelectSubjects(ctx context.Context, req SelectSubjectsRequest) ([]models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "select at least one subject")
	}

	seen := make(map[string]struct{}, len(req.Subjects))
	subjects := make([]models.Subject, 0, len(req.Subjects))
	for _, raw := range req.Subjects {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		subjects = append(subjects, models.Subject{
			ID:   uuid.NewString(),
			Name: name,
			Type: s.catalog.TypeOf(name),
		})
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "select at least one subject")
	}
	subjects = grading.DeriveAll(subjects)
	s.catalog.Sort(subjects)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.SaveSubjects(ctx, subjects); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store subjects")
	}
	s.logger.Info("subjects selected", zap.Int("count", len(subjects)))
	return subjects, nil
}

// Subjects returns the stored subjects in display order.
func (s *GradebookService) Subjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.state.LoadSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	s.catalog.Sort(subjects)
	return subjects, nil
}

// List returns the subject table for a period.
func (s *GradebookService) List(ctx context.Context, period models.Period) (*SubjectList, error) {
	if !period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period must be hk1, hk2 or yearly")
	}
	subjects, err := s.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]SubjectRow, len(subjects))
	for i, subject := range subjects {
		row := SubjectRow{Subject: subject}
		if subject.IsGraded() {
			row.Value = subject.ValueFor(period)
		} else {
			row.Status = subject.StatusFor(period)
		}
		rows[i] = row
	}
	return &SubjectList{Period: period, Subjects: rows}, nil
}

// SetScore writes or clears one slot. Values outside [0, 10] are clamped.
func (s *GradebookService) SetScore(ctx context.Context, id string, req SetScoreRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	value := req.Value
	if value != nil {
		value = models.Float(models.ClampScore(*value))
	}
	return s.mutate(ctx, id, req.Semester, func(subject *models.Subject) error {
		if !subject.IsGraded() {
			if !passFailSlot(req.Field) {
				return appErrors.Clone(appErrors.ErrValidation, "pass-fail subjects only use tx1-tx3, gk and ck")
			}
			// pass-fail slots clamp into [0, 1]; only fractions are rejected
			if value != nil && *value > 1 {
				value = models.Float(1)
			}
			if value != nil && *value != 0 && *value != 1 {
				return appErrors.Clone(appErrors.ErrValidation, "pass-fail assessments are 1 (pass) or 0 (fail)")
			}
		}
		return subject.Entry(req.Semester).Set(req.Field, value)
	})
}

// ToggleAssessment sets a pass-fail slot, or clears it when it already holds
// the requested value.
func (s *GradebookService) ToggleAssessment(ctx context.Context, id string, req ToggleAssessmentRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment payload")
	}
	return s.mutate(ctx, id, req.Semester, func(subject *models.Subject) error {
		if subject.IsGraded() {
			return appErrors.Clone(appErrors.ErrValidation, "only pass-fail subjects can be toggled")
		}
		target := 0.0
		if *req.Pass {
			target = 1
		}
		entry := subject.Entry(req.Semester)
		current, err := entry.Field(req.Field)
		if err != nil {
			return err
		}
		if current != nil && *current == target {
			return entry.Set(req.Field, nil)
		}
		return entry.Set(req.Field, &target)
	})
}

// Summary computes GPA, rank and chart points for a period.
func (s *GradebookService) Summary(ctx context.Context, period models.Period) (*models.Summary, error) {
	if !period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period must be hk1, hk2 or yearly")
	}
	subjects, err := s.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	summary := grading.Summarize(subjects, period)
	return &summary, nil
}

// ResetSubjects removes every subject and its scores.
func (s *GradebookService) ResetSubjects(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.SaveSubjects(ctx, []models.Subject{}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset subjects")
	}
	s.logger.Info("subjects reset")
	return nil
}

func (s *GradebookService) mutate(ctx context.Context, id string, semester models.Semester, apply func(*models.Subject) error) (*models.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.state.LoadSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	idx := -1
	for i := range subjects {
		if subjects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	if err := apply(&subjects[idx]); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score field")
	}
	subjects[idx] = grading.Derive(subjects[idx])

	if err := s.state.SaveSubjects(ctx, subjects); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store subjects")
	}
	s.metrics.ObserveScoreWrite(string(semester))

	updated := subjects[idx]
	if updated.IsGraded() && s.prefetch != nil {
		s.prefetch.Prefetch(updated.Name, practiceScore(updated))
	}
	return &updated, nil
}

func passFailSlot(field models.ScoreField) bool {
	for _, f := range models.PassFailFields {
		if f == field {
			return true
		}
	}
	return false
}

// practiceScore is the most recent average of a subject.
func practiceScore(subject models.Subject) float64 {
	for _, p := range []models.Period{models.PeriodYearly, models.PeriodHK2, models.PeriodHK1} {
		if v := subject.ValueFor(p); v != nil {
			return *v
		}
	}
	return DefaultPracticeScore
}

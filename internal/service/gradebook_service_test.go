package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hurricane-api/internal/models"
	"github.com/noah-isme/hurricane-api/internal/repository"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

type recordingPrefetcher struct {
	mu    sync.Mutex
	calls []string
	score float64
}

func (p *recordingPrefetcher) Prefetch(subject string, score float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, subject)
	p.score = score
}

func newGradebook(t *testing.T) (*GradebookService, *repository.StateRepository, *recordingPrefetcher) {
	t.Helper()
	state := newTestState(t)
	prefetch := &recordingPrefetcher{}
	return NewGradebookService(state, nil, prefetch, NewMetricsService(), nil, nil), state, prefetch
}

func subjectID(t *testing.T, subjects []models.Subject, name string) string {
	t.Helper()
	for _, s := range subjects {
		if s.Name == name {
			return s.ID
		}
	}
	t.Fatalf("subject %s not found", name)
	return ""
}

func TestSelectSubjectsCreatesFreshSortedSubjects(t *testing.T) {
	svc, _, _ := newGradebook(t)
	ctx := context.Background()

	subjects, err := svc.SelectSubjects(ctx, SelectSubjectsRequest{Subjects: []string{"Thể dục", "Vật lí", "Toán", "Toán", " "}})
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	assert.Equal(t, "Toán", subjects[0].Name)
	assert.Equal(t, "Vật lí", subjects[1].Name)
	assert.Equal(t, models.SubjectPassFail, subjects[2].Type)
	assert.NotEmpty(t, subjects[0].ID)
	assert.NotEqual(t, subjects[0].ID, subjects[1].ID)
	assert.Nil(t, subjects[0].Avg1)

	stored, err := svc.Subjects(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestSelectSubjectsRequiresAName(t *testing.T) {
	svc, _, _ := newGradebook(t)
	_, err := svc.SelectSubjects(context.Background(), SelectSubjectsRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSetScoreClampsDerivesAndPrefetches(t *testing.T) {
	svc, _, prefetch := newGradebook(t)
	ctx := context.Background()
	subjects, err := svc.SelectSubjects(ctx, SelectSubjectsRequest{Subjects: []string{"Toán"}})
	require.NoError(t, err)
	id := subjects[0].ID

	for field, value := range map[models.ScoreField]float64{models.FieldTX1: 8, models.FieldTX2: 9, models.FieldTX3: 7, models.FieldGK: 8, models.FieldCK: 9} {
		_, err := svc.SetScore(ctx, id, SetScoreRequest{Semester: models.SemesterOne, Field: field, Value: models.Float(value)})
		require.NoError(t, err)
	}
	updated, err := svc.SetScore(ctx, id, SetScoreRequest{Semester: models.SemesterOne, Field: models.FieldTX4, Value: models.Float(12)})
	require.NoError(t, err)
	assert.Equal(t, 10.0, *updated.HK1.TX4)
	// (8+9+7+10 + 2*8 + 3*9) / 9 = 87/9
	require.NotNil(t, updated.Avg1)
	assert.Equal(t, 9.7, *updated.Avg1)
	assert.NotEmpty(t, updated.Comment)

	assert.Len(t, prefetch.calls, 6)
	assert.Equal(t, 9.7, prefetch.score)

	list, err := svc.List(ctx, models.PeriodHK1)
	require.NoError(t, err)
	require.Len(t, list.Subjects, 1)
	assert.Equal(t, 9.7, *list.Subjects[0].Value)

	cleared, err := svc.SetScore(ctx, id, SetScoreRequest{Semester: models.SemesterOne, Field: models.FieldCK})
	require.NoError(t, err)
	assert.Nil(t, cleared.HK1.CK)
	assert.Nil(t, cleared.Avg1)
}

func TestSetScoreErrors(t *testing.T) {
	svc, _, prefetch := newGradebook(t)
	ctx := context.Background()
	subjects, err := svc.SelectSubjects(ctx, SelectSubjectsRequest{Subjects: []string{"Thể dục"}})
	require.NoError(t, err)
	id := subjects[0].ID

	_, err = svc.SetScore(ctx, "missing", SetScoreRequest{Semester: models.SemesterOne, Field: models.FieldTX1, Value: models.Float(1)})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.SetScore(ctx, id, SetScoreRequest{Semester: models.SemesterOne, Field: models.FieldTX4, Value: models.Float(1)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.SetScore(ctx, id, SetScoreRequest{Semester: models.SemesterOne, Field: models.FieldTX1, Value: models.Float(0.5)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.SetScore(ctx, id, SetScoreRequest{Semester: "hk3", Field: models.FieldTX1})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	assert.Empty(t, prefetch.calls)
}

func TestSetScoreClampsPassFailValues(t *testing.T) {
	svc, _, _ := newGradebook(t)
	ctx := context.Background()
	subjects, err := svc.SelectSubjects(ctx, SelectSubjectsRequest{Subjects: []string{"Thể dục"}})
	require.NoError(t, err)
	id := subjects[0].ID

	high, err := svc.SetScore(ctx, id, SetScoreRequest{Semester: models.SemesterOne, Field: models.FieldTX1, Value: models.Float(11)})
	require.NoError(t, err)
	require.NotNil(t, high.HK1.TX1)
	assert.Equal(t, 1.0, *high.HK1.TX1)

	low, err := svc.SetScore(ctx, id, SetScoreRequest{Semester: models.SemesterOne, Field: models.FieldGK, Value: models.Float(-3)})
	require.NoError(t, err)
	require.NotNil(t, low.HK1.GK)
	assert.Equal(t, 0.0, *low.HK1.GK)

	_, err = svc.SetScore(ctx, id, SetScoreRequest{Semester: models.SemesterOne, Field: models.FieldCK, Value: models.Float(0.5)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	stored, err := svc.Subjects(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored[0].HK1.CK)
}

func TestToggleAssessment(t *testing.T) {
	svc, _, _ := newGradebook(t)
	ctx := context.Background()
	subjects, err := svc.SelectSubjects(ctx, SelectSubjectsRequest{Subjects: []string{"Toán", "Thể dục"}})
	require.NoError(t, err)
	id := subjectID(t, subjects, "Thể dục")
	pass := true

	for _, field := range models.PassFailFields {
		_, err := svc.ToggleAssessment(ctx, id, ToggleAssessmentRequest{Semester: models.SemesterTwo, Field: field, Pass: &pass})
		require.NoError(t, err)
	}
	subjects, err = svc.Subjects(ctx)
	require.NoError(t, err)
	updated := subjects[1]
	require.NotNil(t, updated.Status2)
	assert.Equal(t, models.StatusPass, *updated.Status2)

	toggled, err := svc.ToggleAssessment(ctx, id, ToggleAssessmentRequest{Semester: models.SemesterTwo, Field: models.FieldGK, Pass: &pass})
	require.NoError(t, err)
	assert.Nil(t, toggled.HK2.GK)
	assert.Nil(t, toggled.Status2)

	_, err = svc.ToggleAssessment(ctx, subjectID(t, subjects, "Toán"), ToggleAssessmentRequest{Semester: models.SemesterTwo, Field: models.FieldGK, Pass: &pass})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSummaryAndReset(t *testing.T) {
	svc, state, _ := newGradebook(t)
	ctx := context.Background()

	names := []string{"Toán", "Ngữ văn", "Tiếng Anh", "Vật lí", "Hóa học", "Sinh học"}
	subjects := make([]models.Subject, len(names))
	for i, name := range names {
		subjects[i] = models.Subject{ID: name, Name: name, Type: models.SubjectGraded, HK1: fullEntry(9, 9, 9)}
	}
	require.NoError(t, state.SaveSubjects(ctx, subjects))

	summary, err := svc.Summary(ctx, models.PeriodHK1)
	require.NoError(t, err)
	assert.Equal(t, models.RankExcellent, summary.Rank)
	assert.Equal(t, 9.0, summary.GPA)

	_, err = svc.Summary(ctx, "term")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	require.NoError(t, svc.ResetSubjects(ctx))
	stored, err := svc.Subjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

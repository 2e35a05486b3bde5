package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hurricane-api/internal/ai"
	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

type fakePracticeAI struct {
	mu          sync.Mutex
	err         error
	suggestions []models.ExerciseSuggestion
	quiz        models.Quiz
	calls       []string
	lastScore   float64
	lastClass   string
	lastMime    string
}

func (f *fakePracticeAI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePracticeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakePracticeAI) Suggest(_ context.Context, subject string, score float64, className string) ([]models.ExerciseSuggestion, error) {
	f.record("suggest:" + subject)
	f.mu.Lock()
	f.lastScore, f.lastClass = score, className
	f.mu.Unlock()
	return f.suggestions, f.err
}

func (f *fakePracticeAI) Search(_ context.Context, query, _ string) ([]models.ExerciseSuggestion, error) {
	f.record("search:" + query)
	return f.suggestions, f.err
}

func (f *fakePracticeAI) Quiz(_ context.Context, topic, _ string) (models.Quiz, error) {
	f.record("quiz:" + topic)
	return f.quiz, f.err
}

func (f *fakePracticeAI) QuizFromDocument(_ context.Context, _ []byte, mimeType, _ string) (models.Quiz, error) {
	f.record("document")
	f.mu.Lock()
	f.lastMime = mimeType
	f.mu.Unlock()
	return f.quiz, f.err
}

var sampleSuggestions = []models.ExerciseSuggestion{
	{Topic: "Hàm số bậc hai", Difficulty: models.DifficultyMedium, Count: 10, Description: "Luyện đồ thị."},
}

func sampleQuiz() models.Quiz {
	return models.Quiz{Topic: "Hàm số", Questions: []models.Question{
		{ID: 1, Question: "1+1?", Options: []string{"1", "2", "3", "4"}, CorrectAnswer: 1, Explanation: "Cộng."},
		{ID: 2, Question: "2*2?", Options: []string{"2", "3", "4", "5"}, CorrectAnswer: 2, Explanation: "Nhân."},
	}}
}

func TestSuggestUsesCacheAfterFirstCall(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	fake := &fakePracticeAI{suggestions: sampleSuggestions}
	cache := newMemoryCache()
	svc := NewPracticeService(fake, state, cache, nil, PracticeConfig{CacheTTL: time.Hour}, nil)

	first, err := svc.Suggest(ctx, "Toán", 5.25)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 5.3, first.Score)
	assert.Equal(t, "11A1", fake.lastClass)

	second, err := svc.Suggest(ctx, "Toán", 5.3)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, sampleSuggestions, second.Suggestions)
	assert.Equal(t, 1, fake.callCount())
}

func TestSuggestFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	cache := newMemoryCache()
	svc := NewPracticeService(&fakePracticeAI{err: ai.ErrUnavailable}, state, cache, nil, PracticeConfig{}, nil)

	result, err := svc.Suggest(ctx, "Hóa học", 4)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, MsgPracticeUnavailable, result.Message)
	assert.Equal(t, ai.DefaultSuggestions("Hóa học"), result.Suggestions)
	assert.Zero(t, cache.size())
}

func TestSuggestRequiresProfile(t *testing.T) {
	svc := NewPracticeService(&fakePracticeAI{}, newTestState(t), nil, nil, PracticeConfig{}, nil)
	_, err := svc.Suggest(context.Background(), "Toán", 7)
	assert.True(t, errors.Is(err, appErrors.ErrNoProfile))
}

func TestSearchDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	svc := NewPracticeService(&fakePracticeAI{err: ai.ErrUnavailable}, state, nil, nil, PracticeConfig{}, nil)

	result, err := svc.Suggestions(ctx, SuggestRequest{Query: " tích phân "})
	require.NoError(t, err)
	assert.Equal(t, "tích phân", result.Query)
	assert.True(t, result.Degraded)
	assert.Empty(t, result.Suggestions)
	assert.NotNil(t, result.Suggestions)
}

func TestSmartSuggestPicksWeakestSubject(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	require.NoError(t, state.SaveSubjects(ctx, []models.Subject{
		{ID: "t", Name: "Toán", Type: models.SubjectGraded, HK1: fullEntry(8, 8, 8)},
		{ID: "v", Name: "Vật lí", Type: models.SubjectGraded, HK1: fullEntry(6, 6, 6)},
		{ID: "h", Name: "Hóa học", Type: models.SubjectGraded, HK1: fullEntry(5, 5, 5)},
	}))
	fake := &fakePracticeAI{suggestions: sampleSuggestions}
	svc := NewPracticeService(fake, state, nil, nil, PracticeConfig{}, nil)

	result, err := svc.Suggestions(ctx, SuggestRequest{Period: models.PeriodHK1})
	require.NoError(t, err)
	assert.Equal(t, "Hóa học", result.Subject)
	assert.Equal(t, 5.0, fake.lastScore)
}

func TestSmartSuggestFallsBackToFirstGraded(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	require.NoError(t, state.SaveSubjects(ctx, []models.Subject{
		{ID: "p", Name: "Thể dục", Type: models.SubjectPassFail},
		{ID: "v", Name: "Vật lí", Type: models.SubjectGraded},
	}))
	fake := &fakePracticeAI{suggestions: sampleSuggestions}
	svc := NewPracticeService(fake, state, nil, nil, PracticeConfig{}, nil)

	result, err := svc.SmartSuggest(ctx, models.PeriodHK2)
	require.NoError(t, err)
	assert.Equal(t, "Vật lí", result.Subject)
	assert.Equal(t, DefaultPracticeScore, fake.lastScore)

	require.NoError(t, state.SaveSubjects(ctx, nil))
	_, err = svc.SmartSuggest(ctx, models.PeriodHK2)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestGenerateQuizFailureMapsToUnavailable(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	svc := NewPracticeService(&fakePracticeAI{err: ai.ErrUnavailable}, state, nil, nil, PracticeConfig{}, nil)

	_, err := svc.GenerateQuiz(ctx, QuizRequest{Topic: "Hàm số"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrAIUnavailable))
	assert.Equal(t, MsgPracticeUnavailable, appErrors.FromError(err).Message)
}

func TestGenerateQuizFromDocument(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	fake := &fakePracticeAI{quiz: sampleQuiz()}
	svc := NewPracticeService(fake, state, nil, nil, PracticeConfig{MaxUploadBytes: 16}, nil)

	quiz, err := svc.GenerateQuizFromDocument(ctx, []byte("%PDF-1.4 tiny"), "")
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 2)
	assert.Equal(t, "application/pdf", fake.lastMime)

	_, err = svc.GenerateQuizFromDocument(ctx, make([]byte, 17), "application/pdf")
	assert.True(t, errors.Is(err, appErrors.ErrPayloadTooBig))

	_, err = svc.GenerateQuizFromDocument(ctx, []byte("x"), "application/zip")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, MsgDocumentRejected, appErrors.FromError(err).Message)
}

func TestGradeQuiz(t *testing.T) {
	svc := NewPracticeService(&fakePracticeAI{}, newTestState(t), nil, nil, PracticeConfig{}, nil)
	right := 1

	result, err := svc.GradeQuiz(GradeQuizRequest{Quiz: sampleQuiz(), Answers: []*int{&right}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 5.0, result.Score)
	assert.True(t, result.Results[0].IsRight)
	assert.Nil(t, result.Results[1].Selected)

	_, err = svc.GradeQuiz(GradeQuizRequest{Quiz: models.Quiz{}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestPrefetchWarmsCache(t *testing.T) {
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	fake := &fakePracticeAI{suggestions: sampleSuggestions}
	cache := newMemoryCache()
	svc := NewPracticeService(fake, state, cache, nil, PracticeConfig{PrefetchEnabled: true, PrefetchWorkers: 1}, nil)
	svc.Start(ctx)
	defer svc.Stop()

	svc.Prefetch("Toán", 8.4)
	assert.Eventually(t, func() bool { return cache.size() == 1 }, 2*time.Second, 10*time.Millisecond)

	result, err := svc.Suggest(ctx, "Toán", 8.4)
	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, 1, fake.callCount())
}

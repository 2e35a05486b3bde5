package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/ai"
	"github.com/noah-isme/hurricane-api/internal/catalog"
	"github.com/noah-isme/hurricane-api/internal/grading"
	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
	"github.com/noah-isme/hurricane-api/pkg/jobs"
)

// User-facing messages of the practice assistant.
const (
	MsgPracticeUnavailable = "Không thể kết nối với Hurricane AI Practice lúc này."
	MsgDocumentRejected    = "Không thể tạo đề từ tài liệu này. Vui lòng đảm bảo file rõ nét và thuộc định dạng hỗ trợ."
)

// WeakScoreThreshold marks subjects that smart suggestions focus on.
const WeakScoreThreshold = 6.5

const prefetchJobType = "suggestions"

var supportedDocumentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"image/webp":      {},
	"text/plain":      {},
}

type practiceAI interface {
	Suggest(ctx context.Context, subject string, score float64, className string) ([]models.ExerciseSuggestion, error)
	Search(ctx context.Context, query, className string) ([]models.ExerciseSuggestion, error)
	Quiz(ctx context.Context, topic, className string) (models.Quiz, error)
	QuizFromDocument(ctx context.Context, data []byte, mimeType, className string) (models.Quiz, error)
}

type practiceState interface {
	LoadProfile(ctx context.Context) (*models.UserProfile, error)
	LoadSubjects(ctx context.Context) ([]models.Subject, error)
}

type suggestionCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// PracticeConfig tunes caching, uploads and background prefetching.
type PracticeConfig struct {
	CacheTTL        time.Duration
	MaxUploadBytes  int64
	PrefetchEnabled bool
	PrefetchWorkers int
	PrefetchRetries int
}

// SuggestRequest selects the suggestion flow: a free-text query, a given
// subject, or the weakest subject of the period.
type SuggestRequest struct {
	Query   string        `json:"query" validate:"max=200"`
	Subject string        `json:"subject" validate:"max=100"`
	Score   *float64      `json:"score" validate:"omitempty,min=0,max=10"`
	Period  models.Period `json:"period" validate:"omitempty,oneof=hk1 hk2 yearly"`
}

// QuizRequest asks for a topic quiz.
type QuizRequest struct {
	Topic string `json:"topic" validate:"required,max=200"`
}

// GradeQuizRequest submits one answer index per question; null means skipped.
type GradeQuizRequest struct {
	Quiz    models.Quiz `json:"quiz" validate:"required"`
	Answers []*int      `json:"answers"`
}

type prefetchPayload struct {
	Subject string
	Score   float64
}

// PracticeService produces exercise suggestions and quizzes.
type PracticeService struct {
	ai      practiceAI
	state   practiceState
	cache   suggestionCache
	catalog *catalog.Catalog
	config  PracticeConfig
	queue   *jobs.Queue
	logger  *zap.Logger
}

// NewPracticeService constructs the service. cache may be nil.
func NewPracticeService(client practiceAI, state practiceState, cache suggestionCache, cat *catalog.Catalog, config PracticeConfig, logger *zap.Logger) *PracticeService {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 10 << 20
	}
	s := &PracticeService{ai: client, state: state, cache: cache, catalog: cat, config: config, logger: logger}
	if config.PrefetchEnabled {
		s.queue = jobs.NewQueue("practice-prefetch", s.handlePrefetch, jobs.QueueConfig{
			Workers:    config.PrefetchWorkers,
			MaxRetries: config.PrefetchRetries,
			RetryDelay: 2 * time.Second,
			Logger:     logger,
		})
	}
	return s
}

// MaxUploadBytes is the largest document GenerateQuizFromDocument accepts.
func (s *PracticeService) MaxUploadBytes() int64 {
	return s.config.MaxUploadBytes
}

// Start launches the prefetch workers.
func (s *PracticeService) Start(ctx context.Context) {
	if s.queue != nil {
		s.queue.Start(ctx)
	}
}

// Stop waits for the prefetch workers to exit.
func (s *PracticeService) Stop() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// Prefetch warms the suggestion cache for a subject in the background.
// Duplicate and overflowing requests are dropped.
func (s *PracticeService) Prefetch(subject string, score float64) {
	if s.queue == nil || s.cache == nil {
		return
	}
	err := s.queue.TryEnqueue(jobs.Job{
		Key:     "suggest:" + subject,
		Type:    prefetchJobType,
		Payload: prefetchPayload{Subject: subject, Score: score},
	})
	if err != nil {
		s.logger.Debug("prefetch skipped", zap.String("subject", subject), zap.Error(err))
	}
}

// Suggestions dispatches a request to Search, Suggest or SmartSuggest.
func (s *PracticeService) Suggestions(ctx context.Context, req SuggestRequest) (*models.SuggestionResult, error) {
	switch {
	case strings.TrimSpace(req.Query) != "":
		return s.Search(ctx, req.Query)
	case strings.TrimSpace(req.Subject) != "":
		score := DefaultPracticeScore
		if req.Score != nil {
			score = *req.Score
		}
		return s.Suggest(ctx, req.Subject, score)
	default:
		period := req.Period
		if period == "" {
			period = models.PeriodHK1
		}
		return s.SmartSuggest(ctx, period)
	}
}

// Suggest returns topics for a subject. Assistant failures fall back to the
// default suggestions with Degraded set.
func (s *PracticeService) Suggest(ctx context.Context, subject string, score float64) (*models.SuggestionResult, error) {
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	subject = strings.TrimSpace(subject)
	score = grading.Round1(models.ClampScore(score))
	result := &models.SuggestionResult{Subject: subject, Score: score}

	key := suggestionKey(subject, score, profile.ClassName)
	if s.cache != nil {
		var cached []models.ExerciseSuggestion
		if hit, _ := s.cache.Get(ctx, key, &cached); hit && len(cached) > 0 {
			result.Suggestions = cached
			result.Cached = true
			return result, nil
		}
	}

	suggestions, err := s.ai.Suggest(ctx, subject, score, profile.ClassName)
	if err != nil {
		s.logger.Warn("suggestions degraded", zap.String("subject", subject), zap.Error(err))
		result.Suggestions = ai.DefaultSuggestions(subject)
		result.Degraded = true
		result.Message = MsgPracticeUnavailable
		return result, nil
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, suggestions, s.config.CacheTTL)
	}
	result.Suggestions = suggestions
	return result, nil
}

// Search looks topics up from free text. Failures return an empty, degraded
// result.
func (s *PracticeService) Search(ctx context.Context, query string) (*models.SuggestionResult, error) {
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	result := &models.SuggestionResult{Query: query, Suggestions: []models.ExerciseSuggestion{}}
	suggestions, err := s.ai.Search(ctx, query, profile.ClassName)
	if err != nil {
		s.logger.Warn("search degraded", zap.Error(err))
		result.Degraded = true
		result.Message = MsgPracticeUnavailable
		return result, nil
	}
	result.Suggestions = suggestions
	return result, nil
}

// SmartSuggest targets the weakest graded subject below 6.5 in the period,
// falling back to the first graded subject.
func (s *PracticeService) SmartSuggest(ctx context.Context, period models.Period) (*models.SuggestionResult, error) {
	if !period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period must be hk1, hk2 or yearly")
	}
	subjects, err := s.state.LoadSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	s.catalog.Sort(subjects)

	target, score := pickPracticeSubject(subjects, period)
	if target == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no graded subject to practise")
	}
	return s.Suggest(ctx, target.Name, score)
}

// GenerateQuiz builds a five question quiz for a topic.
func (s *PracticeService) GenerateQuiz(ctx context.Context, req QuizRequest) (*models.Quiz, error) {
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "topic required")
	}
	quiz, err := s.ai.Quiz(ctx, topic, profile.ClassName)
	if err != nil {
		s.logger.Warn("quiz generation failed", zap.String("topic", topic), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrAIUnavailable.Code, appErrors.ErrAIUnavailable.Status, MsgPracticeUnavailable)
	}
	return &quiz, nil
}

// GenerateQuizFromDocument builds a quiz from an uploaded PDF, image or text
// file.
func (s *PracticeService) GenerateQuizFromDocument(ctx context.Context, data []byte, mimeType string) (*models.Quiz, error) {
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document is empty")
	}
	if int64(len(data)) > s.config.MaxUploadBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooBig, fmt.Sprintf("document exceeds %d bytes", s.config.MaxUploadBytes))
	}
	mimeType = normalizeMime(mimeType, data)
	if _, ok := supportedDocumentTypes[mimeType]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, MsgDocumentRejected)
	}

	quiz, err := s.ai.QuizFromDocument(ctx, data, mimeType, profile.ClassName)
	if err != nil {
		s.logger.Warn("document quiz failed", zap.String("mime", mimeType), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrAIUnavailable.Code, appErrors.ErrAIUnavailable.Status, MsgDocumentRejected)
	}
	return &quiz, nil
}

// GradeQuiz scores submitted answers on a 10 point scale.
func (s *PracticeService) GradeQuiz(req GradeQuizRequest) (*models.QuizResult, error) {
	questions := req.Quiz.Questions
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quiz has no questions")
	}
	if len(req.Answers) > len(questions) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "more answers than questions")
	}

	result := &models.QuizResult{Topic: req.Quiz.Topic, Total: len(questions), Results: make([]models.QuestionResult, len(questions))}
	for i, q := range questions {
		var selected *int
		if i < len(req.Answers) {
			selected = req.Answers[i]
		}
		right := selected != nil && *selected == q.CorrectAnswer
		if right {
			result.Correct++
		}
		result.Results[i] = models.QuestionResult{ID: q.ID, Selected: selected, Correct: q.CorrectAnswer, IsRight: right}
	}
	result.Score = grading.Round1(float64(result.Correct) * models.MaxScore / float64(result.Total))
	return result, nil
}

func (s *PracticeService) handlePrefetch(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(prefetchPayload)
	if !ok {
		return nil
	}
	profile, err := s.state.LoadProfile(ctx)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}
	score := grading.Round1(models.ClampScore(payload.Score))
	key := suggestionKey(payload.Subject, score, profile.ClassName)
	var cached []models.ExerciseSuggestion
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return nil
	}
	suggestions, err := s.ai.Suggest(ctx, payload.Subject, score, profile.ClassName)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, suggestions, s.config.CacheTTL)
}

func (s *PracticeService) profile(ctx context.Context) (*models.UserProfile, error) {
	profile, err := s.state.LoadProfile(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if profile == nil {
		return nil, appErrors.ErrNoProfile
	}
	return profile, nil
}

// pickPracticeSubject reads the first semester average for hk1 and the
// second semester average otherwise.
func pickPracticeSubject(subjects []models.Subject, period models.Period) (*models.Subject, float64) {
	valueOf := func(s models.Subject) *float64 {
		if period == models.PeriodHK1 {
			return s.Avg1
		}
		return s.Avg2
	}

	var weak []models.Subject
	for _, subject := range subjects {
		if v := valueOf(subject); subject.IsGraded() && v != nil && *v < WeakScoreThreshold {
			weak = append(weak, subject)
		}
	}
	if len(weak) > 0 {
		sort.SliceStable(weak, func(i, j int) bool { return *valueOf(weak[i]) < *valueOf(weak[j]) })
		return &weak[0], *valueOf(weak[0])
	}
	for i := range subjects {
		if subjects[i].IsGraded() {
			if v := valueOf(subjects[i]); v != nil {
				return &subjects[i], *v
			}
			return &subjects[i], DefaultPracticeScore
		}
	}
	return nil, 0
}

func suggestionKey(subject string, score float64, className string) string {
	return fmt.Sprintf("suggest:%s:%s:%s", strings.ToLower(className), strings.ToLower(subject), grading.FormatScore(score))
}

func normalizeMime(mimeType string, data []byte) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		detected := http.DetectContentType(data)
		if i := strings.IndexByte(detected, ';'); i >= 0 {
			detected = detected[:i]
		}
		return detected
	}
	return mimeType
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hurricane-api/internal/models"
	"github.com/noah-isme/hurricane-api/internal/repository"
	"github.com/noah-isme/hurricane-api/internal/service"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

const testPrefix = "/api/v1"

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeAI struct {
	mu  sync.Mutex
	err error
}

func (f *fakeAI) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeAI) current() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeAI) Suggest(_ context.Context, subject string, _ float64, _ string) ([]models.ExerciseSuggestion, error) {
	if err := f.current(); err != nil {
		return nil, err
	}
	return []models.ExerciseSuggestion{{Topic: subject + " nâng cao", Difficulty: models.DifficultyMedium, Count: 10, Description: "Luyện tập."}}, nil
}

func (f *fakeAI) Search(_ context.Context, query, _ string) ([]models.ExerciseSuggestion, error) {
	if err := f.current(); err != nil {
		return nil, err
	}
	return []models.ExerciseSuggestion{{Topic: query, Difficulty: models.DifficultyEasy, Count: 5}}, nil
}

func (f *fakeAI) Quiz(_ context.Context, topic, _ string) (models.Quiz, error) {
	if err := f.current(); err != nil {
		return models.Quiz{}, err
	}
	return testQuiz(topic), nil
}

func (f *fakeAI) QuizFromDocument(_ context.Context, _ []byte, _, _ string) (models.Quiz, error) {
	if err := f.current(); err != nil {
		return models.Quiz{}, err
	}
	return testQuiz("Tài liệu"), nil
}

func testQuiz(topic string) models.Quiz {
	return models.Quiz{Topic: topic, Questions: []models.Question{
		{ID: 1, Question: "1+1?", Options: []string{"1", "2", "3", "4"}, CorrectAnswer: 1, Explanation: "Cộng."},
		{ID: 2, Question: "2*2?", Options: []string{"2", "3", "4", "5"}, CorrectAnswer: 2, Explanation: "Nhân."},
	}}
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

type testServer struct {
	router *gin.Engine
	ai     *fakeAI
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	state := repository.NewStateRepository(store, "test", nil)
	metrics := service.NewMetricsService()
	fake := &fakeAI{}

	session := service.NewSessionService(state, nil, nil, service.SessionConfig{Secret: "secret", Issuer: "hurricane", Expiry: time.Hour})
	gradebook := service.NewGradebookService(state, nil, nil, metrics, nil, nil)
	prediction := service.NewPredictionService(state, nil, nil)
	rewards := service.NewRewardService(state, 0, func(int) int { return 0 }, metrics, nil)
	schedule := service.NewScheduleService(state, time.UTC, nil)
	practice := service.NewPracticeService(fake, state, &mapCache{entries: map[string][]byte{}}, nil, service.PracticeConfig{MaxUploadBytes: 1024}, nil)
	exports := service.NewExportService(state, nil, nil, nil, nil, nil)

	r := gin.New()
	RegisterRoutes(r, testPrefix, session, Handlers{
		Session:    NewSessionHandler(session, nil),
		Subjects:   NewSubjectHandler(gradebook),
		Prediction: NewPredictionHandler(prediction),
		Rewards:    NewRewardHandler(rewards),
		Schedule:   NewScheduleHandler(schedule),
		Practice:   NewPracticeHandler(practice, exports),
		Exports:    NewExportHandler(exports),
		Metrics:    NewMetricsHandler(metrics, store),
	})
	return &testServer{router: r, ai: fake}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req)
}

func (s *testServer) send(req *http.Request) *httptest.ResponseRecorder {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	rec := s.do(t, http.MethodPost, testPrefix+"/session", map[string]string{"name": "Nguyễn An", "className": "11A1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res models.SessionResponse
	decode(t, rec, &res)
	require.NotEmpty(t, res.Token)
	s.token = res.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	return env.Error.Code
}

func (s *testServer) selectSubjects(t *testing.T, names ...string) map[string]string {
	t.Helper()
	rec := s.do(t, http.MethodPost, testPrefix+"/subjects", map[string]interface{}{"subjects": names})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var subjects []models.Subject
	decode(t, rec, &subjects)
	ids := make(map[string]string, len(subjects))
	for _, s := range subjects {
		ids[s.Name] = s.ID
	}
	return ids
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, testPrefix+"/subjects", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, rec))

	srv.token = "not-a-token"
	rec = srv.do(t, http.MethodGet, testPrefix+"/rewards", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, testPrefix+"/session", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, rec))

	srv.login(t)

	rec = srv.do(t, http.MethodGet, testPrefix+"/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current CurrentSession
	decode(t, rec, &current)
	assert.Equal(t, "Nguyễn An", current.Profile.Name)
	require.NotNil(t, current.Claims)
	assert.Equal(t, "11A1", current.Claims.ClassName)

	rec = srv.do(t, http.MethodGet, testPrefix+"/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cat CatalogResponse
	decode(t, rec, &cat)
	assert.Equal(t, "Toán", cat.Graded[0].Name)
	assert.Len(t, cat.DefaultSelection, 8)

	rec = srv.do(t, http.MethodDelete, testPrefix+"/session", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, testPrefix+"/session", nil)
	require.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Equal(t, appErrors.ErrNoProfile.Code, errorCode(t, rec))
}

func TestGradebookFlow(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)
	ids := srv.selectSubjects(t, "Toán", "Thể dục")

	for _, slot := range []string{"tx1", "tx2", "tx3"} {
		rec := srv.do(t, http.MethodPut, testPrefix+"/subjects/"+ids["Toán"]+"/scores", map[string]interface{}{"semester": "hk1", "field": slot, "value": 8})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := srv.do(t, http.MethodPut, testPrefix+"/subjects/"+ids["Toán"]+"/scores", map[string]interface{}{"semester": "hk1", "field": "gk", "value": 8})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodPut, testPrefix+"/subjects/"+ids["Toán"]+"/scores", map[string]interface{}{"semester": "hk1", "field": "ck", "value": 8})
	require.Equal(t, http.StatusOK, rec.Code)
	var subject models.Subject
	decode(t, rec, &subject)
	require.NotNil(t, subject.Avg1)
	assert.Equal(t, 8.0, *subject.Avg1)

	rec = srv.do(t, http.MethodPost, testPrefix+"/subjects/"+ids["Thể dục"]+"/scores/toggle", map[string]interface{}{"semester": "hk1", "field": "tx1", "pass": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, testPrefix+"/subjects/"+ids["Toán"]+"/scores/toggle", map[string]interface{}{"semester": "hk1", "field": "tx1", "pass": true})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, testPrefix+"/subjects/missing/scores", map[string]interface{}{"semester": "hk1", "field": "tx1", "value": 5})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, testPrefix+"/subjects?period=hk1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list service.SubjectList
	env := decode(t, rec, &list)
	require.Len(t, list.Subjects, 2)
	assert.Equal(t, "Toán", list.Subjects[0].Name)
	assert.EqualValues(t, 2, env.Meta["count"])

	rec = srv.do(t, http.MethodGet, testPrefix+"/summary?period=hk1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary models.Summary
	decode(t, rec, &summary)
	assert.Equal(t, 8.0, summary.GPA)
	assert.Equal(t, 1, summary.GradedWithData)

	rec = srv.do(t, http.MethodGet, testPrefix+"/summary?period=q3", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodDelete, testPrefix+"/subjects", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodGet, testPrefix+"/subjects", nil)
	decode(t, rec, &list)
	assert.Empty(t, list.Subjects)
}

func TestPredictionEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)
	srv.selectSubjects(t, "Toán", "Ngữ văn")

	rec := srv.do(t, http.MethodPut, testPrefix+"/prediction/goal", GoalRequest{Goal: models.GoalGood})
	require.Equal(t, http.StatusOK, rec.Code)
	var target models.PredictionTarget
	decode(t, rec, &target)
	assert.Equal(t, models.GoalGood, target.Goal)

	rec = srv.do(t, http.MethodPut, testPrefix+"/prediction/goal", map[string]string{"goal": "perfect"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, testPrefix+"/prediction/strong", StrongRequest{Subject: "Toán"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &target)
	assert.Contains(t, []string(target.Strong), "Toán")

	rec = srv.do(t, http.MethodGet, testPrefix+"/prediction", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report service.PredictionReport
	decode(t, rec, &report)
	require.Len(t, report.Predictions, 2)
	assert.Equal(t, "Toán", report.Predictions[0].Subject)
	assert.True(t, report.Predictions[0].Strong)
}

func TestRewardClaimLocked(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	rec := srv.do(t, http.MethodGet, testPrefix+"/rewards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary models.RewardSummary
	decode(t, rec, &summary)
	assert.False(t, summary.Claimable)

	rec = srv.do(t, http.MethodPost, testPrefix+"/rewards/claim", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, appErrors.ErrRewardLocked.Code, errorCode(t, rec))
}

func TestScheduleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	rec := srv.do(t, http.MethodPut, testPrefix+"/schedule/2024-09-04", ScheduleUpdateRequest{Session: models.SessionMorning, Value: "Ôn Toán\nchương 1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPut, testPrefix+"/schedule/04-09-2024", ScheduleUpdateRequest{Session: models.SessionMorning, Value: "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, testPrefix+"/schedule?date=2024-09-04", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var week models.ScheduleWeek
	decode(t, rec, &week)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "2024-09-02", week.Days[0].Date)
	assert.Equal(t, "Ôn Toán\nchương 1", week.Days[2].Entry.Morning)

	rec = srv.do(t, http.MethodGet, testPrefix+"/schedule/ics?date=2024-09-04", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "HurricaneAI_LichHoc_2024-09-04.ics")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rec.Body.String(), "2024-09-04-morning@hurricane")
}

func TestSuggestionsReportCacheAndDegradation(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	req := service.SuggestRequest{Subject: "Toán", Score: models.Float(5)}
	rec := srv.do(t, http.MethodPost, testPrefix+"/practice/suggestions", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	env := decode(t, rec, nil)
	assert.Equal(t, false, env.Meta["cache_hit"])

	rec = srv.do(t, http.MethodPost, testPrefix+"/practice/suggestions", req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	srv.ai.fail(errors.New("quota"))
	rec = srv.do(t, http.MethodPost, testPrefix+"/practice/suggestions", service.SuggestRequest{Query: "hình học"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Degraded"))
	var result models.SuggestionResult
	decode(t, rec, &result)
	assert.True(t, result.Degraded)
	assert.Equal(t, service.MsgPracticeUnavailable, result.Message)

	rec = srv.do(t, http.MethodPost, testPrefix+"/practice/quiz", service.QuizRequest{Topic: "Hàm số"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, appErrors.ErrAIUnavailable.Code, errorCode(t, rec))
}

func TestQuizGradingAndSheet(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	rec := srv.do(t, http.MethodPost, testPrefix+"/practice/quiz", service.QuizRequest{Topic: "Hàm số"})
	require.Equal(t, http.StatusOK, rec.Code)
	var quiz models.Quiz
	decode(t, rec, &quiz)
	require.Len(t, quiz.Questions, 2)

	one := 1
	rec = srv.do(t, http.MethodPost, testPrefix+"/practice/quiz/grade", service.GradeQuizRequest{Quiz: quiz, Answers: []*int{&one, nil}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result models.QuizResult
	decode(t, rec, &result)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 5.0, result.Score)

	rec = srv.do(t, http.MethodPost, testPrefix+"/practice/quiz/sheet", quiz)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "HurricaneAI_Quiz_Ham_so.txt")
	assert.Contains(t, rec.Body.String(), "1+1?")
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, testPrefix+"/practice/quiz/document", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestQuizFromDocumentUpload(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	rec := srv.send(uploadRequest(t, "file", "notes.txt", []byte("Định lý Pythagore: a^2 + b^2 = c^2")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var quiz models.Quiz
	decode(t, rec, &quiz)
	assert.Equal(t, "Tài liệu", quiz.Topic)

	rec = srv.send(uploadRequest(t, "attachment", "notes.txt", []byte("x")))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.send(uploadRequest(t, "file", "big.txt", bytes.Repeat([]byte("a"), 2048)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, appErrors.ErrPayloadTooBig.Code, errorCode(t, rec))
}

func TestReportExport(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)
	srv.selectSubjects(t, "Toán")

	rec := srv.do(t, http.MethodGet, testPrefix+"/exports/report?period=hk1&format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "HurricaneAI_BangDiem_Nguyen_An_hk1.csv")
	assert.Contains(t, rec.Body.String(), "Toán")

	rec = srv.do(t, http.MethodGet, testPrefix+"/exports/report?format=docx", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrUnsupportedFmt.Code, errorCode(t, rec))
}

func TestObservabilityEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	decode(t, rec, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "memory", health.Store)

	rec = srv.do(t, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPeriodQueryDefaultsToFirstSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/subjects", nil)

	period, err := periodQuery(c)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodHK1, period)

	c.Request = httptest.NewRequest(http.MethodGet, "/subjects?period=YEARLY", nil)
	period, err = periodQuery(c)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodYearly, period)
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/models"
)

// Observer receives the outcome of every provider call.
type Observer func(operation string, success bool)

// Client produces practice material through a Provider.
type Client struct {
	provider Provider
	model    string
	logger   *zap.Logger
	observe  Observer
}

// NewClient wraps a provider.
func NewClient(provider Provider, model string, logger *zap.Logger, observe Observer) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observe == nil {
		observe = func(string, bool) {}
	}
	return &Client{provider: provider, model: model, logger: logger, observe: observe}
}

// HealthCheck probes the provider.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.provider == nil {
		return ErrUnavailable
	}
	return c.provider.HealthCheck(ctx)
}

// Suggest recommends three topics for a subject given the current score.
func (c *Client) Suggest(ctx context.Context, subject string, score float64, className string) ([]models.ExerciseSuggestion, error) {
	prompt := fmt.Sprintf("Bạn là một trợ lý giáo dục AI. Học sinh lớp %s môn %s điểm %s/10. Đề xuất 3 chuyên đề bài tập phù hợp chương trình lớp %s. Phản hồi JSON.",
		className, subject, formatScore(score), className)
	var out []wireSuggestion
	if err := c.generate(ctx, "suggest", GenerateRequest{Prompt: prompt, Schema: SuggestionListSchema()}, &out); err != nil {
		return nil, err
	}
	return toSuggestions(out), nil
}

// Search finds three topics matching a free-text request.
func (c *Client) Search(ctx context.Context, query, className string) ([]models.ExerciseSuggestion, error) {
	prompt := fmt.Sprintf("Tìm 3 chuyên đề bài tập lớp %s cho yêu cầu: %q. Phản hồi JSON.", className, query)
	var out []wireSuggestion
	if err := c.generate(ctx, "search", GenerateRequest{Prompt: prompt, Schema: SuggestionListSchema()}, &out); err != nil {
		return nil, err
	}
	return toSuggestions(out), nil
}

// Quiz generates five questions about a topic.
func (c *Client) Quiz(ctx context.Context, topic, className string) (models.Quiz, error) {
	prompt := fmt.Sprintf("Tạo 5 câu hỏi trắc nghiệm (4 lựa chọn) về chuyên đề %q cho học sinh lớp %s. Ngôn ngữ: Tiếng Việt. Phản hồi JSON.", topic, className)
	var quiz wireQuiz
	if err := c.generate(ctx, "quiz", GenerateRequest{Prompt: prompt, Schema: QuizSchema("")}, &quiz); err != nil {
		return models.Quiz{}, err
	}
	return quiz.toQuiz(), nil
}

// QuizFromDocument generates five questions from an uploaded document.
func (c *Client) QuizFromDocument(ctx context.Context, data []byte, mimeType, className string) (models.Quiz, error) {
	prompt := strings.Join([]string{
		fmt.Sprintf("Bạn là một chuyên gia giáo dục. Hãy phân tích tài liệu đính kèm và tạo một bộ đề trắc nghiệm gồm 5 câu hỏi phù hợp với trình độ học sinh lớp %s.", className),
		"Yêu cầu:",
		"1. Ngôn ngữ: Tiếng Việt.",
		"2. Mỗi câu hỏi có 4 lựa chọn (A, B, C, D).",
		"3. Cung cấp đáp án đúng (index từ 0-3) và giải thích chi tiết lý do chọn đáp án đó.",
		"4. Trả về kết quả dưới dạng JSON theo đúng cấu trúc schema.",
	}, "\n")
	req := GenerateRequest{
		Prompt:      prompt,
		Attachments: []Attachment{{MimeType: mimeType, Data: data}},
		Schema:      QuizSchema("Chủ đề chính của tài liệu"),
	}
	var quiz wireQuiz
	if err := c.generate(ctx, "quiz_document", req, &quiz); err != nil {
		return models.Quiz{}, err
	}
	return quiz.toQuiz(), nil
}

func (c *Client) generate(ctx context.Context, operation string, req GenerateRequest, out interface{}) error {
	if c.provider == nil {
		c.observe(operation, false)
		return fmt.Errorf("%s: no provider configured: %w", operation, ErrUnavailable)
	}
	if req.Model == "" {
		req.Model = c.model
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		c.fail(operation, err)
		return fmt.Errorf("%s: %v: %w", operation, err, ErrUnavailable)
	}

	text := []byte(strings.TrimSpace(resp.Text))
	if len(text) == 0 {
		err := fmt.Errorf("empty response")
		c.fail(operation, err)
		return fmt.Errorf("%s: %v: %w", operation, err, ErrUnavailable)
	}
	if req.Schema != nil {
		if err := req.Schema.Validate(text); err != nil {
			c.fail(operation, err)
			return fmt.Errorf("%s: %v: %w", operation, err, ErrUnavailable)
		}
	}
	if err := json.Unmarshal(text, out); err != nil {
		c.fail(operation, err)
		return fmt.Errorf("%s: decode: %v: %w", operation, err, ErrUnavailable)
	}

	c.observe(operation, true)
	c.logger.Debug("ai generation succeeded",
		zap.String("operation", operation),
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
	)
	return nil
}

func (c *Client) fail(operation string, err error) {
	c.observe(operation, false)
	c.logger.Warn("ai generation failed", zap.String("operation", operation), zap.Error(err))
}

// Model output carries JSON numbers that may be written as 10.0.
type wireSuggestion struct {
	Topic       string  `json:"topic"`
	Difficulty  string  `json:"difficulty"`
	Count       float64 `json:"count"`
	Description string  `json:"description"`
}

type wireQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer float64  `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type wireQuiz struct {
	Topic     string         `json:"topic"`
	Questions []wireQuestion `json:"questions"`
}

func toSuggestions(in []wireSuggestion) []models.ExerciseSuggestion {
	out := make([]models.ExerciseSuggestion, len(in))
	for i, s := range in {
		out[i] = models.ExerciseSuggestion{
			Topic:       s.Topic,
			Difficulty:  models.Difficulty(s.Difficulty),
			Count:       int(math.Round(s.Count)),
			Description: s.Description,
		}
	}
	return out
}

// Questions are renumbered from 1 so ids are unique within a quiz.
func (w wireQuiz) toQuiz() models.Quiz {
	quiz := models.Quiz{Topic: w.Topic, Questions: make([]models.Question, len(w.Questions))}
	for i, q := range w.Questions {
		quiz.Questions[i] = models.Question{
			ID:            i + 1,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: int(math.Round(q.CorrectAnswer)),
			Explanation:   q.Explanation,
		}
	}
	return quiz
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DefaultSuggestions is the fallback shown when the assistant is unavailable.
func DefaultSuggestions(subject string) []models.ExerciseSuggestion {
	return []models.ExerciseSuggestion{
		{Topic: subject + " - Ôn tập trọng tâm", Difficulty: models.DifficultyEasy, Count: 10, Description: "Củng cố nền tảng."},
		{Topic: subject + " - Vận dụng cơ bản", Difficulty: models.DifficultyMedium, Count: 15, Description: "Luyện kỹ năng giải bài."},
		{Topic: subject + " - Nâng cao bứt phá", Difficulty: models.DifficultyAdvanced, Count: 5, Description: "Chinh phục điểm 10."},
	}
}

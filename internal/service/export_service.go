package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/hurricane-api/internal/catalog"
	"github.com/noah-isme/hurricane-api/internal/grading"
	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
	"github.com/noah-isme/hurricane-api/pkg/export"
)

// ReportFormat selects the report card encoding.
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatXLSX ReportFormat = "xlsx"
)

var reportContentTypes = map[ReportFormat]string{
	ReportFormatCSV:  "text/csv; charset=utf-8",
	ReportFormatPDF:  "application/pdf",
	ReportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var periodLabels = map[models.Period]string{
	models.PeriodHK1:    "Học kì I",
	models.PeriodHK2:    "Học kì II",
	models.PeriodYearly: "Cả năm",
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type exportState interface {
	LoadProfile(ctx context.Context) (*models.UserProfile, error)
	LoadSubjects(ctx context.Context) ([]models.Subject, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheetName string) ([]byte, error)
}

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders report cards and quiz sheets.
type ExportService struct {
	state   exportState
	catalog *catalog.Catalog
	csv     csvRenderer
	pdf     pdfRenderer
	xlsx    xlsxRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers get defaults.
func NewExportService(state exportState, cat *catalog.Catalog, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *ExportService {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(map[string]float64{"Môn": 45, "Nhận xét": 60})
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{state: state, catalog: cat, csv: csv, pdf: pdf, xlsx: xlsx, logger: logger}
}

// Report renders the report card of a period.
func (s *ExportService) Report(ctx context.Context, period models.Period, format ReportFormat) (*ExportResult, error) {
	if !period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period must be hk1, hk2 or yearly")
	}
	contentType, ok := reportContentTypes[format]
	if !ok {
		return nil, appErrors.ErrUnsupportedFmt
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	subjects, err := s.state.LoadSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	s.catalog.Sort(subjects)

	dataset := BuildReportDataset(*profile, subjects, period)
	title := fmt.Sprintf("Bảng điểm %s", periodLabels[period])

	var payload []byte
	switch format {
	case ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	case ReportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, strings.ToUpper(string(period)))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	s.logger.Info("report exported", zap.String("period", string(period)), zap.String("format", string(format)), zap.Int("bytes", len(payload)))
	return &ExportResult{
		Filename:    fmt.Sprintf("HurricaneAI_BangDiem_%s_%s.%s", safeFilename(profile.Name), period, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

// QuizSheet renders a quiz as a printable text sheet: questions first, then
// the answer key with explanations.
func (s *ExportService) QuizSheet(ctx context.Context, quiz models.Quiz) (*ExportResult, error) {
	if len(quiz.Questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quiz has no questions")
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("HurricaneAI_Quiz_%s.txt", safeFilename(quiz.Topic)),
		ContentType: "text/plain; charset=utf-8",
		Payload:     []byte(RenderQuizSheet(*profile, quiz)),
	}, nil
}

// BuildReportDataset lays out the report card table for a period.
func BuildReportDataset(profile models.UserProfile, subjects []models.Subject, period models.Period) export.Dataset {
	var headers []string
	if period == models.PeriodYearly {
		headers = []string{"Môn", "ĐTB HK1", "ĐTB HK2", "Cả năm", "Nhận xét"}
	} else {
		headers = []string{"Môn", "TX1", "TX2", "TX3", "TX4", "TX5", "GK", "CK", "ĐTB"}
	}

	rows := make([]map[string]string, 0, len(subjects))
	for _, subject := range subjects {
		row := map[string]string{"Môn": subject.Name}
		if period == models.PeriodYearly {
			if subject.IsGraded() {
				row["ĐTB HK1"] = scoreCell(subject.Avg1)
				row["ĐTB HK2"] = scoreCell(subject.Avg2)
				row["Cả năm"] = scoreCell(subject.OverallAvg)
				row["Nhận xét"] = subject.Comment
			} else {
				row["ĐTB HK1"] = statusCell(subject.Status1)
				row["ĐTB HK2"] = statusCell(subject.Status2)
				row["Cả năm"] = statusCell(subject.StatusFor(models.PeriodYearly))
			}
		} else {
			semester := models.Semester(period)
			entry := *subject.Entry(semester)
			for _, field := range models.ScoreFields {
				v, _ := entry.Field(field)
				if subject.IsGraded() {
					row[strings.ToUpper(string(field))] = scoreCell(v)
				} else {
					row[strings.ToUpper(string(field))] = assessmentCell(v)
				}
			}
			if subject.IsGraded() {
				row["ĐTB"] = scoreCell(subject.ValueFor(period))
			} else {
				row["ĐTB"] = statusCell(subject.StatusFor(period))
			}
		}
		rows = append(rows, row)
	}

	summary := grading.Summarize(subjects, period)
	notes := []string{
		fmt.Sprintf("Học sinh: %s - Lớp: %s", profile.Name, profile.ClassName),
		fmt.Sprintf("Kỳ: %s", periodLabels[period]),
		fmt.Sprintf("Điểm trung bình các môn: %s", grading.FormatScore(summary.GPA)),
		fmt.Sprintf("Xếp loại: %s", summary.Rank),
	}
	return export.Dataset{Headers: headers, Rows: rows, Notes: notes}
}

// RenderQuizSheet produces the downloadable practice sheet.
func RenderQuizSheet(profile models.UserProfile, quiz models.Quiz) string {
	const rule = "------------------------------------------\n"
	var b strings.Builder
	fmt.Fprintf(&b, "ĐỀ LUYỆN TẬP: %s\n", quiz.Topic)
	fmt.Fprintf(&b, "Học sinh: %s - Lớp: %s\n", profile.Name, profile.ClassName)
	b.WriteString("Hệ thống: Hurricane AI\n")
	b.WriteString(rule + "\n")

	for i, q := range quiz.Questions {
		fmt.Fprintf(&b, "Câu %d: %s\n", i+1, q.Question)
		for idx, opt := range q.Options {
			fmt.Fprintf(&b, "   %c. %s\n", 'A'+idx, opt)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule)
	b.WriteString("ĐÁP ÁN & GIẢI THÍCH\n")
	for i, q := range quiz.Questions {
		fmt.Fprintf(&b, "Câu %d: %c\n", i+1, 'A'+q.CorrectAnswer)
		fmt.Fprintf(&b, "Giải thích: %s\n\n", q.Explanation)
	}
	return b.String()
}

func (s *ExportService) profile(ctx context.Context) (*models.UserProfile, error) {
	profile, err := s.state.LoadProfile(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if profile == nil {
		return nil, appErrors.ErrNoProfile
	}
	return profile, nil
}

func scoreCell(v *float64) string {
	if v == nil {
		return ""
	}
	return grading.FormatScore(*v)
}

func statusCell(status *models.PassStatus) string {
	if status == nil {
		return ""
	}
	if *status == models.StatusPass {
		return "Đạt"
	}
	return "Chưa đạt"
}

func assessmentCell(v *float64) string {
	switch {
	case v == nil:
		return ""
	case *v == 1:
		return "Đ"
	default:
		return "CĐ"
	}
}

func safeFilename(s string) string {
	cleaned := strings.Trim(unsafeFilename.ReplaceAllString(export.FoldDiacritics(strings.TrimSpace(s)), "_"), "_")
	if cleaned == "" {
		return "export"
	}
	return cleaned
}

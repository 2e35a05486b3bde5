package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

func exportFixture(t *testing.T) *ExportService {
	t.Helper()
	ctx := context.Background()
	state := newTestState(t)
	withProfile(t, state)
	require.NoError(t, state.SaveSubjects(ctx, []models.Subject{
		{ID: "p", Name: "Thể dục", Type: models.SubjectPassFail, HK1: models.ScoreEntry{TX1: models.Float(1), TX2: models.Float(1), TX3: models.Float(1), GK: models.Float(1), CK: models.Float(0)}},
		{ID: "t", Name: "Toán", Type: models.SubjectGraded, HK1: fullEntry(8, 8, 8)},
	}))
	return NewExportService(state, nil, nil, nil, nil, nil)
}

func TestReportCSV(t *testing.T) {
	svc := exportFixture(t)
	result, err := svc.Report(context.Background(), models.PeriodHK1, ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "HurricaneAI_BangDiem_Nguyen_An_hk1.csv", result.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)

	body := string(bytes.TrimPrefix(result.Payload, []byte{0xEF, 0xBB, 0xBF}))
	lines := strings.Split(body, "\n")
	assert.Equal(t, "Môn,TX1,TX2,TX3,TX4,TX5,GK,CK,ĐTB", lines[0])
	assert.Equal(t, "Toán,8,8,8,,,8,8,8", lines[1])
	assert.Equal(t, "Thể dục,Đ,Đ,Đ,,,Đ,CĐ,Chưa đạt", lines[2])
	assert.Contains(t, body, "Xếp loại: Chưa đủ")
}

func TestReportPDFAndXLSX(t *testing.T) {
	svc := exportFixture(t)
	ctx := context.Background()

	pdf, err := svc.Report(ctx, models.PeriodYearly, ReportFormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Payload, []byte("%PDF")))

	xlsx, err := svc.Report(ctx, models.PeriodHK2, ReportFormatXLSX)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx.Payload, []byte("PK")))
}

func TestReportRejectsUnknownFormat(t *testing.T) {
	svc := exportFixture(t)
	_, err := svc.Report(context.Background(), models.PeriodHK1, "docx")
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedFmt))
}

func TestReportRequiresProfile(t *testing.T) {
	svc := NewExportService(newTestState(t), nil, nil, nil, nil, nil)
	_, err := svc.Report(context.Background(), models.PeriodHK1, ReportFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrNoProfile))
}

func TestQuizSheet(t *testing.T) {
	svc := exportFixture(t)
	result, err := svc.QuizSheet(context.Background(), sampleQuiz())
	require.NoError(t, err)
	assert.Equal(t, "HurricaneAI_Quiz_Ham_so.txt", result.Filename)

	expected := "ĐỀ LUYỆN TẬP: Hàm số\n" +
		"Học sinh: Nguyễn An - Lớp: 11A1\n" +
		"Hệ thống: Hurricane AI\n" +
		"------------------------------------------\n\n" +
		"Câu 1: 1+1?\n   A. 1\n   B. 2\n   C. 3\n   D. 4\n\n" +
		"Câu 2: 2*2?\n   A. 2\n   B. 3\n   C. 4\n   D. 5\n\n" +
		"------------------------------------------\n" +
		"ĐÁP ÁN & GIẢI THÍCH\n" +
		"Câu 1: B\nGiải thích: Cộng.\n\n" +
		"Câu 2: C\nGiải thích: Nhân.\n\n"
	assert.Equal(t, expected, string(result.Payload))
}

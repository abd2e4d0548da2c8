package services

import (
	"log/slog"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/edusphere/exam-service/internal/models"
	"github.com/edusphere/exam-service/internal/repositories"
	"github.com/edusphere/exam-service/internal/validator"
)

func TestNewExamService(t *testing.T) {
	type args struct {
		repo      repositories.Repository
		db        *gorm.DB
		logger    *slog.Logger
		validator *validator.Validator
	}
	tests := []struct {
		name string
		args args
		want ExamService
	}{
		{name: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NewExamService(tt.args.repo, tt.args.db, tt.args.logger, tt.args.validator, nil)
		})
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestPassingMarksFromPercent(t *testing.T) {
	tests := []struct {
		total   int
		percent int
		want    int
	}{
		{total: 10, percent: 60, want: 6},
		{total: 7, percent: 60, want: 5},  // ceil(4.2)
		{total: 3, percent: 50, want: 2},  // ceil(1.5)
		{total: 10, percent: 0, want: 0},
		{total: 10, percent: 100, want: 10},
	}
	for _, tt := range tests {
		if got := passingMarksFromPercent(tt.total, tt.percent); got != tt.want {
			t.Errorf("passingMarksFromPercent(%d, %d) = %d, want %d", tt.total, tt.percent, got, tt.want)
		}
	}
}

func TestApplyExamPatch_SimpleFields(t *testing.T) {
	exam := &models.Exam{
		Title:        "Old Title",
		TotalMarks:   10,
		PassingMarks: 6,
		IsActive:     true,
	}

	applyExamPatch(exam, &UpdateExamRequest{
		Title:    strPtr("New Title"),
		IsActive: boolPtr(false),
	})

	if exam.Title != "New Title" {
		t.Errorf("Title = %q, want New Title", exam.Title)
	}
	if exam.IsActive {
		t.Error("IsActive = true, want false")
	}
	if exam.TotalMarks != 10 || exam.PassingMarks != 6 {
		t.Errorf("marks changed by unrelated patch: %d/%d", exam.TotalMarks, exam.PassingMarks)
	}
}

func TestApplyExamPatch_PassingPercentRecomputes(t *testing.T) {
	exam := &models.Exam{TotalMarks: 7, PassingMarks: 4}

	applyExamPatch(exam, &UpdateExamRequest{PassingPercent: intPtr(60)})

	if exam.PassingMarks != 5 {
		t.Errorf("PassingMarks = %d, want 5", exam.PassingMarks)
	}
}

func TestApplyExamPatch_QuestionReplacementRecomputesTotal(t *testing.T) {
	exam := &models.Exam{TotalMarks: 2, PassingMarks: 2}

	applyExamPatch(exam, &UpdateExamRequest{
		Questions: []validator.QuestionRequest{
			{Text: "q1", Options: []string{"x", "y"}, CorrectAnswer: "A", Marks: 3},
			{Text: "q2", Options: []string{"x", "y"}, CorrectAnswer: "B", Marks: 2},
		},
	})

	if exam.TotalMarks != 5 {
		t.Errorf("TotalMarks = %d, want 5", exam.TotalMarks)
	}
}

func TestApplyExamPatch_ScheduleBlockReplaced(t *testing.T) {
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	flexType := models.ScheduleFlexible
	fixedType := models.ScheduleFixed

	exam := &models.Exam{
		ScheduleType: fixedType,
		StartTime:    &start,
		EndTime:      &end,
	}

	// Switching to flexible without bounds clears the fixed window entirely
	applyExamPatch(exam, &UpdateExamRequest{ScheduleType: &flexType})

	if exam.ScheduleType != models.ScheduleFlexible {
		t.Errorf("ScheduleType = %q, want flexible", exam.ScheduleType)
	}
	if exam.StartTime != nil || exam.EndTime != nil {
		t.Error("fixed window bounds should be cleared when the schedule block is replaced")
	}
	if exam.AvailableFrom != nil || exam.AvailableUntil != nil {
		t.Error("flexible bounds should stay unset when absent from the patch")
	}
}

func TestBuildQuestions_PositionsAndDefaults(t *testing.T) {
	questions, err := buildQuestions([]validator.QuestionRequest{
		{Text: "first", Options: []string{"one", "two"}, CorrectAnswer: "A"},
		{Text: "second", Options: []string{"one", "two", "three"}, CorrectAnswer: "C", Marks: 4},
	})
	if err != nil {
		t.Fatalf("buildQuestions returned error: %v", err)
	}

	if len(questions) != 2 {
		t.Fatalf("len(questions) = %d, want 2", len(questions))
	}
	if questions[0].Position != 1 || questions[1].Position != 2 {
		t.Errorf("positions = %d,%d, want 1,2", questions[0].Position, questions[1].Position)
	}
	if questions[0].Marks != 1 {
		t.Errorf("unset marks should default to 1, got %d", questions[0].Marks)
	}
	if questions[1].Marks != 4 {
		t.Errorf("Marks = %d, want 4", questions[1].Marks)
	}
	if string(questions[0].Options) != `["one","two"]` {
		t.Errorf("Options = %s, want encoded option list", questions[0].Options)
	}
}

func TestBuildExamResponse_ProjectsDisplayFields(t *testing.T) {
	clock := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	restore := now
	now = func() time.Time { return clock }
	defer func() { now = restore }()

	until := clock.Add(time.Hour)
	exam := &models.Exam{
		ID:             3,
		Title:          "Geometry Quiz",
		IsActive:       true,
		ScheduleType:   models.ScheduleFlexible,
		AvailableUntil: &until,
		Questions: []models.Question{
			{ID: 1, Text: "q1"},
			{ID: 2, Text: "q2"},
		},
		Subject: &models.Subject{Name: "Math"},
	}

	resp := (&examService{}).buildExamResponse(exam)

	if resp.QuestionsCount != 2 {
		t.Errorf("QuestionsCount = %d, want 2", resp.QuestionsCount)
	}
	if resp.Availability == nil || !resp.Availability.IsCurrentlyAvailable {
		t.Errorf("Availability = %+v, want currently available", resp.Availability)
	}
	if resp.SubjectName != "Math" {
		t.Errorf("SubjectName = %q, want Math", resp.SubjectName)
	}
}

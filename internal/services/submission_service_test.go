package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edusphere/exam-service/internal/models"
	"github.com/edusphere/exam-service/internal/repositories"
	"github.com/edusphere/exam-service/internal/validator"
)

func TestNewSubmissionService(t *testing.T) {
	type args struct {
		repo      repositories.Repository
		db        *gorm.DB
		logger    *slog.Logger
		validator *validator.Validator
	}
	tests := []struct {
		name string
		args args
		want SubmissionService
	}{
		{name: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NewSubmissionService(tt.args.repo, tt.args.db, tt.args.logger, tt.args.validator, nil)
		})
	}
}

func TestAlreadySubmittedError_CarriesPreviousResult(t *testing.T) {
	endTime := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	result := &models.ExamResult{
		ID:            12,
		ObtainedMarks: 1,
		TotalMarks:    2,
		Percentage:    50,
		Passed:        false,
		EndTime:       endTime,
	}

	var err error = &AlreadySubmittedError{Previous: result.Summary()}

	submitted, ok := IsAlreadySubmitted(err)
	if !ok {
		t.Fatal("IsAlreadySubmitted returned false for AlreadySubmittedError")
	}
	if submitted.Previous.Percentage != 50 {
		t.Errorf("Previous.Percentage = %d, want 50", submitted.Previous.Percentage)
	}
	if submitted.Previous.Passed {
		t.Error("Previous.Passed = true, want false")
	}
	if !submitted.Previous.EndTime.Equal(endTime) {
		t.Errorf("Previous.EndTime = %v, want %v", submitted.Previous.EndTime, endTime)
	}
	if submitted.Previous.ObtainedMarks != 1 || submitted.Previous.TotalMarks != 2 {
		t.Errorf("Previous marks = %d/%d, want 1/2",
			submitted.Previous.ObtainedMarks, submitted.Previous.TotalMarks)
	}
}

func TestAlreadySubmittedError_WrappedDetection(t *testing.T) {
	inner := &AlreadySubmittedError{Previous: models.ResultSummary{Percentage: 80, Passed: true}}
	wrapped := errors.Join(errors.New("submit failed"), inner)

	submitted, ok := IsAlreadySubmitted(wrapped)
	if !ok {
		t.Fatal("IsAlreadySubmitted should see through wrapped errors")
	}
	if submitted.Previous.Percentage != 80 {
		t.Errorf("Previous.Percentage = %d, want 80", submitted.Previous.Percentage)
	}
}

func TestNotAvailableError_Messages(t *testing.T) {
	tests := []struct {
		name         string
		availability models.Availability
		want         string
	}{
		{name: "upcoming", availability: models.Availability{IsUpcoming: true}, want: "exam is not yet available"},
		{name: "ended", availability: models.Availability{HasEnded: true}, want: "exam availability has ended"},
		{name: "inactive", availability: models.Availability{}, want: "exam is not available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &NotAvailableError{Availability: tt.availability}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}

			got, ok := IsNotAvailable(err)
			if !ok {
				t.Fatal("IsNotAvailable returned false for NotAvailableError")
			}
			if got.Availability != tt.availability {
				t.Errorf("Availability = %+v, want %+v", got.Availability, tt.availability)
			}
		})
	}
}

// Stub repositories embed the interfaces so each test overrides only the
// methods its path touches.

type stubExamRepo struct {
	repositories.ExamRepository
	exam *models.Exam
}

func (s *stubExamRepo) GetByIDWithQuestions(_ context.Context, _ *gorm.DB, _ uint) (*models.Exam, error) {
	return s.exam, nil
}

type stubResultRepo struct {
	repositories.ResultRepository
	prior *models.ExamResult
}

func (s *stubResultRepo) GetByStudentAndExam(_ context.Context, _ *gorm.DB, _, _ uint) (*models.ExamResult, error) {
	if s.prior == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.prior, nil
}

type stubReferenceRepo struct {
	repositories.ReferenceRepository
}

func (s *stubReferenceRepo) StudentExists(_ context.Context, _ *gorm.DB, _ uint) (bool, error) {
	return true, nil
}

type stubRepository struct {
	repositories.Repository
	exam   repositories.ExamRepository
	result repositories.ResultRepository
}

func (s *stubRepository) Exam() repositories.ExamRepository           { return s.exam }
func (s *stubRepository) Result() repositories.ResultRepository       { return s.result }
func (s *stubRepository) Reference() repositories.ReferenceRepository { return &stubReferenceRepo{} }

func newStubSubmissionService(repo repositories.Repository) SubmissionService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSubmissionService(repo, nil, logger, validator.New(), nil)
}

func TestSubmit_PriorResultReportedAfterWindowClosed(t *testing.T) {
	clock := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	restore := now
	now = func() time.Time { return clock }
	defer func() { now = restore }()

	until := clock.Add(-time.Hour)
	exam := &models.Exam{
		ID:             7,
		IsActive:       true,
		ScheduleType:   models.ScheduleFlexible,
		AvailableUntil: &until,
	}
	prior := &models.ExamResult{
		ID:            31,
		StudentID:     5,
		ExamID:        7,
		ObtainedMarks: 3,
		TotalMarks:    4,
		Percentage:    75,
		Passed:        true,
	}
	repo := &stubRepository{
		exam:   &stubExamRepo{exam: exam},
		result: &stubResultRepo{prior: prior},
	}

	_, err := newStubSubmissionService(repo).Submit(context.Background(), 7, &SubmitExamRequest{StudentID: 5})

	// The prior attempt must win over the closed window so the student can
	// review the recorded result.
	submitted, ok := IsAlreadySubmitted(err)
	if !ok {
		t.Fatalf("Submit error = %v, want AlreadySubmittedError", err)
	}
	if submitted.Previous.ResultID != 31 {
		t.Errorf("Previous.ResultID = %d, want 31", submitted.Previous.ResultID)
	}
	if submitted.Previous.Percentage != 75 || !submitted.Previous.Passed {
		t.Errorf("Previous = %+v, want 75%% passed", submitted.Previous)
	}
}

func TestSubmit_ClosedWindowWithoutPriorResult(t *testing.T) {
	clock := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	restore := now
	now = func() time.Time { return clock }
	defer func() { now = restore }()

	until := clock.Add(-time.Hour)
	exam := &models.Exam{
		ID:             7,
		IsActive:       true,
		ScheduleType:   models.ScheduleFlexible,
		AvailableUntil: &until,
	}
	repo := &stubRepository{
		exam:   &stubExamRepo{exam: exam},
		result: &stubResultRepo{},
	}

	_, err := newStubSubmissionService(repo).Submit(context.Background(), 7, &SubmitExamRequest{StudentID: 5})

	notAvailable, ok := IsNotAvailable(err)
	if !ok {
		t.Fatalf("Submit error = %v, want NotAvailableError", err)
	}
	if !notAvailable.Availability.HasEnded {
		t.Errorf("Availability = %+v, want HasEnded", notAvailable.Availability)
	}
}

func TestBuildSubmissionResponse_HidesAnalysisWithoutMutatingResult(t *testing.T) {
	analysis := datatypes.NewJSONSlice([]models.QuestionAnalysis{
		{QuestionID: 1, CorrectAnswer: "A", IsCorrect: true, Marks: 2, MarksObtained: 2},
	})
	result := &models.ExamResult{ID: 9, ObtainedMarks: 2, TotalMarks: 2, Percentage: 100, QuestionAnalysis: analysis}
	exam := &models.Exam{Title: "Algebra Final", ShowResultsImmediately: false}

	svc := &submissionService{}
	resp := svc.buildSubmissionResponse(result, exam)

	if resp.QuestionAnalysis != nil {
		t.Error("response carries question analysis although results are hidden")
	}
	if len(result.QuestionAnalysis) != 1 {
		t.Error("stored result lost its question analysis")
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	if strings.Contains(string(body), "question_analysis") {
		t.Errorf("hidden analysis leaked into response body: %s", body)
	}
}

func TestBuildSubmissionResponse_IncludesAnalysisWhenShown(t *testing.T) {
	analysis := datatypes.NewJSONSlice([]models.QuestionAnalysis{
		{QuestionID: 1, CorrectAnswer: "A", IsCorrect: true, Marks: 2, MarksObtained: 2},
	})
	result := &models.ExamResult{ID: 9, QuestionAnalysis: analysis}
	exam := &models.Exam{Title: "Algebra Final", ShowResultsImmediately: true}

	svc := &submissionService{}
	resp := svc.buildSubmissionResponse(result, exam)

	if len(resp.QuestionAnalysis) != 1 {
		t.Fatalf("QuestionAnalysis rows = %d, want 1", len(resp.QuestionAnalysis))
	}
	if resp.ExamTitle != "Algebra Final" {
		t.Errorf("ExamTitle = %q, want Algebra Final", resp.ExamTitle)
	}
}

package services

import (
	"testing"

	"github.com/edusphere/exam-service/internal/models"
)

func gradingExam(passingMarks int, questions ...models.Question) *models.Exam {
	total := 0
	for _, q := range questions {
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		total += marks
	}
	return &models.Exam{
		ID:           1,
		Title:        "Algebra Basics",
		TotalMarks:   total,
		PassingMarks: passingMarks,
		IsActive:     true,
		Questions:    questions,
	}
}

func question(id uint, correct string, marks int) models.Question {
	return models.Question{
		ID:            id,
		ExamID:        1,
		Position:      int(id),
		Text:          "placeholder",
		CorrectAnswer: correct,
		Marks:         marks,
	}
}

func assertOutcome(t *testing.T, got GradingOutcome, score, obtained, total, percentage int, passed bool) {
	t.Helper()
	if got.Score != score {
		t.Errorf("Score = %d, want %d", got.Score, score)
	}
	if got.ObtainedMarks != obtained {
		t.Errorf("ObtainedMarks = %d, want %d", got.ObtainedMarks, obtained)
	}
	if got.TotalMarks != total {
		t.Errorf("TotalMarks = %d, want %d", got.TotalMarks, total)
	}
	if got.Percentage != percentage {
		t.Errorf("Percentage = %d, want %d", got.Percentage, percentage)
	}
	if got.Passed != passed {
		t.Errorf("Passed = %v, want %v", got.Passed, passed)
	}
}

func TestGradeSubmission_HalfCorrect(t *testing.T) {
	exam := gradingExam(2, question(1, "A", 1), question(2, "B", 1))

	outcome := GradeSubmission(exam, map[string]string{"1": "A", "2": "C"})

	assertOutcome(t, outcome, 1, 1, 2, 50, false)
	if outcome.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", outcome.TotalQuestions)
	}
}

func TestGradeSubmission_UnansweredIsIncorrect(t *testing.T) {
	exam := gradingExam(2, question(1, "A", 1), question(2, "B", 1))

	outcome := GradeSubmission(exam, map[string]string{"1": "A"})

	assertOutcome(t, outcome, 1, 1, 2, 50, false)

	if len(outcome.Analysis) != 2 {
		t.Fatalf("Analysis length = %d, want 2", len(outcome.Analysis))
	}
	second := outcome.Analysis[1]
	if second.UserAnswer != nil {
		t.Errorf("UserAnswer = %v, want nil for unanswered question", *second.UserAnswer)
	}
	if second.IsCorrect {
		t.Error("unanswered question must be graded incorrect")
	}
	if second.MarksObtained != 0 {
		t.Errorf("MarksObtained = %d, want 0", second.MarksObtained)
	}
}

func TestGradeSubmission_EmptyAnswers(t *testing.T) {
	exam := gradingExam(2, question(1, "A", 1), question(2, "B", 1))

	outcome := GradeSubmission(exam, nil)

	assertOutcome(t, outcome, 0, 0, 2, 0, false)
}

func TestGradeSubmission_PassingEqualsTotalRequiresPerfection(t *testing.T) {
	exam := gradingExam(2, question(1, "A", 1), question(2, "B", 1))

	almost := GradeSubmission(exam, map[string]string{"1": "A", "2": "C"})
	if almost.Passed {
		t.Error("Passed = true at 50% when the threshold is 100%")
	}

	perfect := GradeSubmission(exam, map[string]string{"1": "A", "2": "B"})
	assertOutcome(t, perfect, 2, 2, 2, 100, true)
}

func TestGradeSubmission_WeightedMarks(t *testing.T) {
	exam := gradingExam(6, question(1, "A", 5), question(2, "B", 3), question(3, "C", 2))

	// Correct on the 5-mark and 2-mark questions: 7/10 = 70%, threshold 60%
	outcome := GradeSubmission(exam, map[string]string{"1": "A", "2": "D", "3": "C"})

	assertOutcome(t, outcome, 2, 7, 10, 70, true)
}

func TestGradeSubmission_TotalMarksOverride(t *testing.T) {
	exam := gradingExam(0, question(1, "A", 1), question(2, "B", 1))
	exam.TotalMarks = 10 // explicit override recorded at creation
	exam.PassingMarks = 6

	outcome := GradeSubmission(exam, map[string]string{"1": "A", "2": "B"})

	// 2 of 10 marks: percentage reflects the override, not the question sum
	assertOutcome(t, outcome, 2, 2, 10, 20, false)
}

func TestGradeSubmission_TotalMarksBelowQuestionSumClamps(t *testing.T) {
	// Rows written before the override floor was enforced can carry a total
	// below the question marks sum; the percentage must still cap at 100.
	exam := gradingExam(0, question(1, "A", 1), question(2, "B", 1))
	exam.TotalMarks = 1
	exam.PassingMarks = 1

	outcome := GradeSubmission(exam, map[string]string{"1": "A", "2": "B"})

	assertOutcome(t, outcome, 2, 1, 1, 100, true)
}

func TestGradeSubmission_RoundingHalfUp(t *testing.T) {
	exam := gradingExam(2, question(1, "A", 1), question(2, "B", 1), question(3, "C", 1))

	// 1 of 3 is 33.33 -> 33; 2 of 3 is 66.67 -> 67
	one := GradeSubmission(exam, map[string]string{"1": "A"})
	if one.Percentage != 33 {
		t.Errorf("Percentage = %d, want 33", one.Percentage)
	}

	two := GradeSubmission(exam, map[string]string{"1": "A", "2": "B"})
	if two.Percentage != 67 {
		t.Errorf("Percentage = %d, want 67", two.Percentage)
	}
}

func TestGradeSubmission_AnalysisFollowsQuestionOrder(t *testing.T) {
	exam := gradingExam(2, question(3, "C", 1), question(1, "A", 1), question(2, "B", 1))

	outcome := GradeSubmission(exam, map[string]string{"1": "A", "2": "B", "3": "C"})

	wantOrder := []uint{3, 1, 2}
	if len(outcome.Analysis) != len(wantOrder) {
		t.Fatalf("Analysis length = %d, want %d", len(outcome.Analysis), len(wantOrder))
	}
	for i, want := range wantOrder {
		if outcome.Analysis[i].QuestionID != want {
			t.Errorf("Analysis[%d].QuestionID = %d, want %d", i, outcome.Analysis[i].QuestionID, want)
		}
	}
}

func TestGradeSubmission_AnalysisRecordsAnswerDetails(t *testing.T) {
	exam := gradingExam(1, question(1, "A", 2))

	outcome := GradeSubmission(exam, map[string]string{"1": "A"})

	row := outcome.Analysis[0]
	if row.UserAnswer == nil || *row.UserAnswer != "A" {
		t.Errorf("UserAnswer = %v, want A", row.UserAnswer)
	}
	if row.CorrectAnswer != "A" {
		t.Errorf("CorrectAnswer = %q, want A", row.CorrectAnswer)
	}
	if !row.IsCorrect {
		t.Error("IsCorrect = false, want true")
	}
	if row.Marks != 2 || row.MarksObtained != 2 {
		t.Errorf("Marks/MarksObtained = %d/%d, want 2/2", row.Marks, row.MarksObtained)
	}
}

func TestPassingMarksDefault(t *testing.T) {
	tests := []struct {
		totalMarks int
		want       int
	}{
		{totalMarks: 10, want: 6},
		{totalMarks: 5, want: 3},
		{totalMarks: 2, want: 2},
		{totalMarks: 1, want: 1},
		{totalMarks: 7, want: 5},
	}
	for _, tt := range tests {
		if got := PassingMarksDefault(tt.totalMarks); got != tt.want {
			t.Errorf("PassingMarksDefault(%d) = %d, want %d", tt.totalMarks, got, tt.want)
		}
	}
}

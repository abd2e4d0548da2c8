package validator

import (
	"testing"

	"github.com/edusphere/exam-service/internal/models"
)

func hasFieldError(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func createRequest(questions ...QuestionRequest) *ExamCreateRequest {
	return &ExamCreateRequest{
		Title:     "Algebra Basics",
		SubjectID: 1,
		Questions: questions,
	}
}

func questionRequest(correct string, marks int) QuestionRequest {
	return QuestionRequest{
		Text:          "placeholder",
		Options:       []string{"one", "two"},
		CorrectAnswer: correct,
		Marks:         marks,
	}
}

func TestValidateExamCreate_TotalMarksBelowQuestionSum(t *testing.T) {
	bv := NewBusinessValidator()

	req := createRequest(questionRequest("A", 1), questionRequest("B", 1))
	override := 1
	req.TotalMarks = &override

	errs := bv.ValidateExamCreate(req)
	if !hasFieldError(errs, "total_marks") {
		t.Errorf("total_marks override below the question sum accepted: %v", errs)
	}
}

func TestValidateExamCreate_TotalMarksAtOrAboveQuestionSum(t *testing.T) {
	bv := NewBusinessValidator()

	for _, override := range []int{2, 10} {
		req := createRequest(questionRequest("A", 1), questionRequest("B", 1))
		req.TotalMarks = &override

		if errs := bv.ValidateExamCreate(req); len(errs) != 0 {
			t.Errorf("override %d rejected: %v", override, errs)
		}
	}
}

func TestValidateExamUpdate_TotalMarksBelowReplacementQuestions(t *testing.T) {
	bv := NewBusinessValidator()

	override := 2
	errs := bv.ValidateExamUpdate(&ExamUpdateRequest{
		TotalMarks: &override,
		Questions:  []QuestionRequest{questionRequest("A", 3)},
	}, &models.Exam{})

	if !hasFieldError(errs, "total_marks") {
		t.Errorf("total_marks override below the replacement sum accepted: %v", errs)
	}
}

func TestValidateExamUpdate_TotalMarksBelowExistingQuestions(t *testing.T) {
	bv := NewBusinessValidator()

	existing := &models.Exam{
		Questions: []models.Question{
			{ID: 1, Marks: 2},
			{ID: 2, Marks: 2},
		},
	}
	override := 3
	errs := bv.ValidateExamUpdate(&ExamUpdateRequest{TotalMarks: &override}, existing)

	if !hasFieldError(errs, "total_marks") {
		t.Errorf("total_marks override below the stored question sum accepted: %v", errs)
	}

	override = 4
	if errs := bv.ValidateExamUpdate(&ExamUpdateRequest{TotalMarks: &override}, existing); len(errs) != 0 {
		t.Errorf("override matching the stored question sum rejected: %v", errs)
	}
}

func TestValidator_StructValidationKnowsCustomRules(t *testing.T) {
	// Plain struct validation shares the business validator's instance, so
	// the option_letter rule is registered there too.
	req := createRequest(questionRequest("9", 1))

	err := New().Validate(req)
	if err == nil {
		t.Fatal("correct answer outside A-F accepted")
	}

	errs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("Validate error = %v, want ValidationErrors", err)
	}
	if !hasFieldError(errs, "CorrectAnswer") {
		t.Errorf("expected a CorrectAnswer error, got %v", errs)
	}
}

package validator

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edusphere/exam-service/internal/models"
)

// BusinessValidator handles cross-field business rule validation that
// struct tags cannot express: schedule windows, answer-key consistency,
// marks relationships.
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateExamCreate validates exam creation business rules
func (bv *BusinessValidator) ValidateExamCreate(req *ExamCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Answer keys must reference an existing option
	errors = append(errors, bv.validateQuestionKeys(req.Questions)...)

	// An explicit total override cannot be below the question marks sum,
	// or grading could award more marks than the total
	if req.TotalMarks != nil && *req.TotalMarks > 0 {
		if sum := EffectiveTotalMarks(nil, req.Questions); *req.TotalMarks < sum {
			errors = append(errors, ValidationError{
				Field:   "total_marks",
				Message: fmt.Sprintf("cannot be below the question marks sum (%d)", sum),
				Value:   *req.TotalMarks,
				Rule:    "business_logic",
			})
		}
	}

	// Passing marks cannot exceed the effective total
	total := EffectiveTotalMarks(req.TotalMarks, req.Questions)
	if req.PassingMarks != nil && *req.PassingMarks > total {
		errors = append(errors, ValidationError{
			Field:   "passing_marks",
			Message: fmt.Sprintf("cannot exceed total marks (%d)", total),
			Value:   *req.PassingMarks,
			Rule:    "business_logic",
		})
	}

	scheduleType := models.ScheduleFlexible
	if req.ScheduleType != nil {
		scheduleType = *req.ScheduleType
	}
	errors = append(errors, bv.ValidateScheduleWindow(scheduleType, req.StartTime, req.EndTime, req.AvailableFrom, req.AvailableUntil)...)

	return errors
}

// ValidateExamUpdate validates exam update business rules against the
// stored exam.
func (bv *BusinessValidator) ValidateExamUpdate(req *ExamUpdateRequest, existing *models.Exam) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	if req.PassingMarks != nil && req.PassingPercent != nil {
		errors = append(errors, ValidationError{
			Field:   "passing_marks",
			Message: "passing_marks and passing_percent are mutually exclusive",
			Rule:    "business_logic",
		})
	}

	if len(req.Questions) > 0 {
		errors = append(errors, bv.validateQuestionKeys(req.Questions)...)
	}

	// Same override floor as creation, against whichever question set the
	// update leaves in place
	if req.TotalMarks != nil && *req.TotalMarks > 0 {
		sum := 0
		if len(req.Questions) > 0 {
			sum = EffectiveTotalMarks(nil, req.Questions)
		} else {
			for i := range existing.Questions {
				sum += existing.Questions[i].EffectiveMarks()
			}
		}
		if *req.TotalMarks < sum {
			errors = append(errors, ValidationError{
				Field:   "total_marks",
				Message: fmt.Sprintf("cannot be below the question marks sum (%d)", sum),
				Value:   *req.TotalMarks,
				Rule:    "business_logic",
			})
		}
	}

	// Scheduling is only re-validated when the block is being replaced
	if req.ScheduleType != nil {
		errors = append(errors, bv.ValidateScheduleWindow(*req.ScheduleType, req.StartTime, req.EndTime, req.AvailableFrom, req.AvailableUntil)...)
	}

	return errors
}

// ValidateScheduleWindow enforces the scheduling invariants: a fixed
// window requires both bounds in order, a flexible window only needs its
// set bounds to be ordered (unset bounds mean unbounded).
func (bv *BusinessValidator) ValidateScheduleWindow(scheduleType models.ScheduleType, startTime, endTime, availableFrom, availableUntil *time.Time) ValidationErrors {
	var errors ValidationErrors

	switch scheduleType {
	case models.ScheduleFixed:
		if startTime == nil || endTime == nil {
			errors = append(errors, ValidationError{
				Field:   "start_time",
				Message: "fixed schedule requires both start_time and end_time",
				Rule:    "business_logic",
			})
		} else if !startTime.Before(*endTime) {
			errors = append(errors, ValidationError{
				Field:   "end_time",
				Message: "end_time must be after start_time",
				Value:   endTime,
				Rule:    "business_logic",
			})
		}
		if availableFrom != nil || availableUntil != nil {
			errors = append(errors, ValidationError{
				Field:   "available_from",
				Message: "available_from/available_until are not valid for a fixed schedule",
				Rule:    "business_logic",
			})
		}

	case models.ScheduleFlexible:
		if availableFrom != nil && availableUntil != nil && !availableFrom.Before(*availableUntil) {
			errors = append(errors, ValidationError{
				Field:   "available_until",
				Message: "available_until must be after available_from",
				Value:   availableUntil,
				Rule:    "business_logic",
			})
		}
		if startTime != nil || endTime != nil {
			errors = append(errors, ValidationError{
				Field:   "start_time",
				Message: "start_time/end_time are not valid for a flexible schedule",
				Rule:    "business_logic",
			})
		}

	default:
		errors = append(errors, ValidationError{
			Field:   "schedule_type",
			Message: "must be fixed or flexible",
			Value:   scheduleType,
			Rule:    "business_logic",
		})
	}

	return errors
}

// validateQuestionKeys checks each correct answer against its option list.
func (bv *BusinessValidator) validateQuestionKeys(questions []QuestionRequest) ValidationErrors {
	var errors ValidationErrors

	for i, q := range questions {
		idx := OptionLetterIndex(q.CorrectAnswer)
		if idx < 0 || idx >= len(q.Options) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("questions[%d].correct_answer", i),
				Message: fmt.Sprintf("option %q does not exist for this question", q.CorrectAnswer),
				Value:   q.CorrectAnswer,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// registerBusinessRules registers custom field validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Option letter: a single letter A-F
	bv.validate.RegisterValidation("option_letter", func(fl validator.FieldLevel) bool {
		return OptionLetterIndex(fl.Field().String()) >= 0
	})
}

// OptionLetterIndex maps an option letter ("A".."F") to its zero-based
// position, or -1 when the value is not a valid letter.
func OptionLetterIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	c := letter[0]
	if c >= 'A' && c <= 'F' {
		return int(c - 'A')
	}
	return -1
}

// EffectiveTotalMarks resolves the total marks for a question set: an
// explicit positive override wins, otherwise the per-question marks are
// summed with unset marks counting as 1.
func EffectiveTotalMarks(override *int, questions []QuestionRequest) int {
	if override != nil && *override > 0 {
		return *override
	}

	total := 0
	for _, q := range questions {
		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		total += marks
	}
	return total
}

package services

import (
	"math"
	"strconv"

	"github.com/edusphere/exam-service/internal/models"
)

// GradingOutcome holds the derived fields of a graded submission
type GradingOutcome struct {
	Score          int
	TotalQuestions int
	TotalMarks     int
	ObtainedMarks  int
	Percentage     int
	Passed         bool
	Analysis       []models.QuestionAnalysis
}

// GradeSubmission grades a set of answers against an exam's questions.
// Answers are keyed by the decimal question ID. An unanswered question
// counts as incorrect and contributes a nil UserAnswer in the analysis.
func GradeSubmission(exam *models.Exam, answers map[string]string) GradingOutcome {
	outcome := GradingOutcome{
		TotalQuestions: len(exam.Questions),
		Analysis:       make([]models.QuestionAnalysis, 0, len(exam.Questions)),
	}

	marksSum := 0
	for i := range exam.Questions {
		q := &exam.Questions[i]
		marks := q.EffectiveMarks()
		marksSum += marks

		analysis := models.QuestionAnalysis{
			QuestionID:    q.ID,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         marks,
		}

		if answer, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]; ok {
			value := answer
			analysis.UserAnswer = &value
			if answer == q.CorrectAnswer {
				analysis.IsCorrect = true
				analysis.MarksObtained = marks
				outcome.Score++
				outcome.ObtainedMarks += marks
			}
		}

		outcome.Analysis = append(outcome.Analysis, analysis)
	}

	outcome.TotalMarks = marksSum
	if exam.TotalMarks > 0 {
		outcome.TotalMarks = exam.TotalMarks
	}

	// A stored total below the question marks sum (rejected at write time,
	// but possible in pre-existing rows) must not push the percentage past
	// 100.
	if outcome.ObtainedMarks > outcome.TotalMarks {
		outcome.ObtainedMarks = outcome.TotalMarks
	}

	outcome.Percentage = roundPercent(outcome.ObtainedMarks, outcome.TotalMarks)
	outcome.Passed = outcome.Percentage >= roundPercent(exam.PassingMarks, outcome.TotalMarks)

	return outcome
}

// PassingMarksDefault derives the default passing threshold from total marks
func PassingMarksDefault(totalMarks int) int {
	return int(math.Ceil(float64(totalMarks) * 0.6))
}

func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

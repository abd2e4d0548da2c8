package services

import (
	"errors"
	"fmt"

	"github.com/edusphere/exam-service/internal/models"
)

// Sentinel errors returned by the service layer
var (
	ErrExamNotFound    = errors.New("exam not found")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrSchoolNotFound  = errors.New("school not found")
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrResultNotFound  = errors.New("exam result not found")
)

// AlreadySubmittedError is returned when a student has already submitted an
// exam. It carries a summary of the earlier result so callers can surface it.
type AlreadySubmittedError struct {
	Previous models.ResultSummary
}

func (e *AlreadySubmittedError) Error() string {
	return fmt.Sprintf("exam already submitted: previous score %d/%d (%d%%)",
		e.Previous.ObtainedMarks, e.Previous.TotalMarks, e.Previous.Percentage)
}

// NotAvailableError is returned when a submission arrives outside the exam's
// availability window or the exam is inactive.
type NotAvailableError struct {
	Availability models.Availability
}

func (e *NotAvailableError) Error() string {
	switch {
	case e.Availability.IsUpcoming:
		return "exam is not yet available"
	case e.Availability.HasEnded:
		return "exam availability has ended"
	default:
		return "exam is not available"
	}
}

// IsAlreadySubmitted reports whether err is an AlreadySubmittedError
func IsAlreadySubmitted(err error) (*AlreadySubmittedError, bool) {
	var target *AlreadySubmittedError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsNotAvailable reports whether err is a NotAvailableError
func IsNotAvailable(err error) (*NotAvailableError, bool) {
	var target *NotAvailableError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

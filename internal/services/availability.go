package services

import (
	"time"

	"github.com/edusphere/exam-service/internal/models"
)

// EvaluateAvailability computes the availability projection for an exam at a
// given instant. Inactive exams are never available. A fixed-schedule exam
// with either bound missing is treated as never available; flexible exams
// with an unset bound are open on that side.
func EvaluateAvailability(exam *models.Exam, now time.Time) models.Availability {
	if !exam.IsActive {
		return models.Availability{}
	}

	switch exam.ScheduleType {
	case models.ScheduleFixed:
		if exam.StartTime == nil || exam.EndTime == nil {
			return models.Availability{}
		}
		if now.Before(*exam.StartTime) {
			return models.Availability{IsUpcoming: true}
		}
		if !now.Before(*exam.EndTime) {
			return models.Availability{HasEnded: true}
		}
		return models.Availability{IsCurrentlyAvailable: true}

	default: // flexible
		if exam.AvailableFrom != nil && now.Before(*exam.AvailableFrom) {
			return models.Availability{IsUpcoming: true}
		}
		if exam.AvailableUntil != nil && !now.Before(*exam.AvailableUntil) {
			return models.Availability{HasEnded: true}
		}
		return models.Availability{IsCurrentlyAvailable: true}
	}
}

package services

import (
	"testing"
	"time"

	"github.com/edusphere/exam-service/internal/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func assertAvailability(t *testing.T, got models.Availability, available, upcoming, ended bool) {
	t.Helper()
	if got.IsCurrentlyAvailable != available {
		t.Errorf("IsCurrentlyAvailable = %v, want %v", got.IsCurrentlyAvailable, available)
	}
	if got.IsUpcoming != upcoming {
		t.Errorf("IsUpcoming = %v, want %v", got.IsUpcoming, upcoming)
	}
	if got.HasEnded != ended {
		t.Errorf("HasEnded = %v, want %v", got.HasEnded, ended)
	}
}

func TestEvaluateAvailability_FixedUpcoming(t *testing.T) {
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &models.Exam{
		IsActive:     true,
		ScheduleType: models.ScheduleFixed,
		StartTime:    timePtr(clock.Add(1 * time.Hour)),
		EndTime:      timePtr(clock.Add(3 * time.Hour)),
	}

	assertAvailability(t, EvaluateAvailability(exam, clock), false, true, false)
}

func TestEvaluateAvailability_FixedOpen(t *testing.T) {
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &models.Exam{
		IsActive:     true,
		ScheduleType: models.ScheduleFixed,
		StartTime:    timePtr(clock.Add(-1 * time.Hour)),
		EndTime:      timePtr(clock.Add(1 * time.Hour)),
	}

	assertAvailability(t, EvaluateAvailability(exam, clock), true, false, false)
}

func TestEvaluateAvailability_FixedEnded(t *testing.T) {
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &models.Exam{
		IsActive:     true,
		ScheduleType: models.ScheduleFixed,
		StartTime:    timePtr(clock.Add(-3 * time.Hour)),
		EndTime:      timePtr(clock.Add(-1 * time.Hour)),
	}

	assertAvailability(t, EvaluateAvailability(exam, clock), false, false, true)
}

func TestEvaluateAvailability_FixedBoundaryInstants(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	exam := &models.Exam{
		IsActive:     true,
		ScheduleType: models.ScheduleFixed,
		StartTime:    &start,
		EndTime:      &end,
	}

	// Inclusive at start, exclusive at end
	assertAvailability(t, EvaluateAvailability(exam, start), true, false, false)
	assertAvailability(t, EvaluateAvailability(exam, end), false, false, true)
}

func TestEvaluateAvailability_FixedMissingBoundNeverAvailable(t *testing.T) {
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	noEnd := &models.Exam{
		IsActive:     true,
		ScheduleType: models.ScheduleFixed,
		StartTime:    timePtr(clock.Add(-1 * time.Hour)),
	}
	assertAvailability(t, EvaluateAvailability(noEnd, clock), false, false, false)

	noStart := &models.Exam{
		IsActive:     true,
		ScheduleType: models.ScheduleFixed,
		EndTime:      timePtr(clock.Add(1 * time.Hour)),
	}
	assertAvailability(t, EvaluateAvailability(noStart, clock), false, false, false)
}

func TestEvaluateAvailability_FlexibleUnsetBoundsAlwaysOpen(t *testing.T) {
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &models.Exam{
		IsActive:     true,
		ScheduleType: models.ScheduleFlexible,
	}

	assertAvailability(t, EvaluateAvailability(exam, clock), true, false, false)
}

func TestEvaluateAvailability_FlexibleOnlyFromSet(t *testing.T) {
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	before := &models.Exam{
		IsActive:      true,
		ScheduleType:  models.ScheduleFlexible,
		AvailableFrom: timePtr(clock.Add(1 * time.Hour)),
	}
	assertAvailability(t, EvaluateAvailability(before, clock), false, true, false)

	after := &models.Exam{
		IsActive:      true,
		ScheduleType:  models.ScheduleFlexible,
		AvailableFrom: timePtr(clock.Add(-1 * time.Hour)),
	}
	assertAvailability(t, EvaluateAvailability(after, clock), true, false, false)
}

func TestEvaluateAvailability_FlexibleOnlyUntilSet(t *testing.T) {
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	open := &models.Exam{
		IsActive:       true,
		ScheduleType:   models.ScheduleFlexible,
		AvailableUntil: timePtr(clock.Add(1 * time.Hour)),
	}
	assertAvailability(t, EvaluateAvailability(open, clock), true, false, false)

	closed := &models.Exam{
		IsActive:       true,
		ScheduleType:   models.ScheduleFlexible,
		AvailableUntil: timePtr(clock.Add(-1 * time.Hour)),
	}
	assertAvailability(t, EvaluateAvailability(closed, clock), false, false, true)
}

func TestEvaluateAvailability_InactiveNeverAvailable(t *testing.T) {
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &models.Exam{
		IsActive:     false,
		ScheduleType: models.ScheduleFlexible,
	}

	assertAvailability(t, EvaluateAvailability(exam, clock), false, false, false)

	fixedOpen := &models.Exam{
		IsActive:     false,
		ScheduleType: models.ScheduleFixed,
		StartTime:    timePtr(clock.Add(-1 * time.Hour)),
		EndTime:      timePtr(clock.Add(1 * time.Hour)),
	}
	assertAvailability(t, EvaluateAvailability(fixedOpen, clock), false, false, false)
}

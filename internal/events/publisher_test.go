package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestMockEventPublisher_RecordsEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	data := ResultRecordedEvent{
		ResultID:   7,
		ExamID:     3,
		StudentID:  42,
		Percentage: 50,
		Passed:     false,
	}

	if err := publisher.Publish(ctx, TopicResultEvents, EventResultRecorded, data); err != nil {
		t.Fatalf("Failed to publish event: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(published))
	}

	event := published[0]
	if event.Type != EventResultRecorded {
		t.Errorf("Expected event type %q, got %q", EventResultRecorded, event.Type)
	}
	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}
	if event.Source != "exam-service" {
		t.Errorf("Expected source 'exam-service', got %q", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Expected version '1.0', got %q", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Event timestamp should not be zero")
	}

	recorded, ok := event.Data.(ResultRecordedEvent)
	if !ok {
		t.Fatalf("Expected ResultRecordedEvent payload, got %T", event.Data)
	}
	if recorded.Percentage != 50 {
		t.Errorf("Expected percentage 50, got %d", recorded.Percentage)
	}
}

func TestMockEventPublisher_ClearEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	_ = publisher.Publish(ctx, TopicExamEvents, EventExamDeleted, ExamDeletedEvent{ExamID: 1})
	_ = publisher.Publish(ctx, TopicExamEvents, EventExamDeleted, ExamDeletedEvent{ExamID: 2})

	if got := len(publisher.GetPublishedEvents()); got != 2 {
		t.Fatalf("Expected 2 events, got %d", got)
	}

	publisher.ClearEvents()

	if got := len(publisher.GetPublishedEvents()); got != 0 {
		t.Fatalf("Expected 0 events after clear, got %d", got)
	}
}

package events

import (
	"context"
	"time"
)

// Event topics
const (
	TopicExamEvents   = "exam.events"
	TopicResultEvents = "exam.result.events"
)

// Event types
const (
	EventExamCreated    = "exam.created"
	EventExamUpdated    = "exam.updated"
	EventExamDeleted    = "exam.deleted"
	EventResultRecorded = "exam.result.recorded"
)

// Event is the envelope published to the message broker
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// ExamCreatedEvent is emitted after an exam definition is persisted
type ExamCreatedEvent struct {
	ExamID    uint   `json:"exam_id"`
	SubjectID uint   `json:"subject_id"`
	Title     string `json:"title"`
}

// ExamUpdatedEvent is emitted after an exam definition changes
type ExamUpdatedEvent struct {
	ExamID    uint `json:"exam_id"`
	SubjectID uint `json:"subject_id"`
}

// ExamDeletedEvent is emitted after an exam and its results are removed
type ExamDeletedEvent struct {
	ExamID         uint  `json:"exam_id"`
	SubjectID      uint  `json:"subject_id"`
	ResultsRemoved int64 `json:"results_removed"`
}

// ResultRecordedEvent is emitted after a submission is graded and stored
type ResultRecordedEvent struct {
	ResultID   uint `json:"result_id"`
	ExamID     uint `json:"exam_id"`
	StudentID  uint `json:"student_id"`
	Percentage int  `json:"percentage"`
	Passed     bool `json:"passed"`
}

// EventPublisher publishes domain events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, topic string, eventType string, data interface{}) error
	Close() error
}

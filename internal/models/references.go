package models

import "time"

// The entities below are owned by external collaborators (registration,
// class management, staffing). This service validates their existence when
// an exam or submission references them but never manages their lifecycle.

type Subject struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Code      *string   `json:"code" gorm:"size:20"`
	CreatedAt time.Time `json:"created_at"`
}

type Class struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	SchoolID  uint      `json:"school_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

type School struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:200"`
	CreatedAt time.Time `json:"created_at"`
}

type Teacher struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	SchoolID  uint      `json:"school_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

type Student struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	ClassID   uint      `json:"class_id" gorm:"index"`
	SchoolID  uint      `json:"school_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Subject) TableName() string { return "subjects" }
func (Class) TableName() string   { return "classes" }
func (School) TableName() string  { return "schools" }
func (Teacher) TableName() string { return "teachers" }
func (Student) TableName() string { return "students" }

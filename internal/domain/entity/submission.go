package entity

import "time"

// Submission is one homework hand-in as exposed by the submission feed.
// The scoring pass only needs when it was handed in and when it was due;
// authoring, files and grading live outside this service.
type Submission struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	UserID       uint `gorm:"not null;index" json:"user_id"`
	AssignmentID uint `gorm:"not null;index" json:"assignment_id"`

	SubmittedAt time.Time `gorm:"not null;index" json:"submitted_at"`
	DueAt       time.Time `gorm:"not null" json:"due_at"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName defines the gorm table name.
func (Submission) TableName() string {
	return "submissions"
}

package entity

import "time"

// Section is an administrative cohort of students. Competitions of type
// section or mixed rank sections against each other.
type Section struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Code string `gorm:"size:20;uniqueIndex" json:"code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the gorm table name.
func (Section) TableName() string {
	return "sections"
}

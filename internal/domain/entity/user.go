package entity

import "time"

// User is a student account as seen by the competition engine. Account and
// session management live outside this service; only the fields needed for
// enrollment, section aggregation and career totals are modelled here.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	FullName string `gorm:"size:150" json:"full_name"`
	Email    string `gorm:"size:255" json:"email"`

	SectionID *uint `gorm:"index" json:"section_id,omitempty"`

	// TotalPoints accumulates bonus points across all competitions.
	TotalPoints int `gorm:"not null;default:0" json:"total_points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Section *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}

// TableName defines the gorm table name.
func (User) TableName() string {
	return "users"
}

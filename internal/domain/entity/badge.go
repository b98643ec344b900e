package entity

import "time"

// Badge tiers, highest to lowest. Unknown tiers fall back to a default
// point value during scoring.
const (
	BadgeTierTop = "top"
	BadgeTierMid = "mid"
	BadgeTierLow = "low"
)

// UserBadge is one badge earned by a user, as exposed by the badge feed.
// Badge definitions and the rules for earning them live outside this
// service; scoring only cares about the tier and when it was earned.
type UserBadge struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Tier   string `gorm:"size:20;not null" json:"tier"`

	EarnedAt time.Time `gorm:"not null;index" json:"earned_at"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName defines the gorm table name.
func (UserBadge) TableName() string {
	return "user_badges"
}

package entity

import "time"

// Reward types.
const (
	RewardTypePoints      = "points"
	RewardTypeBadge       = "badge"
	RewardTypeCertificate = "certificate"
	RewardTypeSpecial     = "special"
)

// Reward is an immutable record of a prize granted to a participant when
// its competition finished. Exactly one reward exists per configured
// prize rank per competition.
type Reward struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	CompetitionID uint `gorm:"not null;index" json:"competition_id"`
	ParticipantID uint `gorm:"not null;index" json:"participant_id"`

	RewardType  string `gorm:"size:20;not null;default:'points'" json:"reward_type"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	PointsValue int    `gorm:"not null;default:0" json:"points_value"`

	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName defines the gorm table name.
func (Reward) TableName() string {
	return "competition_rewards"
}

package entity

import (
	"time"
)

// Participant is a user's enrollment in one competition, holding its own
// score state. total_score is always submission_score + badge_score +
// bonus_score after a recomputation pass.
type Participant struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	CompetitionID uint `gorm:"not null;index;uniqueIndex:idx_competition_user" json:"competition_id"`
	UserID        uint `gorm:"not null;index;uniqueIndex:idx_competition_user" json:"user_id"`

	SubmissionScore int `gorm:"not null;default:0" json:"submission_score"`
	BadgeScore      int `gorm:"not null;default:0" json:"badge_score"`
	BonusScore      int `gorm:"not null;default:0" json:"bonus_score"`
	TotalScore      int `gorm:"not null;default:0;index:idx_participant_score" json:"total_score"`

	// Rank is 0 until the first ranking pass assigns a position.
	Rank         int `gorm:"not null;default:0" json:"rank"`
	PreviousRank int `gorm:"not null;default:0" json:"previous_rank"`

	SubmissionsCount int `gorm:"not null;default:0" json:"submissions_count"`
	EarlySubmissions int `gorm:"not null;default:0" json:"early_submissions"`
	LateSubmissions  int `gorm:"not null;default:0" json:"late_submissions"`

	JoinedAt     time.Time `gorm:"not null" json:"joined_at"`
	LastActivity time.Time `json:"last_activity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName defines the gorm table name.
func (Participant) TableName() string {
	return "competition_participants"
}

// RecalculateTotal restores the total score invariant after any of the
// three score components changed.
func (p *Participant) RecalculateTotal() {
	p.TotalScore = p.SubmissionScore + p.BadgeScore + p.BonusScore
}

// AdvanceRank records the current rank as the previous one, then takes the
// new position. previous_rank is only ever the value from the immediately
// preceding pass.
func (p *Participant) AdvanceRank(rank int) {
	p.PreviousRank = p.Rank
	p.Rank = rank
}

// RankChange is the signed delta between the previous and current rank:
// positive means the participant improved, negative means it dropped.
// Zero until two passes have ranked the participant.
func (p *Participant) RankChange() int {
	if p.Rank == 0 || p.PreviousRank == 0 {
		return 0
	}
	return p.PreviousRank - p.Rank
}

// SectionID returns the section of the participant's user, when loaded.
func (p *Participant) SectionID() (uint, bool) {
	if p.User == nil || p.User.SectionID == nil {
		return 0, false
	}
	return *p.User.SectionID, true
}

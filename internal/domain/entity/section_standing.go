package entity

import "time"

// SectionStanding is one section's aggregated position inside a
// competition. It is created lazily on the first join from that section and
// recomputed wholesale on every aggregation pass.
type SectionStanding struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	CompetitionID uint `gorm:"not null;index;uniqueIndex:idx_competition_section" json:"competition_id"`
	SectionID     uint `gorm:"not null;index;uniqueIndex:idx_competition_section" json:"section_id"`

	TotalPoints      int     `gorm:"not null;default:0" json:"total_points"`
	AverageScore     float64 `gorm:"not null;default:0" json:"average_score"`
	ParticipantCount int     `gorm:"not null;default:0" json:"participant_count"`

	Rank         int `gorm:"not null;default:0" json:"rank"`
	PreviousRank int `gorm:"not null;default:0" json:"previous_rank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Section *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}

// TableName defines the gorm table name.
func (SectionStanding) TableName() string {
	return "section_standings"
}

// AdvanceRank records the current rank as the previous one, then takes the
// new position.
func (s *SectionStanding) AdvanceRank(rank int) {
	s.PreviousRank = s.Rank
	s.Rank = rank
}

// RankChange is the signed delta between the previous and current rank
// (positive = improved). Zero until two passes have ranked the section.
func (s *SectionStanding) RankChange() int {
	if s.Rank == 0 || s.PreviousRank == 0 {
		return 0
	}
	return s.PreviousRank - s.Rank
}

package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Competition types.
const (
	CompetitionTypeIndividual = "individual"
	CompetitionTypeSection    = "section"
	CompetitionTypeMixed      = "mixed"
)

// Competition lifecycle statuses.
const (
	CompetitionStatusUpcoming  = "upcoming"
	CompetitionStatusActive    = "active"
	CompetitionStatusFinished  = "finished"
	CompetitionStatusCancelled = "cancelled"
)

// PrizeStructure maps a 1-based rank to the bonus points awarded for it.
// Stored as JSONB; keys are rank numbers serialized as strings,
// e.g. {"1": 100, "2": 50, "3": 25}.
type PrizeStructure map[string]int

// Value implements driver.Valuer for gorm.
func (ps PrizeStructure) Value() (driver.Value, error) {
	if ps == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(ps)
}

// Scan implements sql.Scanner for gorm.
func (ps *PrizeStructure) Scan(value interface{}) error {
	if value == nil {
		*ps = PrizeStructure{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for PrizeStructure: %T", value)
	}
	return json.Unmarshal(data, ps)
}

// PointsForRank returns the configured bonus points for a rank, if any.
func (ps PrizeStructure) PointsForRank(rank int) (int, bool) {
	points, ok := ps[strconv.Itoa(rank)]
	return points, ok
}

// Competition is a time-boxed contest over homework activity.
// Its scoring parameters and prize structure are immutable once active;
// only the lifecycle transitions mutate it after creation.
type Competition struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Title           string `gorm:"size:200;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	CompetitionType string `gorm:"size:20;not null;default:'individual'" json:"competition_type"`
	Status          string `gorm:"size:20;not null;default:'upcoming';index" json:"status"`

	StartDate time.Time `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`

	MaxParticipants *int `gorm:"default:null" json:"max_participants,omitempty"`

	EarlySubmissionPoints int `gorm:"not null;default:15" json:"early_submission_points"`
	OnTimePoints          int `gorm:"not null;default:10" json:"on_time_points"`
	LatePenalty           int `gorm:"not null;default:5" json:"late_penalty"`

	PrizeStructure PrizeStructure `gorm:"type:jsonb;not null;default:'{}'" json:"prize_structure"`

	AutoRanking bool `gorm:"not null;default:true" json:"auto_ranking"`
	IsFeatured  bool `gorm:"not null;default:false" json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName defines the gorm table name.
func (Competition) TableName() string {
	return "competitions"
}

// IsUpcoming reports whether the competition has not started yet.
func (c *Competition) IsUpcoming() bool {
	return c.Status == CompetitionStatusUpcoming
}

// IsActive reports whether the competition is currently running.
func (c *Competition) IsActive() bool {
	return c.Status == CompetitionStatusActive
}

// IsFinished reports whether the competition reached its terminal finished state.
func (c *Competition) IsFinished() bool {
	return c.Status == CompetitionStatusFinished
}

// HasSectionRanking reports whether section standings apply to this competition.
func (c *Competition) HasSectionRanking() bool {
	return c.CompetitionType == CompetitionTypeSection || c.CompetitionType == CompetitionTypeMixed
}

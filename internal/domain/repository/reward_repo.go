package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// RewardRepository defines persistence operations for competition rewards.
type RewardRepository interface {
	// Create persists a reward inside tx.
	Create(tx *gorm.DB, reward *entity.Reward) error

	// CountByCompetition counts existing rewards for a competition inside
	// tx. A non-zero count marks the competition as already rewarded.
	CountByCompetition(tx *gorm.DB, competitionID uint) (int64, error)

	ListByCompetition(competitionID uint) ([]entity.Reward, error)
	ListByParticipant(participantID uint) ([]entity.Reward, error)
}

package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// RewardRepo implements repository.RewardRepository.
type RewardRepo struct {
	db *gorm.DB
}

// NewRewardRepo creates a new reward repository.
func NewRewardRepo(db *gorm.DB) *RewardRepo {
	return &RewardRepo{db: db}
}

// Create persists a reward inside tx.
func (r *RewardRepo) Create(tx *gorm.DB, reward *entity.Reward) error {
	return tx.Create(reward).Error
}

// CountByCompetition counts rewards already issued for a competition inside
// tx. The issuer uses it as the exactly-once guard.
func (r *RewardRepo) CountByCompetition(tx *gorm.DB, competitionID uint) (int64, error) {
	var count int64
	err := tx.Model(&entity.Reward{}).
		Where("competition_id = ?", competitionID).
		Count(&count).Error
	return count, err
}

// ListByCompetition returns all rewards issued for a competition.
func (r *RewardRepo) ListByCompetition(competitionID uint) ([]entity.Reward, error) {
	var rewards []entity.Reward
	err := r.db.Where("competition_id = ?", competitionID).
		Order("points_value DESC, id ASC").
		Find(&rewards).Error
	return rewards, err
}

// ListByParticipant returns all rewards a participant has earned.
func (r *RewardRepo) ListByParticipant(participantID uint) ([]entity.Reward, error) {
	var rewards []entity.Reward
	err := r.db.Where("participant_id = ?", participantID).
		Order("awarded_at DESC").
		Find(&rewards).Error
	return rewards, err
}

package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
)

// CompetitionRepo implements repository.CompetitionRepository.
type CompetitionRepo struct {
	db *gorm.DB
}

// NewCompetitionRepo creates a new competition repository.
func NewCompetitionRepo(db *gorm.DB) *CompetitionRepo {
	return &CompetitionRepo{db: db}
}

// Create persists a new competition.
func (r *CompetitionRepo) Create(competition *entity.Competition) error {
	return r.db.Create(competition).Error
}

// GetByID returns a competition by ID.
func (r *CompetitionRepo) GetByID(id uint) (*entity.Competition, error) {
	var competition entity.Competition
	err := r.db.First(&competition, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &competition, nil
}

// List returns competitions ordered by start date, newest first.
func (r *CompetitionRepo) List(limit, offset int) ([]entity.Competition, error) {
	var competitions []entity.Competition
	err := r.db.Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&competitions).Error
	return competitions, err
}

// ListActive returns competitions that are active and inside their window.
func (r *CompetitionRepo) ListActive(now time.Time) ([]entity.Competition, error) {
	var competitions []entity.Competition
	err := r.db.Where("status = ? AND start_date <= ? AND end_date > ?",
		entity.CompetitionStatusActive, now, now).
		Order("start_date DESC").
		Find(&competitions).Error
	return competitions, err
}

// ListFeatured returns featured competitions.
func (r *CompetitionRepo) ListFeatured() ([]entity.Competition, error) {
	var competitions []entity.Competition
	err := r.db.Where("is_featured = true").
		Order("start_date DESC").
		Find(&competitions).Error
	return competitions, err
}

// ListByParticipant returns competitions the given user has joined.
func (r *CompetitionRepo) ListByParticipant(userID uint) ([]entity.Competition, error) {
	var competitions []entity.Competition
	err := r.db.
		Joins("JOIN competition_participants cp ON cp.competition_id = competitions.id").
		Where("cp.user_id = ?", userID).
		Order("competitions.start_date DESC").
		Find(&competitions).Error
	return competitions, err
}

// ListDueForActivation returns upcoming competitions whose start date has passed.
func (r *CompetitionRepo) ListDueForActivation(now time.Time) ([]entity.Competition, error) {
	var competitions []entity.Competition
	err := r.db.Where("status = ? AND start_date <= ?",
		entity.CompetitionStatusUpcoming, now).
		Find(&competitions).Error
	return competitions, err
}

// ListDueForFinish returns active competitions whose end date has passed.
func (r *CompetitionRepo) ListDueForFinish(now time.Time) ([]entity.Competition, error) {
	var competitions []entity.Competition
	err := r.db.Where("status = ? AND end_date <= ?",
		entity.CompetitionStatusActive, now).
		Find(&competitions).Error
	return competitions, err
}

// ListAutoRanked returns active competitions with auto_ranking enabled.
func (r *CompetitionRepo) ListAutoRanked() ([]entity.Competition, error) {
	var competitions []entity.Competition
	err := r.db.Where("status = ? AND auto_ranking = true",
		entity.CompetitionStatusActive).
		Find(&competitions).Error
	return competitions, err
}

// UpdateStatus sets the status of a competition.
func (r *CompetitionRepo) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&entity.Competition{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// TransitionStatus atomically moves a competition between statuses inside tx.
// RowsAffected == 0 means another pass already performed the transition.
func (r *CompetitionRepo) TransitionStatus(tx *gorm.DB, id uint, from, to string) (bool, error) {
	result := tx.Model(&entity.Competition{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("transition competition #%d %s -> %s failed: %w", id, from, to, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountParticipants counts participants of a competition.
func (r *CompetitionRepo) CountParticipants(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Participant{}).
		Where("competition_id = ?", id).
		Count(&count).Error
	return count, err
}

package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
)

// ActivityRepo implements the submission and badge feeds the scoring pass
// reads from, plus repository.UserRepository.
type ActivityRepo struct {
	db *gorm.DB
}

// NewActivityRepo creates a new activity repository.
func NewActivityRepo(db *gorm.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// ListSubmissions returns the user's homework submissions inside [from, to).
func (r *ActivityRepo) ListSubmissions(ctx context.Context, userID uint, from, to time.Time) ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND submitted_at >= ? AND submitted_at < ?", userID, from, to).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

// ListBadgesEarned returns badges the user earned inside [from, to).
func (r *ActivityRepo) ListBadgesEarned(ctx context.Context, userID uint, from, to time.Time) ([]entity.UserBadge, error) {
	var badges []entity.UserBadge
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND earned_at >= ? AND earned_at < ?", userID, from, to).
		Order("earned_at ASC").
		Find(&badges).Error
	return badges, err
}

// GetByID returns a user by ID.
func (r *ActivityRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AddPoints credits career points to a user inside tx.
func (r *ActivityRepo) AddPoints(tx *gorm.DB, userID uint, points int) error {
	return tx.Model(&entity.User{}).
		Where("id = ?", userID).
		Update("total_points", gorm.Expr("total_points + ?", points)).Error
}

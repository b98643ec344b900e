package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// SubmissionFeed is the read-only view of homework submissions consumed by
// the score calculator. Implementations query by user within a competition
// window; the engine never writes submissions.
type SubmissionFeed interface {
	ListSubmissions(ctx context.Context, userID uint, from, to time.Time) ([]entity.Submission, error)
}

// BadgeFeed is the read-only view of earned badges consumed by the score
// calculator.
type BadgeFeed interface {
	ListBadgesEarned(ctx context.Context, userID uint, from, to time.Time) ([]entity.UserBadge, error)
}

// UserRepository defines the user lookups and point credits the engine needs.
type UserRepository interface {
	GetByID(id uint) (*entity.User, error)

	// AddPoints credits career bonus points to a user inside tx.
	AddPoints(tx *gorm.DB, userID uint, points int) error
}

package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// CompetitionRepository defines persistence operations for competitions.
type CompetitionRepository interface {
	Create(competition *entity.Competition) error
	GetByID(id uint) (*entity.Competition, error)
	List(limit, offset int) ([]entity.Competition, error)
	ListActive(now time.Time) ([]entity.Competition, error)
	ListFeatured() ([]entity.Competition, error)
	ListByParticipant(userID uint) ([]entity.Competition, error)

	// ListDueForActivation returns upcoming competitions whose start date
	// has passed.
	ListDueForActivation(now time.Time) ([]entity.Competition, error)

	// ListDueForFinish returns active competitions whose end date has passed.
	ListDueForFinish(now time.Time) ([]entity.Competition, error)

	// ListAutoRanked returns active competitions with auto_ranking enabled.
	ListAutoRanked() ([]entity.Competition, error)

	UpdateStatus(id uint, status string) error

	// TransitionStatus atomically moves a competition from one status to
	// another inside tx. It reports false when the competition was no
	// longer in the expected status, which guards finish-time side effects
	// against double execution.
	TransitionStatus(tx *gorm.DB, id uint, from, to string) (bool, error)

	CountParticipants(id uint) (int64, error)
}

package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// ParticipantRepository defines persistence operations for competition
// participants. Uniqueness of (competition, user) is enforced by the store;
// Create surfaces violations as apperrors.ErrConflict.
type ParticipantRepository interface {
	Create(participant *entity.Participant) error
	GetByCompetitionAndUser(competitionID, userID uint) (*entity.Participant, error)
	Delete(id uint) error

	// ListByCompetition returns all participants of a competition with the
	// user association preloaded, ordered by joined_at then id. The ranking
	// pass relies on that order as the final tie-break.
	ListByCompetition(competitionID uint) ([]*entity.Participant, error)

	// UpdateScores persists the score fields and submission counters of a
	// participant after a scoring pass.
	UpdateScores(participant *entity.Participant) error

	// UpdateRanks persists rank and previous_rank for all given participants.
	UpdateRanks(participants []*entity.Participant) error

	// Leaderboard returns participants ordered by rank, then total score,
	// then join time, optionally filtered by the user's section.
	Leaderboard(competitionID uint, sectionID *uint, limit, offset int) ([]*entity.Participant, int64, error)

	// TopByScore returns the best participants of a competition inside tx,
	// ordered the same way ranks are assigned.
	TopByScore(tx *gorm.DB, competitionID uint, limit int) ([]*entity.Participant, error)

	// AddBonus credits bonus points to a participant inside tx, keeping
	// total_score consistent.
	AddBonus(tx *gorm.DB, participantID uint, points int) error
}

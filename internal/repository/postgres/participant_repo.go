package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
)

// ParticipantRepo implements repository.ParticipantRepository.
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo creates a new participant repository.
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Create persists a new participant. The (competition_id, user_id) unique
// index turns duplicate joins into apperrors.ErrConflict.
func (r *ParticipantRepo) Create(participant *entity.Participant) error {
	if err := r.db.Create(participant).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user #%d already joined competition #%d",
				apperrors.ErrConflict, participant.UserID, participant.CompetitionID)
		}
		return err
	}
	return nil
}

// GetByCompetitionAndUser returns a user's enrollment in a competition.
func (r *ParticipantRepo) GetByCompetitionAndUser(competitionID, userID uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.Where("competition_id = ? AND user_id = ?", competitionID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// Delete removes a participant.
func (r *ParticipantRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Participant{}, id).Error
}

// ListByCompetition returns all participants of a competition with their
// user preloaded, ordered by joined_at then id. The ranking pass relies on
// that order as the final tie-break.
func (r *ParticipantRepo) ListByCompetition(competitionID uint) ([]*entity.Participant, error) {
	var participants []*entity.Participant
	err := r.db.Preload("User").
		Where("competition_id = ?", competitionID).
		Order("joined_at ASC, id ASC").
		Find(&participants).Error
	return participants, err
}

// UpdateScores persists the score fields and submission counters of a
// participant after a scoring pass.
func (r *ParticipantRepo) UpdateScores(participant *entity.Participant) error {
	return r.db.Model(&entity.Participant{}).
		Where("id = ?", participant.ID).
		Updates(map[string]interface{}{
			"submission_score":  participant.SubmissionScore,
			"badge_score":       participant.BadgeScore,
			"total_score":       participant.TotalScore,
			"submissions_count": participant.SubmissionsCount,
			"early_submissions": participant.EarlySubmissions,
			"late_submissions":  participant.LateSubmissions,
			"last_activity":     participant.LastActivity,
		}).Error
}

// UpdateRanks persists rank and previous_rank for all given participants
// in a single transaction, so a pass never leaves a half-ranked board.
func (r *ParticipantRepo) UpdateRanks(participants []*entity.Participant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range participants {
			err := tx.Model(&entity.Participant{}).
				Where("id = ?", p.ID).
				Updates(map[string]interface{}{
					"rank":          p.Rank,
					"previous_rank": p.PreviousRank,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Leaderboard returns participants ordered by rank, then total score, then
// join time, optionally filtered by the user's section.
func (r *ParticipantRepo) Leaderboard(competitionID uint, sectionID *uint, limit, offset int) ([]*entity.Participant, int64, error) {
	query := r.db.Model(&entity.Participant{}).
		Where("competition_participants.competition_id = ?", competitionID)
	if sectionID != nil {
		query = query.
			Joins("JOIN users ON users.id = competition_participants.user_id").
			Where("users.section_id = ?", *sectionID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var participants []*entity.Participant
	err := query.Preload("User").
		Order("CASE WHEN rank = 0 THEN 1 ELSE 0 END, rank ASC, total_score DESC, joined_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&participants).Error
	if err != nil {
		return nil, 0, err
	}
	return participants, total, nil
}

// TopByScore returns the best participants of a competition inside tx,
// ordered the same way ranks are assigned.
func (r *ParticipantRepo) TopByScore(tx *gorm.DB, competitionID uint, limit int) ([]*entity.Participant, error) {
	var participants []*entity.Participant
	err := tx.Where("competition_id = ?", competitionID).
		Order("total_score DESC, joined_at ASC, id ASC").
		Limit(limit).
		Find(&participants).Error
	return participants, err
}

// AddBonus credits bonus points to a participant inside tx. total_score is
// bumped together with bonus_score to keep the score invariant; the frozen
// rank is deliberately left untouched.
func (r *ParticipantRepo) AddBonus(tx *gorm.DB, participantID uint, points int) error {
	return tx.Model(&entity.Participant{}).
		Where("id = ?", participantID).
		Updates(map[string]interface{}{
			"bonus_score": gorm.Expr("bonus_score + ?", points),
			"total_score": gorm.Expr("total_score + ?", points),
		}).Error
}

// isUniqueViolation checks Postgres unique violation (23505) for both the
// pgx and lib/pq drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

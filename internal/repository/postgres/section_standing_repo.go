package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// SectionStandingRepo implements repository.SectionStandingRepository.
type SectionStandingRepo struct {
	db *gorm.DB
}

// NewSectionStandingRepo creates a new section standing repository.
func NewSectionStandingRepo(db *gorm.DB) *SectionStandingRepo {
	return &SectionStandingRepo{db: db}
}

// GetOrCreate returns the standing of a section within a competition,
// creating an empty one on first access. Concurrent first joins of the same
// section race on the unique index; the loser re-reads the winner's row.
func (r *SectionStandingRepo) GetOrCreate(competitionID, sectionID uint) (*entity.SectionStanding, error) {
	var standing entity.SectionStanding
	err := r.db.Where("competition_id = ? AND section_id = ?", competitionID, sectionID).
		First(&standing).Error
	if err == nil {
		return &standing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	standing = entity.SectionStanding{
		CompetitionID: competitionID,
		SectionID:     sectionID,
	}
	if err := r.db.Create(&standing).Error; err != nil {
		if isUniqueViolation(err) {
			var existing entity.SectionStanding
			reread := r.db.Where("competition_id = ? AND section_id = ?", competitionID, sectionID).
				First(&existing).Error
			if reread != nil {
				return nil, reread
			}
			return &existing, nil
		}
		return nil, err
	}
	return &standing, nil
}

// ListByCompetition returns all section standings of a competition with their
// section preloaded.
func (r *SectionStandingRepo) ListByCompetition(competitionID uint) ([]*entity.SectionStanding, error) {
	var standings []*entity.SectionStanding
	err := r.db.Preload("Section").
		Where("competition_id = ?", competitionID).
		Order("rank ASC, total_points DESC").
		Find(&standings).Error
	return standings, err
}

// SaveAll persists the aggregate fields and ranks of all given standings in
// a single transaction.
func (r *SectionStandingRepo) SaveAll(standings []*entity.SectionStanding) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, s := range standings {
			err := tx.Model(&entity.SectionStanding{}).
				Where("id = ?", s.ID).
				Updates(map[string]interface{}{
					"total_points":      s.TotalPoints,
					"average_score":     s.AverageScore,
					"participant_count": s.ParticipantCount,
					"rank":              s.Rank,
					"previous_rank":     s.PreviousRank,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

package repository

import (
	"github.com/yourusername/homework-api/internal/domain/entity"
)

// SectionStandingRepository defines persistence operations for per-section
// standings. Uniqueness of (competition, section) is enforced by the store.
type SectionStandingRepository interface {
	// GetOrCreate returns the standing for (competition, section), creating
	// an empty one on first join from that section.
	GetOrCreate(competitionID, sectionID uint) (*entity.SectionStanding, error)

	ListByCompetition(competitionID uint) ([]*entity.SectionStanding, error)

	// SaveAll persists recomputed totals and ranks for all given standings.
	SaveAll(standings []*entity.SectionStanding) error
}

package arena

import (
	"math"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// SectionAggregator recomputes section standings wholesale from the
// participants of a competition. Totals and averages are always rebuilt
// from zero, never incremented, so repeated passes cannot double count.
type SectionAggregator struct {
	deps *Dependencies
}

// NewSectionAggregator creates a new section aggregator.
func NewSectionAggregator(deps *Dependencies) *SectionAggregator {
	return &SectionAggregator{deps: deps}
}

type sectionTotals struct {
	points int
	count  int
}

// Aggregate rebuilds every section standing of a competition from the given
// participants, reranks the sections and persists the result.
func (a *SectionAggregator) Aggregate(competition *entity.Competition, participants []*entity.Participant) error {
	totals := make(map[uint]*sectionTotals)
	for _, p := range participants {
		sectionID, ok := p.SectionID()
		if !ok {
			continue
		}
		t := totals[sectionID]
		if t == nil {
			t = &sectionTotals{}
			totals[sectionID] = t
		}
		t.points += p.TotalScore
		t.count++
	}

	standings, err := a.deps.StandingRepo.ListByCompetition(competition.ID)
	if err != nil {
		return err
	}

	// sections that gained their first participant since the last pass may
	// not have a standing row yet
	seen := make(map[uint]bool, len(standings))
	for _, s := range standings {
		seen[s.SectionID] = true
	}
	for sectionID := range totals {
		if seen[sectionID] {
			continue
		}
		standing, err := a.deps.StandingRepo.GetOrCreate(competition.ID, sectionID)
		if err != nil {
			return err
		}
		standings = append(standings, standing)
	}

	for _, s := range standings {
		t := totals[s.SectionID]
		if t == nil {
			s.TotalPoints = 0
			s.AverageScore = 0
			s.ParticipantCount = 0
			continue
		}
		s.TotalPoints = t.points
		s.ParticipantCount = t.count
		s.AverageScore = round2(float64(t.points) / float64(t.count))
	}

	AssignRanks(standings, SectionLess)

	return a.deps.StandingRepo.SaveAll(standings)
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package arena

import (
	"sort"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// Ranked is anything the rank assigner can position. AdvanceRank must store
// the item's current rank as its previous one before taking the new value.
type Ranked interface {
	AdvanceRank(rank int)
}

// AssignRanks sorts items stably by less and assigns ranks 1..N in sorted
// order. Items that compare equal on every key keep their input order, so
// the caller's load order is the final tie-break.
func AssignRanks[T Ranked](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})

	for i, item := range items {
		item.AdvanceRank(i + 1)
	}
}

// ParticipantLess orders participants for ranking: highest total score
// first, earliest join breaking ties.
func ParticipantLess(a, b *entity.Participant) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	return a.JoinedAt.Before(b.JoinedAt)
}

// SectionLess orders section standings for ranking: highest total points
// first, higher average score breaking ties.
func SectionLess(a, b *entity.SectionStanding) bool {
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}
	return a.AverageScore > b.AverageScore
}

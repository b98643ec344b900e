package arena

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// RewardIssuer grants the prizes a finished competition configured. Issuing
// happens inside the finish transaction, together with the status change,
// so a competition is either finished with all its rewards or not finished
// at all.
type RewardIssuer struct {
	config *Config
	deps   *Dependencies
}

// NewRewardIssuer creates a new reward issuer.
func NewRewardIssuer(config *Config, deps *Dependencies) *RewardIssuer {
	return &RewardIssuer{
		config: config,
		deps:   deps,
	}
}

// Issue grants one reward per configured prize rank inside tx and credits
// the points as bonus score. It is a no-op when the competition already has
// rewards or configures none. Bonus points change total_score but never the
// frozen final ranks.
func (ri *RewardIssuer) Issue(tx *gorm.DB, competition *entity.Competition) ([]*entity.Reward, error) {
	if len(competition.PrizeStructure) == 0 {
		return nil, nil
	}

	count, err := ri.deps.RewardRepo.CountByCompetition(tx, competition.ID)
	if err != nil {
		return nil, fmt.Errorf("count rewards for competition #%d: %w", competition.ID, err)
	}
	if count > 0 {
		return nil, nil
	}

	// always examine the full eligible range: a sparse prize table like
	// {"3": 25} still has to reach position 3. top is ordered the same way
	// ranks are assigned, so position i holds rank i+1.
	top, err := ri.deps.ParticipantRepo.TopByScore(tx, competition.ID, ri.config.MaxPrizeRanks)
	if err != nil {
		return nil, fmt.Errorf("load top participants for competition #%d: %w", competition.ID, err)
	}

	now := time.Now()
	var issued []*entity.Reward

	for i, p := range top {
		rank := i + 1
		points, ok := competition.PrizeStructure.PointsForRank(rank)
		if !ok {
			continue
		}

		reward := &entity.Reward{
			CompetitionID: competition.ID,
			ParticipantID: p.ID,
			RewardType:    entity.RewardTypePoints,
			Title:         fmt.Sprintf("Rank %d", rank),
			Description:   fmt.Sprintf("Finished %q at rank %d", competition.Title, rank),
			PointsValue:   points,
			AwardedAt:     now,
		}
		if err := ri.deps.RewardRepo.Create(tx, reward); err != nil {
			return nil, fmt.Errorf("create reward for participant #%d: %w", p.ID, err)
		}
		if err := ri.deps.ParticipantRepo.AddBonus(tx, p.ID, points); err != nil {
			return nil, fmt.Errorf("credit bonus to participant #%d: %w", p.ID, err)
		}
		if err := ri.deps.UserRepo.AddPoints(tx, p.UserID, points); err != nil {
			return nil, fmt.Errorf("credit career points to user #%d: %w", p.UserID, err)
		}

		issued = append(issued, reward)
	}

	return issued, nil
}

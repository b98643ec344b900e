package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/homework-api/internal/domain/entity"
	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
)

// ScoreCalculator recomputes a participant's scores from the submission and
// badge feeds. Every pass derives the full score from scratch, so rescoring
// the same activity twice always lands on the same numbers.
type ScoreCalculator struct {
	config *Config
	deps   *Dependencies
}

// NewScoreCalculator creates a new score calculator.
func NewScoreCalculator(config *Config, deps *Dependencies) *ScoreCalculator {
	return &ScoreCalculator{
		config: config,
		deps:   deps,
	}
}

// Recalculate rescores one participant over the competition window. The
// participant is mutated only when both feeds answered, so a failed read
// leaves the previously persisted scores in place for ranking.
func (c *ScoreCalculator) Recalculate(ctx context.Context, competition *entity.Competition, participant *entity.Participant) error {
	submissions, err := c.deps.Submissions.ListSubmissions(ctx, participant.UserID, competition.StartDate, competition.EndDate)
	if err != nil {
		return fmt.Errorf("%w: submissions for user #%d: %v", apperrors.ErrTransientData, participant.UserID, err)
	}

	badges, err := c.deps.Badges.ListBadgesEarned(ctx, participant.UserID, competition.StartDate, competition.EndDate)
	if err != nil {
		return fmt.Errorf("%w: badges for user #%d: %v", apperrors.ErrTransientData, participant.UserID, err)
	}

	var submissionScore, earlyCount, lateCount int
	var lastActivity time.Time

	for _, s := range submissions {
		earlyCutoff := s.DueAt.Add(-c.config.EarlyThreshold)
		switch {
		case !s.SubmittedAt.After(earlyCutoff):
			submissionScore += competition.EarlySubmissionPoints
			earlyCount++
		case !s.SubmittedAt.After(s.DueAt):
			submissionScore += competition.OnTimePoints
		default:
			submissionScore -= competition.LatePenalty
			lateCount++
		}
		if s.SubmittedAt.After(lastActivity) {
			lastActivity = s.SubmittedAt
		}
	}

	// late penalties never push the submission score below zero
	if submissionScore < 0 {
		submissionScore = 0
	}

	var badgeScore int
	for _, b := range badges {
		points, ok := c.config.BadgeTierPoints[b.Tier]
		if !ok {
			points = c.config.DefaultBadgePoints
		}
		badgeScore += points
		if b.EarnedAt.After(lastActivity) {
			lastActivity = b.EarnedAt
		}
	}

	participant.SubmissionScore = submissionScore
	participant.BadgeScore = badgeScore
	participant.SubmissionsCount = len(submissions)
	participant.EarlySubmissions = earlyCount
	participant.LateSubmissions = lateCount
	if !lastActivity.IsZero() {
		participant.LastActivity = lastActivity
	}
	participant.RecalculateTotal()

	return nil
}

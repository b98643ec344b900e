package arena

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
)

// Runner drives the competition lifecycle: it activates competitions whose
// window opened, runs the periodic recompute passes while they are active,
// and finishes them with their rewards when the window closes.
type Runner struct {
	config *Config
	deps   *Dependencies

	scorer     *ScoreCalculator
	aggregator *SectionAggregator
	issuer     *RewardIssuer
}

// NewRunner creates a runner and its sub-components.
func NewRunner(config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	deps.Config = config
	return &Runner{
		config:     config,
		deps:       deps,
		scorer:     NewScoreCalculator(config, deps),
		aggregator: NewSectionAggregator(deps),
		issuer:     NewRewardIssuer(config, deps),
	}
}

// Transition records one lifecycle change performed by a pass.
type Transition struct {
	CompetitionID uint
	From          string
	To            string
}

// withTx runs fn inside a database transaction when a database handle is
// configured, and directly otherwise.
func (r *Runner) withTx(fn func(tx *gorm.DB) error) error {
	if r.deps.DB != nil {
		return r.deps.DB.Transaction(fn)
	}
	return fn(nil)
}

// AdvanceLifecycle activates upcoming competitions whose start date passed
// and finishes active ones whose end date passed. Each competition moves
// independently; one failing does not hold the rest back.
func (r *Runner) AdvanceLifecycle(ctx context.Context) ([]Transition, error) {
	now := time.Now()
	var transitions []Transition

	dueStart, err := r.deps.CompetitionRepo.ListDueForActivation(now)
	if err != nil {
		return nil, fmt.Errorf("list competitions due for activation: %w", err)
	}
	for i := range dueStart {
		competition := dueStart[i]
		moved, err := r.activate(&competition)
		if err != nil {
			log.Printf("[Runner] Error: activating competition %d: %v", competition.ID, err)
			continue
		}
		if !moved {
			continue
		}
		log.Printf("[Runner] Competition %d activated", competition.ID)
		transitions = append(transitions, Transition{
			CompetitionID: competition.ID,
			From:          entity.CompetitionStatusUpcoming,
			To:            entity.CompetitionStatusActive,
		})
		if r.deps.Notifier != nil {
			r.deps.Notifier.CompetitionStarted(&competition)
		}
	}

	dueFinish, err := r.deps.CompetitionRepo.ListDueForFinish(now)
	if err != nil {
		return transitions, fmt.Errorf("list competitions due for finish: %w", err)
	}
	for i := range dueFinish {
		competition := dueFinish[i]
		moved, issued, err := r.finish(ctx, &competition)
		if err != nil {
			log.Printf("[Runner] Error: finishing competition %d: %v", competition.ID, err)
			continue
		}
		if !moved {
			continue
		}
		log.Printf("[Runner] Competition %d finished, %d rewards issued", competition.ID, len(issued))
		transitions = append(transitions, Transition{
			CompetitionID: competition.ID,
			From:          entity.CompetitionStatusActive,
			To:            entity.CompetitionStatusFinished,
		})
		r.invalidateLeaderboard(competition.ID)
		if r.deps.Notifier != nil {
			r.deps.Notifier.CompetitionFinished(&competition)
			for _, reward := range issued {
				r.deps.Notifier.RewardIssued(&competition, reward)
			}
		}
	}

	return transitions, nil
}

func (r *Runner) activate(competition *entity.Competition) (bool, error) {
	var moved bool
	err := r.withTx(func(tx *gorm.DB) error {
		var err error
		moved, err = r.deps.CompetitionRepo.TransitionStatus(tx,
			competition.ID, entity.CompetitionStatusUpcoming, entity.CompetitionStatusActive)
		return err
	})
	return moved, err
}

// finish runs the final recompute, then flips the status and issues rewards
// in one transaction. The status guard makes the reward side effects run at
// most once even with concurrent passes.
func (r *Runner) finish(ctx context.Context, competition *entity.Competition) (bool, []*entity.Reward, error) {
	if err := r.RecomputePass(ctx, competition); err != nil {
		// leave the competition active; the next tick retries
		return false, nil, fmt.Errorf("final recompute: %w", err)
	}

	var moved bool
	var issued []*entity.Reward
	err := r.withTx(func(tx *gorm.DB) error {
		var err error
		moved, err = r.deps.CompetitionRepo.TransitionStatus(tx,
			competition.ID, entity.CompetitionStatusActive, entity.CompetitionStatusFinished)
		if err != nil || !moved {
			return err
		}
		issued, err = r.issuer.Issue(tx, competition)
		return err
	})
	if err != nil {
		return false, nil, err
	}
	return moved, issued, nil
}

// RecomputeAll runs a recompute pass over every active auto-ranked
// competition, one goroutine per competition. Failures are isolated per
// competition; the last one is returned.
func (r *Runner) RecomputeAll(ctx context.Context) error {
	competitions, err := r.deps.CompetitionRepo.ListAutoRanked()
	if err != nil {
		return fmt.Errorf("list auto-ranked competitions: %w", err)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(competitions))

	for i := range competitions {
		competition := competitions[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.RecomputePass(ctx, &competition); err != nil {
				log.Printf("[Runner] Error: recompute pass for competition %d: %v", competition.ID, err)
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	var lastErr error
	for err := range errCh {
		lastErr = err
	}
	return lastErr
}

// RecomputePass rescores every participant of a competition, reranks the
// board and refreshes section standings. Participants whose feeds failed
// keep their previously persisted scores and still take part in ranking.
func (r *Runner) RecomputePass(ctx context.Context, competition *entity.Competition) error {
	fresh, err := r.deps.CompetitionRepo.GetByID(competition.ID)
	if err != nil {
		return err
	}
	if fresh.Status == entity.CompetitionStatusCancelled {
		log.Printf("[Runner] Competition %d cancelled, skipping recompute", competition.ID)
		return nil
	}

	participants, err := r.deps.ParticipantRepo.ListByCompetition(competition.ID)
	if err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	if len(participants) == 0 {
		return nil
	}

	// scoring fan-out with a bounded worker pool; the wait below is the
	// barrier before ranking
	workers := r.config.ScoreWorkers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var failed int32

	for _, p := range participants {
		wg.Add(1)
		sem <- struct{}{}
		go func(p *entity.Participant) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := r.scorer.Recalculate(ctx, competition, p); err != nil {
				atomic.AddInt32(&failed, 1)
				log.Printf("[Runner] Error: scoring participant %d in competition %d: %v", p.ID, competition.ID, err)
				return
			}
			if err := r.deps.ParticipantRepo.UpdateScores(p); err != nil {
				atomic.AddInt32(&failed, 1)
				log.Printf("[Runner] Error: persisting scores for participant %d: %v", p.ID, err)
			}
		}(p)
	}
	wg.Wait()

	// cancellation may have landed while scoring ran
	fresh, err = r.deps.CompetitionRepo.GetByID(competition.ID)
	if err != nil {
		return err
	}
	if fresh.Status == entity.CompetitionStatusCancelled {
		log.Printf("[Runner] Competition %d cancelled during recompute, skipping ranking", competition.ID)
		return nil
	}

	AssignRanks(participants, ParticipantLess)
	if err := r.deps.ParticipantRepo.UpdateRanks(participants); err != nil {
		return fmt.Errorf("persist ranks: %w", err)
	}

	if competition.HasSectionRanking() {
		if err := r.aggregator.Aggregate(competition, participants); err != nil {
			return fmt.Errorf("aggregate sections: %w", err)
		}
	}

	r.invalidateLeaderboard(competition.ID)

	if failed > 0 {
		log.Printf("[Runner] Recompute pass for competition %d completed with %d scoring failures", competition.ID, failed)
	}
	return nil
}

// Recompute runs a single on-demand pass for one competition.
func (r *Runner) Recompute(ctx context.Context, competitionID uint) error {
	competition, err := r.deps.CompetitionRepo.GetByID(competitionID)
	if err != nil {
		return err
	}
	if !competition.IsActive() {
		return fmt.Errorf("%w: competition is %s", apperrors.ErrStateConflict, competition.Status)
	}
	return r.RecomputePass(ctx, competition)
}

// AwardPrizes issues the configured prizes for an already finished
// competition outside the normal lifecycle flow. Safe to call repeatedly;
// repeat calls issue nothing.
func (r *Runner) AwardPrizes(ctx context.Context, competitionID uint) ([]*entity.Reward, error) {
	competition, err := r.deps.CompetitionRepo.GetByID(competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.IsFinished() {
		return nil, fmt.Errorf("%w: competition is %s", apperrors.ErrStateConflict, competition.Status)
	}

	var issued []*entity.Reward
	err = r.withTx(func(tx *gorm.DB) error {
		var err error
		issued, err = r.issuer.Issue(tx, competition)
		return err
	})
	if err != nil {
		return nil, err
	}

	if r.deps.Notifier != nil {
		for _, reward := range issued {
			r.deps.Notifier.RewardIssued(competition, reward)
		}
	}
	return issued, nil
}

// LeaderboardCacheKey is the cache key of a competition's default
// leaderboard snapshot.
func LeaderboardCacheKey(competitionID uint) string {
	return fmt.Sprintf("competition:%d:leaderboard", competitionID)
}

func (r *Runner) invalidateLeaderboard(competitionID uint) {
	if r.deps.CacheRepo == nil {
		return
	}
	if err := r.deps.CacheRepo.Delete(LeaderboardCacheKey(competitionID)); err != nil {
		log.Printf("[Runner] Warning: invalidating leaderboard cache for competition %d: %v", competitionID, err)
	}
}

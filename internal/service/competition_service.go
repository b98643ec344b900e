package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/yourusername/homework-api/internal/domain/entity"
	"github.com/yourusername/homework-api/internal/domain/repository"
	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
	"github.com/yourusername/homework-api/internal/service/arena"
)

// CompetitionService exposes competition management and the leaderboard
// read side. Lifecycle and scoring passes run in the arena runner; this
// service covers everything user-triggered.
type CompetitionService struct {
	competitionRepo repository.CompetitionRepository
	participantRepo repository.ParticipantRepository
	standingRepo    repository.SectionStandingRepository
	rewardRepo      repository.RewardRepository
	userRepo        repository.UserRepository
	cacheRepo       repository.CacheRepository
	runner          *arena.Runner
	notifier        arena.Notifier
	config          *arena.Config
}

// NewCompetitionService creates a new competition service.
func NewCompetitionService(
	competitionRepo repository.CompetitionRepository,
	participantRepo repository.ParticipantRepository,
	standingRepo repository.SectionStandingRepository,
	rewardRepo repository.RewardRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	runner *arena.Runner,
	notifier arena.Notifier,
	config *arena.Config,
) *CompetitionService {
	return &CompetitionService{
		competitionRepo: competitionRepo,
		participantRepo: participantRepo,
		standingRepo:    standingRepo,
		rewardRepo:      rewardRepo,
		userRepo:        userRepo,
		cacheRepo:       cacheRepo,
		runner:          runner,
		notifier:        notifier,
		config:          config,
	}
}

// Create validates and persists a new competition in the upcoming state.
func (s *CompetitionService) Create(competition *entity.Competition) error {
	if competition.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if !competition.StartDate.Before(competition.EndDate) {
		return fmt.Errorf("%w: start date must be before end date", apperrors.ErrValidation)
	}
	switch competition.CompetitionType {
	case entity.CompetitionTypeIndividual, entity.CompetitionTypeSection, entity.CompetitionTypeMixed:
	case "":
		competition.CompetitionType = entity.CompetitionTypeIndividual
	default:
		return fmt.Errorf("%w: unknown competition type %q", apperrors.ErrValidation, competition.CompetitionType)
	}
	if competition.EarlySubmissionPoints < 0 || competition.OnTimePoints < 0 || competition.LatePenalty < 0 {
		return fmt.Errorf("%w: scoring parameters must not be negative", apperrors.ErrValidation)
	}
	if competition.MaxParticipants != nil && *competition.MaxParticipants < 1 {
		return fmt.Errorf("%w: max participants must be positive", apperrors.ErrValidation)
	}
	for rankKey, points := range competition.PrizeStructure {
		rank, err := strconv.Atoi(rankKey)
		if err != nil || rank < 1 {
			return fmt.Errorf("%w: prize structure rank %q is not a positive number", apperrors.ErrValidation, rankKey)
		}
		if points < 1 {
			return fmt.Errorf("%w: prize for rank %q must be positive", apperrors.ErrValidation, rankKey)
		}
	}

	competition.Status = entity.CompetitionStatusUpcoming

	if err := s.competitionRepo.Create(competition); err != nil {
		return fmt.Errorf("failed to create competition: %w", err)
	}
	return nil
}

// GetByID returns a competition by ID.
func (s *CompetitionService) GetByID(competitionID uint) (*entity.Competition, error) {
	return s.competitionRepo.GetByID(competitionID)
}

// List returns competitions with pagination.
func (s *CompetitionService) List(page, pageSize int) ([]entity.Competition, error) {
	offset := (page - 1) * pageSize
	return s.competitionRepo.List(pageSize, offset)
}

// ListActive returns competitions currently inside their window.
func (s *CompetitionService) ListActive() ([]entity.Competition, error) {
	return s.competitionRepo.ListActive(time.Now())
}

// ListFeatured returns featured competitions.
func (s *CompetitionService) ListFeatured() ([]entity.Competition, error) {
	return s.competitionRepo.ListFeatured()
}

// ListByUser returns the competitions a user has joined.
func (s *CompetitionService) ListByUser(userID uint) ([]entity.Competition, error) {
	return s.competitionRepo.ListByParticipant(userID)
}

// Join enrolls a user into an upcoming competition. For competitions with
// section ranking the user's section gets its standing row on first join.
func (s *CompetitionService) Join(competitionID, userID uint) (*entity.Participant, error) {
	competition, err := s.competitionRepo.GetByID(competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.IsUpcoming() {
		return nil, ErrJoinClosed
	}

	if competition.MaxParticipants != nil {
		count, err := s.competitionRepo.CountParticipants(competitionID)
		if err != nil {
			return nil, fmt.Errorf("failed to count participants: %w", err)
		}
		if count >= int64(*competition.MaxParticipants) {
			return nil, ErrCompetitionFull
		}
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	participant := &entity.Participant{
		CompetitionID: competitionID,
		UserID:        userID,
		JoinedAt:      time.Now(),
	}
	if err := s.participantRepo.Create(participant); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyJoined
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	if competition.HasSectionRanking() && user.SectionID != nil {
		if _, err := s.standingRepo.GetOrCreate(competitionID, *user.SectionID); err != nil {
			log.Printf("[CompetitionService] Error: creating standing for section %d in competition %d: %v",
				*user.SectionID, competitionID, err)
		}
	}

	if s.notifier != nil {
		s.notifier.UserJoined(competition, user)
	}

	log.Printf("[CompetitionService] User %d joined competition %d", userID, competitionID)
	return participant, nil
}

// Leave removes a user from a competition that has not started yet.
func (s *CompetitionService) Leave(competitionID, userID uint) error {
	competition, err := s.competitionRepo.GetByID(competitionID)
	if err != nil {
		return err
	}
	if !competition.IsUpcoming() {
		return ErrLeaveLocked
	}

	participant, err := s.participantRepo.GetByCompetitionAndUser(competitionID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrNotParticipant
		}
		return err
	}

	if err := s.participantRepo.Delete(participant.ID); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	log.Printf("[CompetitionService] User %d left competition %d", userID, competitionID)
	return nil
}

// Recompute triggers an on-demand recompute pass for an active competition.
func (s *CompetitionService) Recompute(ctx context.Context, competitionID uint) error {
	return s.runner.Recompute(ctx, competitionID)
}

// Cancel moves a competition into the cancelled state. Finished
// competitions stay finished.
func (s *CompetitionService) Cancel(competitionID uint) error {
	competition, err := s.competitionRepo.GetByID(competitionID)
	if err != nil {
		return err
	}
	if competition.IsFinished() || competition.Status == entity.CompetitionStatusCancelled {
		return fmt.Errorf("%w: competition is %s", apperrors.ErrStateConflict, competition.Status)
	}

	if err := s.competitionRepo.UpdateStatus(competitionID, entity.CompetitionStatusCancelled); err != nil {
		return err
	}
	if s.cacheRepo != nil {
		if err := s.cacheRepo.Delete(arena.LeaderboardCacheKey(competitionID)); err != nil {
			log.Printf("[CompetitionService] Warning: invalidating leaderboard cache for competition %d: %v", competitionID, err)
		}
	}
	log.Printf("[CompetitionService] Competition %d cancelled", competitionID)
	return nil
}

// AwardPrizes manually issues the prizes of a finished competition. Repeat
// calls issue nothing.
func (s *CompetitionService) AwardPrizes(ctx context.Context, competitionID uint) ([]*entity.Reward, error) {
	return s.runner.AwardPrizes(ctx, competitionID)
}

// Leaderboard is one page of a competition's ranking.
type Leaderboard struct {
	Participants []*entity.Participant `json:"participants"`
	Total        int64                 `json:"total"`
}

// GetLeaderboard returns one page of the leaderboard, optionally filtered
// by section. The unfiltered first page is served from cache between
// recompute passes.
func (s *CompetitionService) GetLeaderboard(competitionID uint, sectionID *uint, page, pageSize int) (*Leaderboard, error) {
	if _, err := s.competitionRepo.GetByID(competitionID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	cacheable := s.cacheRepo != nil && sectionID == nil && page == 1 && pageSize == 20
	cacheKey := arena.LeaderboardCacheKey(competitionID)

	if cacheable {
		if cached, err := s.cacheRepo.Get(cacheKey); err == nil {
			var board Leaderboard
			if err := json.Unmarshal([]byte(cached), &board); err == nil {
				return &board, nil
			}
			log.Printf("[CompetitionService] Warning: corrupt leaderboard cache for competition %d, rebuilding", competitionID)
		}
	}

	offset := (page - 1) * pageSize
	participants, total, err := s.participantRepo.Leaderboard(competitionID, sectionID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	board := &Leaderboard{Participants: participants, Total: total}

	if cacheable {
		if data, err := json.Marshal(board); err == nil {
			if err := s.cacheRepo.Set(cacheKey, data, s.config.LeaderboardCacheTTL); err != nil {
				log.Printf("[CompetitionService] Warning: caching leaderboard for competition %d: %v", competitionID, err)
			}
		}
	}
	return board, nil
}

// GetSectionStandings returns the section battle board of a competition.
func (s *CompetitionService) GetSectionStandings(competitionID uint) ([]*entity.SectionStanding, error) {
	competition, err := s.competitionRepo.GetByID(competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.HasSectionRanking() {
		return nil, fmt.Errorf("%w: competition %d has no section ranking", apperrors.ErrValidation, competitionID)
	}
	return s.standingRepo.ListByCompetition(competitionID)
}

// GetRewards returns the rewards issued for a competition.
func (s *CompetitionService) GetRewards(competitionID uint) ([]entity.Reward, error) {
	if _, err := s.competitionRepo.GetByID(competitionID); err != nil {
		return nil, err
	}
	return s.rewardRepo.ListByCompetition(competitionID)
}

// GetParticipation returns a user's own entry in a competition.
func (s *CompetitionService) GetParticipation(competitionID, userID uint) (*entity.Participant, error) {
	participant, err := s.participantRepo.GetByCompetitionAndUser(competitionID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}
	return participant, nil
}

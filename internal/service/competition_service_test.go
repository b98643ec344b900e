package service

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/homework-api/internal/domain/entity"
	"github.com/yourusername/homework-api/internal/domain/repository"
	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
	"github.com/yourusername/homework-api/internal/service/arena"
)

type serviceMocks struct {
	competitionRepo *MockCompetitionRepo
	participantRepo *MockParticipantRepo
	standingRepo    *MockStandingRepo
	rewardRepo      *MockRewardRepo
	userRepo        *MockUserRepo
	cacheRepo       *MockCacheRepo
}

func newTestService(withCache bool) (*CompetitionService, *serviceMocks) {
	m := &serviceMocks{
		competitionRepo: new(MockCompetitionRepo),
		participantRepo: new(MockParticipantRepo),
		standingRepo:    new(MockStandingRepo),
		rewardRepo:      new(MockRewardRepo),
		userRepo:        new(MockUserRepo),
		cacheRepo:       new(MockCacheRepo),
	}
	config := arena.DefaultConfig()
	runner := arena.NewRunner(config, &arena.Dependencies{
		CompetitionRepo: m.competitionRepo,
		ParticipantRepo: m.participantRepo,
		StandingRepo:    m.standingRepo,
		RewardRepo:      m.rewardRepo,
		UserRepo:        m.userRepo,
	})

	// a nil cache interface behaves like a deployment without Redis
	var cache repository.CacheRepository
	if withCache {
		cache = m.cacheRepo
	}
	svc := NewCompetitionService(
		m.competitionRepo,
		m.participantRepo,
		m.standingRepo,
		m.rewardRepo,
		m.userRepo,
		cache,
		runner,
		nil,
		config,
	)
	return svc, m
}

func upcomingCompetition() *entity.Competition {
	return &entity.Competition{
		ID:              1,
		Title:           "Autumn Sprint",
		CompetitionType: entity.CompetitionTypeIndividual,
		Status:          entity.CompetitionStatusUpcoming,
		StartDate:       time.Now().Add(time.Hour),
		EndDate:         time.Now().Add(48 * time.Hour),
	}
}

func TestCompetitionService_Create_Validation(t *testing.T) {
	svc, m := newTestService(false)
	m.competitionRepo.On("Create", mock.Anything).Return(nil)

	tests := []struct {
		name        string
		competition *entity.Competition
	}{
		{"missing title", &entity.Competition{
			StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
		}},
		{"start after end", &entity.Competition{
			Title: "x", StartDate: time.Now().Add(time.Hour), EndDate: time.Now(),
		}},
		{"start equals end", func() *entity.Competition {
			now := time.Now()
			return &entity.Competition{Title: "x", StartDate: now, EndDate: now}
		}()},
		{"unknown type", &entity.Competition{
			Title: "x", CompetitionType: "global",
			StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
		}},
		{"negative penalty", &entity.Competition{
			Title: "x", LatePenalty: -1,
			StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
		}},
		{"zero max participants", func() *entity.Competition {
			zero := 0
			return &entity.Competition{
				Title: "x", MaxParticipants: &zero,
				StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
			}
		}()},
		{"non-numeric prize rank", &entity.Competition{
			Title:          "x",
			PrizeStructure: entity.PrizeStructure{"first": 100},
			StartDate:      time.Now(), EndDate: time.Now().Add(time.Hour),
		}},
		{"zero rank prize key", &entity.Competition{
			Title:          "x",
			PrizeStructure: entity.PrizeStructure{"0": 100},
			StartDate:      time.Now(), EndDate: time.Now().Add(time.Hour),
		}},
		{"non-positive prize", &entity.Competition{
			Title:          "x",
			PrizeStructure: entity.PrizeStructure{"1": 0},
			StartDate:      time.Now(), EndDate: time.Now().Add(time.Hour),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(tt.competition)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	m.competitionRepo.AssertNotCalled(t, "Create")
}

func TestCompetitionService_Create_DefaultsTypeAndForcesUpcoming(t *testing.T) {
	svc, m := newTestService(false)

	competition := &entity.Competition{
		Title:     "Autumn Sprint",
		Status:    entity.CompetitionStatusActive,
		StartDate: time.Now(),
		EndDate:   time.Now().Add(time.Hour),
	}
	m.competitionRepo.On("Create", competition).Return(nil)

	require.NoError(t, svc.Create(competition))

	assert.Equal(t, entity.CompetitionTypeIndividual, competition.CompetitionType)
	assert.Equal(t, entity.CompetitionStatusUpcoming, competition.Status, "a client cannot create an already running competition")
}

func TestCompetitionService_Join_Success(t *testing.T) {
	svc, m := newTestService(false)

	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)
	m.userRepo.On("GetByID", uint(7)).Return(&entity.User{ID: 7}, nil)
	m.participantRepo.On("Create", mock.AnythingOfType("*entity.Participant")).Return(nil)

	participant, err := svc.Join(1, 7)

	require.NoError(t, err)
	assert.Equal(t, uint(1), participant.CompetitionID)
	assert.Equal(t, uint(7), participant.UserID)
	assert.False(t, participant.JoinedAt.IsZero())
	m.standingRepo.AssertNotCalled(t, "GetOrCreate")
}

func TestCompetitionService_Join_CreatesSectionStanding(t *testing.T) {
	svc, m := newTestService(false)

	competition := upcomingCompetition()
	competition.CompetitionType = entity.CompetitionTypeSection
	sectionID := uint(3)

	m.competitionRepo.On("GetByID", uint(1)).Return(competition, nil)
	m.userRepo.On("GetByID", uint(7)).Return(&entity.User{ID: 7, SectionID: &sectionID}, nil)
	m.participantRepo.On("Create", mock.AnythingOfType("*entity.Participant")).Return(nil)
	m.standingRepo.On("GetOrCreate", uint(1), uint(3)).Return(&entity.SectionStanding{ID: 1}, nil)

	_, err := svc.Join(1, 7)

	require.NoError(t, err)
	m.standingRepo.AssertExpectations(t)
}

func TestCompetitionService_Join_AlreadyJoined(t *testing.T) {
	svc, m := newTestService(false)

	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)
	m.userRepo.On("GetByID", uint(7)).Return(&entity.User{ID: 7}, nil)
	m.participantRepo.On("Create", mock.Anything).
		Return(fmt.Errorf("%w: user #7 already joined competition #1", apperrors.ErrConflict))

	_, err := svc.Join(1, 7)

	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCompetitionService_Join_ClosedOnceStarted(t *testing.T) {
	svc, m := newTestService(false)

	active := upcomingCompetition()
	active.Status = entity.CompetitionStatusActive
	m.competitionRepo.On("GetByID", uint(1)).Return(active, nil)

	_, err := svc.Join(1, 7)

	assert.ErrorIs(t, err, ErrJoinClosed)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	m.participantRepo.AssertNotCalled(t, "Create")
}

func TestCompetitionService_Join_Full(t *testing.T) {
	svc, m := newTestService(false)

	limit := 2
	competition := upcomingCompetition()
	competition.MaxParticipants = &limit

	m.competitionRepo.On("GetByID", uint(1)).Return(competition, nil)
	m.competitionRepo.On("CountParticipants", uint(1)).Return(int64(2), nil)

	_, err := svc.Join(1, 7)

	assert.ErrorIs(t, err, ErrCompetitionFull)
	m.participantRepo.AssertNotCalled(t, "Create")
}

func TestCompetitionService_Leave_Success(t *testing.T) {
	svc, m := newTestService(false)

	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)
	m.participantRepo.On("GetByCompetitionAndUser", uint(1), uint(7)).
		Return(&entity.Participant{ID: 42, CompetitionID: 1, UserID: 7}, nil)
	m.participantRepo.On("Delete", uint(42)).Return(nil)

	require.NoError(t, svc.Leave(1, 7))
	m.participantRepo.AssertExpectations(t)
}

func TestCompetitionService_Leave_LockedOnceStarted(t *testing.T) {
	svc, m := newTestService(false)

	active := upcomingCompetition()
	active.Status = entity.CompetitionStatusActive
	m.competitionRepo.On("GetByID", uint(1)).Return(active, nil)

	err := svc.Leave(1, 7)

	assert.ErrorIs(t, err, ErrLeaveLocked)
	m.participantRepo.AssertNotCalled(t, "Delete")
}

func TestCompetitionService_Leave_NotParticipant(t *testing.T) {
	svc, m := newTestService(false)

	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)
	m.participantRepo.On("GetByCompetitionAndUser", uint(1), uint(7)).
		Return(nil, fmt.Errorf("%w: participant", apperrors.ErrNotFound))

	err := svc.Leave(1, 7)

	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestCompetitionService_Cancel(t *testing.T) {
	svc, m := newTestService(true)

	active := upcomingCompetition()
	active.Status = entity.CompetitionStatusActive
	m.competitionRepo.On("GetByID", uint(1)).Return(active, nil)
	m.competitionRepo.On("UpdateStatus", uint(1), entity.CompetitionStatusCancelled).Return(nil)
	m.cacheRepo.On("Delete", arena.LeaderboardCacheKey(1)).Return(nil)

	require.NoError(t, svc.Cancel(1))
	m.competitionRepo.AssertExpectations(t)
	m.cacheRepo.AssertExpectations(t)
}

func TestCompetitionService_Cancel_FinishedStaysFinished(t *testing.T) {
	svc, m := newTestService(false)

	finished := upcomingCompetition()
	finished.Status = entity.CompetitionStatusFinished
	m.competitionRepo.On("GetByID", uint(1)).Return(finished, nil)

	err := svc.Cancel(1)

	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	m.competitionRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestCompetitionService_GetLeaderboard_CacheMissThenStore(t *testing.T) {
	svc, m := newTestService(true)

	participants := []*entity.Participant{
		{ID: 1, UserID: 7, TotalScore: 100, Rank: 1},
	}

	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)
	m.cacheRepo.On("Get", arena.LeaderboardCacheKey(1)).Return("", apperrors.ErrNotFound)
	m.participantRepo.On("Leaderboard", uint(1), (*uint)(nil), 20, 0).
		Return(participants, int64(1), nil)
	m.cacheRepo.On("Set", arena.LeaderboardCacheKey(1), mock.Anything, mock.Anything).Return(nil)

	board, err := svc.GetLeaderboard(1, nil, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), board.Total)
	require.Len(t, board.Participants, 1)
	m.cacheRepo.AssertExpectations(t)
}

func TestCompetitionService_GetLeaderboard_CacheHitSkipsRepository(t *testing.T) {
	svc, m := newTestService(true)

	cached, err := json.Marshal(&Leaderboard{
		Participants: []*entity.Participant{{ID: 1, UserID: 7, TotalScore: 100, Rank: 1}},
		Total:        1,
	})
	require.NoError(t, err)

	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)
	m.cacheRepo.On("Get", arena.LeaderboardCacheKey(1)).Return(string(cached), nil)

	board, err := svc.GetLeaderboard(1, nil, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), board.Total)
	m.participantRepo.AssertNotCalled(t, "Leaderboard")
}

func TestCompetitionService_GetLeaderboard_SectionFilterBypassesCache(t *testing.T) {
	svc, m := newTestService(true)

	sectionID := uint(3)
	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)
	m.participantRepo.On("Leaderboard", uint(1), &sectionID, 20, 0).
		Return([]*entity.Participant{}, int64(0), nil)

	_, err := svc.GetLeaderboard(1, &sectionID, 1, 20)

	require.NoError(t, err)
	m.cacheRepo.AssertNotCalled(t, "Get")
	m.cacheRepo.AssertNotCalled(t, "Set")
}

func TestCompetitionService_GetLeaderboard_ClampsPagination(t *testing.T) {
	svc, m := newTestService(false)

	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)
	m.participantRepo.On("Leaderboard", uint(1), (*uint)(nil), 20, 0).
		Return([]*entity.Participant{}, int64(0), nil)

	_, err := svc.GetLeaderboard(1, nil, -3, 500)

	require.NoError(t, err)
	m.participantRepo.AssertExpectations(t)
}

func TestCompetitionService_GetSectionStandings_RequiresSectionRanking(t *testing.T) {
	svc, m := newTestService(false)

	m.competitionRepo.On("GetByID", uint(1)).Return(upcomingCompetition(), nil)

	_, err := svc.GetSectionStandings(1)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.standingRepo.AssertNotCalled(t, "ListByCompetition")
}

func TestCompetitionService_GetParticipation_NotJoined(t *testing.T) {
	svc, m := newTestService(false)

	m.participantRepo.On("GetByCompetitionAndUser", uint(1), uint(7)).
		Return(nil, fmt.Errorf("%w: participant", apperrors.ErrNotFound))

	_, err := svc.GetParticipation(1, 7)

	assert.ErrorIs(t, err, ErrNotParticipant)
}

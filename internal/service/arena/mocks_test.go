package arena

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// ============================================================================
// Mocks shared by the arena tests
// ============================================================================

// MockCompetitionRepo implements repository.CompetitionRepository
type MockCompetitionRepo struct {
	mock.Mock
}

func (m *MockCompetitionRepo) Create(competition *entity.Competition) error {
	args := m.Called(competition)
	return args.Error(0)
}

func (m *MockCompetitionRepo) GetByID(id uint) (*entity.Competition, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepo) List(limit, offset int) ([]entity.Competition, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepo) ListActive(now time.Time) ([]entity.Competition, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepo) ListFeatured() ([]entity.Competition, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepo) ListByParticipant(userID uint) ([]entity.Competition, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepo) ListDueForActivation(now time.Time) ([]entity.Competition, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepo) ListDueForFinish(now time.Time) ([]entity.Competition, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepo) ListAutoRanked() ([]entity.Competition, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepo) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockCompetitionRepo) TransitionStatus(tx *gorm.DB, id uint, from, to string) (bool, error) {
	args := m.Called(tx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompetitionRepo) CountParticipants(id uint) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

// MockParticipantRepo implements repository.ParticipantRepository
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Create(participant *entity.Participant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepo) GetByCompetitionAndUser(competitionID, userID uint) (*entity.Participant, error) {
	args := m.Called(competitionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockParticipantRepo) ListByCompetition(competitionID uint) ([]*entity.Participant, error) {
	args := m.Called(competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepo) UpdateScores(participant *entity.Participant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepo) UpdateRanks(participants []*entity.Participant) error {
	args := m.Called(participants)
	return args.Error(0)
}

func (m *MockParticipantRepo) Leaderboard(competitionID uint, sectionID *uint, limit, offset int) ([]*entity.Participant, int64, error) {
	args := m.Called(competitionID, sectionID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Participant), args.Get(1).(int64), args.Error(2)
}

func (m *MockParticipantRepo) TopByScore(tx *gorm.DB, competitionID uint, limit int) ([]*entity.Participant, error) {
	args := m.Called(tx, competitionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepo) AddBonus(tx *gorm.DB, participantID uint, points int) error {
	args := m.Called(tx, participantID, points)
	return args.Error(0)
}

// MockStandingRepo implements repository.SectionStandingRepository
type MockStandingRepo struct {
	mock.Mock
}

func (m *MockStandingRepo) GetOrCreate(competitionID, sectionID uint) (*entity.SectionStanding, error) {
	args := m.Called(competitionID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SectionStanding), args.Error(1)
}

func (m *MockStandingRepo) ListByCompetition(competitionID uint) ([]*entity.SectionStanding, error) {
	args := m.Called(competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SectionStanding), args.Error(1)
}

func (m *MockStandingRepo) SaveAll(standings []*entity.SectionStanding) error {
	args := m.Called(standings)
	return args.Error(0)
}

// MockRewardRepo implements repository.RewardRepository
type MockRewardRepo struct {
	mock.Mock
}

func (m *MockRewardRepo) Create(tx *gorm.DB, reward *entity.Reward) error {
	args := m.Called(tx, reward)
	return args.Error(0)
}

func (m *MockRewardRepo) CountByCompetition(tx *gorm.DB, competitionID uint) (int64, error) {
	args := m.Called(tx, competitionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRewardRepo) ListByCompetition(competitionID uint) ([]entity.Reward, error) {
	args := m.Called(competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reward), args.Error(1)
}

func (m *MockRewardRepo) ListByParticipant(participantID uint) ([]entity.Reward, error) {
	args := m.Called(participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reward), args.Error(1)
}

// MockUserRepo implements repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) AddPoints(tx *gorm.DB, userID uint, points int) error {
	args := m.Called(tx, userID, points)
	return args.Error(0)
}

// MockSubmissionFeed implements repository.SubmissionFeed
type MockSubmissionFeed struct {
	mock.Mock
}

func (m *MockSubmissionFeed) ListSubmissions(ctx context.Context, userID uint, from, to time.Time) ([]entity.Submission, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Submission), args.Error(1)
}

// MockBadgeFeed implements repository.BadgeFeed
type MockBadgeFeed struct {
	mock.Mock
}

func (m *MockBadgeFeed) ListBadgesEarned(ctx context.Context, userID uint, from, to time.Time) ([]entity.UserBadge, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserBadge), args.Error(1)
}

// MockCacheRepo implements repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

// MockNotifier implements Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) CompetitionStarted(competition *entity.Competition) {
	m.Called(competition)
}

func (m *MockNotifier) CompetitionFinished(competition *entity.Competition) {
	m.Called(competition)
}

func (m *MockNotifier) RewardIssued(competition *entity.Competition, reward *entity.Reward) {
	m.Called(competition, reward)
}

func (m *MockNotifier) UserJoined(competition *entity.Competition, user *entity.User) {
	m.Called(competition, user)
}

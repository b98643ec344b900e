package arena

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/homework-api/internal/domain/entity"
	"github.com/yourusername/homework-api/internal/domain/repository"
)

// Constants for default values
const (
	DefaultEarlyThresholdHours = 24
	DefaultBadgePoints         = 10
	DefaultMaxPrizeRanks       = 10
	DefaultScoreWorkers        = 8
)

// Config holds the tuning knobs shared by all arena components.
type Config struct {
	// EarlyThreshold is how long before the due date a submission must
	// land to count as early.
	EarlyThreshold time.Duration

	// BadgeTierPoints maps a badge tier to the points it contributes to
	// the badge score. Tiers absent from the map fall back to
	// DefaultBadgePoints.
	BadgeTierPoints    map[string]int
	DefaultBadgePoints int

	// MaxPrizeRanks caps how many leading ranks can receive a prize,
	// whatever the prize structure configures.
	MaxPrizeRanks int

	// ScoreWorkers bounds the scoring fan-out of a recompute pass.
	ScoreWorkers int

	// LeaderboardCacheTTL is how long a cached leaderboard snapshot stays
	// valid between recompute passes.
	LeaderboardCacheTTL time.Duration
}

// DefaultConfig returns the default arena configuration.
func DefaultConfig() *Config {
	return &Config{
		EarlyThreshold: DefaultEarlyThresholdHours * time.Hour,
		BadgeTierPoints: map[string]int{
			entity.BadgeTierTop: 50,
			entity.BadgeTierMid: 30,
			entity.BadgeTierLow: 20,
		},
		DefaultBadgePoints:  DefaultBadgePoints,
		MaxPrizeRanks:       DefaultMaxPrizeRanks,
		ScoreWorkers:        DefaultScoreWorkers,
		LeaderboardCacheTTL: 5 * time.Minute,
	}
}

// Notifier receives lifecycle events from the runner. Implementations must
// not block; delivery is best effort.
type Notifier interface {
	CompetitionStarted(competition *entity.Competition)
	CompetitionFinished(competition *entity.Competition)
	RewardIssued(competition *entity.Competition, reward *entity.Reward)
	UserJoined(competition *entity.Competition, user *entity.User)
}

// Dependencies holds everything the arena components need.
type Dependencies struct {
	CompetitionRepo repository.CompetitionRepository
	ParticipantRepo repository.ParticipantRepository
	StandingRepo    repository.SectionStandingRepository
	RewardRepo      repository.RewardRepository
	UserRepo        repository.UserRepository
	Submissions     repository.SubmissionFeed
	Badges          repository.BadgeFeed
	CacheRepo       repository.CacheRepository

	// DB is the transaction source for finish-time side effects. A nil DB
	// makes withTx run its callback without a transaction.
	DB *gorm.DB

	Notifier Notifier
	Config   *Config
}

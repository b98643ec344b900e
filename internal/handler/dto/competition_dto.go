package dto

import (
	"time"

	"github.com/yourusername/homework-api/internal/domain/entity"
)

// CompetitionResponse is the API representation of a competition.
type CompetitionResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	CompetitionType string    `json:"competition_type"`
	Status          string    `json:"status"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`

	MaxParticipants *int `json:"max_participants,omitempty"`

	EarlySubmissionPoints int `json:"early_submission_points"`
	OnTimePoints          int `json:"on_time_points"`
	LatePenalty           int `json:"late_penalty"`

	PrizeStructure entity.PrizeStructure `json:"prize_structure"`
	AutoRanking    bool                  `json:"auto_ranking"`
	IsFeatured     bool                  `json:"is_featured"`
	CreatedAt      time.Time             `json:"created_at"`
}

// NewCompetitionResponse builds a CompetitionResponse from an entity.
func NewCompetitionResponse(c *entity.Competition) *CompetitionResponse {
	return &CompetitionResponse{
		ID:                    c.ID,
		Title:                 c.Title,
		Description:           c.Description,
		CompetitionType:       c.CompetitionType,
		Status:                c.Status,
		StartDate:             c.StartDate,
		EndDate:               c.EndDate,
		MaxParticipants:       c.MaxParticipants,
		EarlySubmissionPoints: c.EarlySubmissionPoints,
		OnTimePoints:          c.OnTimePoints,
		LatePenalty:           c.LatePenalty,
		PrizeStructure:        c.PrizeStructure,
		AutoRanking:           c.AutoRanking,
		IsFeatured:            c.IsFeatured,
		CreatedAt:             c.CreatedAt,
	}
}

// NewListCompetitionResponse builds responses for a list of competitions.
func NewListCompetitionResponse(competitions []entity.Competition) []*CompetitionResponse {
	responses := make([]*CompetitionResponse, 0, len(competitions))
	for i := range competitions {
		responses = append(responses, NewCompetitionResponse(&competitions[i]))
	}
	return responses
}

// ParticipantResponse is one leaderboard row.
type ParticipantResponse struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name,omitempty"`

	SubmissionScore int `json:"submission_score"`
	BadgeScore      int `json:"badge_score"`
	BonusScore      int `json:"bonus_score"`
	TotalScore      int `json:"total_score"`

	Rank       int `json:"rank"`
	RankChange int `json:"rank_change"`

	SubmissionsCount int `json:"submissions_count"`
	EarlySubmissions int `json:"early_submissions"`
	LateSubmissions  int `json:"late_submissions"`

	JoinedAt time.Time `json:"joined_at"`
}

// NewParticipantResponse builds a ParticipantResponse from an entity.
func NewParticipantResponse(p *entity.Participant) *ParticipantResponse {
	resp := &ParticipantResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		SubmissionScore:  p.SubmissionScore,
		BadgeScore:       p.BadgeScore,
		BonusScore:       p.BonusScore,
		TotalScore:       p.TotalScore,
		Rank:             p.Rank,
		RankChange:       p.RankChange(),
		SubmissionsCount: p.SubmissionsCount,
		EarlySubmissions: p.EarlySubmissions,
		LateSubmissions:  p.LateSubmissions,
		JoinedAt:         p.JoinedAt,
	}
	if p.User != nil {
		resp.Name = p.User.FullName
		if resp.Name == "" {
			resp.Name = p.User.Username
		}
	}
	return resp
}

// LeaderboardResponse is one page of a competition's ranking.
type LeaderboardResponse struct {
	Participants []*ParticipantResponse `json:"participants"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
}

// NewLeaderboardResponse builds a paginated leaderboard response.
func NewLeaderboardResponse(participants []*entity.Participant, total int64, page, pageSize int) *LeaderboardResponse {
	rows := make([]*ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, NewParticipantResponse(p))
	}
	return &LeaderboardResponse{
		Participants: rows,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}
}

// SectionStandingResponse is one row of the section battle board.
type SectionStandingResponse struct {
	SectionID        uint    `json:"section_id"`
	SectionName      string  `json:"section_name,omitempty"`
	TotalPoints      int     `json:"total_points"`
	AverageScore     float64 `json:"average_score"`
	ParticipantCount int     `json:"participant_count"`
	Rank             int     `json:"rank"`
	RankChange       int     `json:"rank_change"`
}

// NewSectionStandingResponse builds a SectionStandingResponse from an entity.
func NewSectionStandingResponse(s *entity.SectionStanding) *SectionStandingResponse {
	resp := &SectionStandingResponse{
		SectionID:        s.SectionID,
		TotalPoints:      s.TotalPoints,
		AverageScore:     s.AverageScore,
		ParticipantCount: s.ParticipantCount,
		Rank:             s.Rank,
		RankChange:       s.RankChange(),
	}
	if s.Section != nil {
		resp.SectionName = s.Section.Name
	}
	return resp
}

// RewardResponse is the API representation of an issued reward.
type RewardResponse struct {
	ID            uint      `json:"id"`
	CompetitionID uint      `json:"competition_id"`
	ParticipantID uint      `json:"participant_id"`
	RewardType    string    `json:"reward_type"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	PointsValue   int       `json:"points_value"`
	AwardedAt     time.Time `json:"awarded_at"`
}

// NewRewardResponse builds a RewardResponse from an entity.
func NewRewardResponse(r *entity.Reward) *RewardResponse {
	return &RewardResponse{
		ID:            r.ID,
		CompetitionID: r.CompetitionID,
		ParticipantID: r.ParticipantID,
		RewardType:    r.RewardType,
		Title:         r.Title,
		Description:   r.Description,
		PointsValue:   r.PointsValue,
		AwardedAt:     r.AwardedAt,
	}
}

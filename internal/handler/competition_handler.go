package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/homework-api/internal/domain/entity"
	"github.com/yourusername/homework-api/internal/handler/dto"
	apperrors "github.com/yourusername/homework-api/internal/pkg/errors"
	"github.com/yourusername/homework-api/internal/service"
)

// CompetitionHandler handles competition requests.
type CompetitionHandler struct {
	competitionService *service.CompetitionService
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(competitionService *service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: competitionService,
	}
}

// CreateCompetitionRequest is the create payload.
type CreateCompetitionRequest struct {
	Title           string    `json:"title" binding:"required,min=3,max=200"`
	Description     string    `json:"description" binding:"omitempty,max=2000"`
	CompetitionType string    `json:"competition_type" binding:"omitempty,oneof=individual section mixed"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`

	MaxParticipants *int `json:"max_participants" binding:"omitempty,min=1"`

	EarlySubmissionPoints *int `json:"early_submission_points" binding:"omitempty,min=0"`
	OnTimePoints          *int `json:"on_time_points" binding:"omitempty,min=0"`
	LatePenalty           *int `json:"late_penalty" binding:"omitempty,min=0"`

	PrizeStructure entity.PrizeStructure `json:"prize_structure"`
	AutoRanking    *bool                 `json:"auto_ranking"`
	IsFeatured     bool                  `json:"is_featured"`
}

// CreateCompetition handles POST /api/competitions (admin).
func (h *CompetitionHandler) CreateCompetition(c *gin.Context) {
	var req CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	competition := &entity.Competition{
		Title:                 req.Title,
		Description:           req.Description,
		CompetitionType:       req.CompetitionType,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		MaxParticipants:       req.MaxParticipants,
		EarlySubmissionPoints: 15,
		OnTimePoints:          10,
		LatePenalty:           5,
		PrizeStructure:        req.PrizeStructure,
		AutoRanking:           true,
		IsFeatured:            req.IsFeatured,
	}
	if req.EarlySubmissionPoints != nil {
		competition.EarlySubmissionPoints = *req.EarlySubmissionPoints
	}
	if req.OnTimePoints != nil {
		competition.OnTimePoints = *req.OnTimePoints
	}
	if req.LatePenalty != nil {
		competition.LatePenalty = *req.LatePenalty
	}
	if req.AutoRanking != nil {
		competition.AutoRanking = *req.AutoRanking
	}

	if err := h.competitionService.Create(competition); err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCompetitionResponse(competition))
}

// GetCompetition handles GET /api/competitions/:id.
func (h *CompetitionHandler) GetCompetition(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)

	competition, err := h.competitionService.GetByID(competitionID)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCompetitionResponse(competition))
}

// ListCompetitions handles GET /api/competitions with optional filters.
// ?filter=active|featured|my narrows the list; default is all, paginated.
func (h *CompetitionHandler) ListCompetitions(c *gin.Context) {
	switch c.Query("filter") {
	case "active":
		competitions, err := h.competitionService.ListActive()
		if err != nil {
			h.handleCompetitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewListCompetitionResponse(competitions))
	case "featured":
		competitions, err := h.competitionService.ListFeatured()
		if err != nil {
			h.handleCompetitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewListCompetitionResponse(competitions))
	case "my":
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		competitions, err := h.competitionService.ListByUser(userID)
		if err != nil {
			h.handleCompetitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewListCompetitionResponse(competitions))
	default:
		page, pageSize := paginationParams(c, 20)
		competitions, err := h.competitionService.List(page, pageSize)
		if err != nil {
			h.handleCompetitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewListCompetitionResponse(competitions))
	}
}

// JoinCompetition handles POST /api/competitions/:id/join.
func (h *CompetitionHandler) JoinCompetition(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	participant, err := h.competitionService.Join(competitionID, userID)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewParticipantResponse(participant))
}

// LeaveCompetition handles POST /api/competitions/:id/leave.
func (h *CompetitionHandler) LeaveCompetition(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.competitionService.Leave(competitionID, userID); err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left competition successfully"})
}

// GetMyParticipation handles GET /api/competitions/:id/me.
func (h *CompetitionHandler) GetMyParticipation(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	participant, err := h.competitionService.GetParticipation(competitionID, userID)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewParticipantResponse(participant))
}

// GetLeaderboard handles GET /api/competitions/:id/leaderboard.
// ?section_id=N narrows the board to one section.
func (h *CompetitionHandler) GetLeaderboard(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)
	page, pageSize := paginationParams(c, 20)

	var sectionID *uint
	if sectionIDStr := c.Query("section_id"); sectionIDStr != "" {
		parsed, err := strconv.ParseUint(sectionIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section_id"})
			return
		}
		id := uint(parsed)
		sectionID = &id
	}

	board, err := h.competitionService.GetLeaderboard(competitionID, sectionID, page, pageSize)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLeaderboardResponse(board.Participants, board.Total, page, pageSize))
}

// ExportLeaderboard handles GET /api/competitions/:id/leaderboard/export.
// Streams the full board as an XLSX file.
func (h *CompetitionHandler) ExportLeaderboard(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)

	competition, err := h.competitionService.GetByID(competitionID)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	// the export bypasses the cache and pagination
	board, err := h.competitionService.GetLeaderboard(competitionID, nil, 1, 100)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}
	participants := board.Participants
	for int64(len(participants)) < board.Total {
		next, err := h.competitionService.GetLeaderboard(competitionID, nil, len(participants)/100+1, 100)
		if err != nil {
			h.handleCompetitionError(c, err)
			return
		}
		if len(next.Participants) == 0 {
			break
		}
		participants = append(participants, next.Participants...)
	}

	filename := fmt.Sprintf("competition_%d_leaderboard_%s", competitionID, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leaderboard"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[CompetitionHandler] Error creating stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Rank", "Name", "Total Score", "Submission Score", "Badge Score", "Bonus Score", "Submissions", "Early", "Late"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[CompetitionHandler] Error writing headers: %v", err)
	}

	for i, p := range participants {
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)

		name := ""
		if p.User != nil {
			name = p.User.FullName
			if name == "" {
				name = p.User.Username
			}
		}

		row := []interface{}{p.Rank, sanitizeForExcel(name), p.TotalScore, p.SubmissionScore, p.BadgeScore, p.BonusScore, p.SubmissionsCount, p.EarlySubmissions, p.LateSubmissions}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[CompetitionHandler] Error writing row %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[CompetitionHandler] Error flushing stream writer: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[CompetitionHandler] Error writing Excel for competition %d (%s): %v", competitionID, competition.Title, err)
	}
}

// GetSectionStandings handles GET /api/competitions/:id/sections.
func (h *CompetitionHandler) GetSectionStandings(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)

	standings, err := h.competitionService.GetSectionStandings(competitionID)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	response := make([]*dto.SectionStandingResponse, 0, len(standings))
	for _, s := range standings {
		response = append(response, dto.NewSectionStandingResponse(s))
	}
	c.JSON(http.StatusOK, gin.H{"standings": response, "total": len(response)})
}

// GetRewards handles GET /api/competitions/:id/rewards.
func (h *CompetitionHandler) GetRewards(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)

	rewards, err := h.competitionService.GetRewards(competitionID)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	response := make([]*dto.RewardResponse, 0, len(rewards))
	for i := range rewards {
		response = append(response, dto.NewRewardResponse(&rewards[i]))
	}
	c.JSON(http.StatusOK, gin.H{"rewards": response, "total": len(response)})
}

// RecomputeCompetition handles POST /api/competitions/:id/recompute (admin).
func (h *CompetitionHandler) RecomputeCompetition(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)

	if err := h.competitionService.Recompute(c.Request.Context(), competitionID); err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recompute pass completed"})
}

// CancelCompetition handles POST /api/competitions/:id/cancel (admin).
func (h *CompetitionHandler) CancelCompetition(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)

	if err := h.competitionService.Cancel(competitionID); err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Competition cancelled"})
}

// AwardPrizes handles POST /api/competitions/:id/award-prizes (admin).
func (h *CompetitionHandler) AwardPrizes(c *gin.Context) {
	competitionID := c.MustGet("competitionID").(uint)

	issued, err := h.competitionService.AwardPrizes(c.Request.Context(), competitionID)
	if err != nil {
		h.handleCompetitionError(c, err)
		return
	}

	response := make([]*dto.RewardResponse, 0, len(issued))
	for _, r := range issued {
		response = append(response, dto.NewRewardResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"rewards": response, "issued": len(response)})
}

// currentUserID pulls the authenticated user from the gin context.
func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := raw.(uint)
	return userID, ok
}

// paginationParams reads page and page_size query parameters.
func paginationParams(c *gin.Context, defaultSize int) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = defaultSize
	}
	return page, pageSize
}

// sanitizeForExcel escapes values to protect against formula injection in
// Excel/CSV.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// characters starting a formula in Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleCompetitionError maps service errors to HTTP responses.
func (h *CompetitionHandler) handleCompetitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "state_conflict"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation"})
	case errors.Is(err, apperrors.ErrTransientData):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "error_type": "transient_data"})
	default:
		log.Printf("ERROR: Internal server error in CompetitionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

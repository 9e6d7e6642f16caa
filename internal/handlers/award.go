package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivetoolhq/fivetool-backend/internal/services"
)

type AwardHandler struct {
	awardService     services.AwardService
	teamStatsService services.TeamStatsService
}

func NewAwardHandler(awardService services.AwardService, teamStatsService services.TeamStatsService) *AwardHandler {
	return &AwardHandler{
		awardService:     awardService,
		teamStatsService: teamStatsService,
	}
}

// GET /api/players/:id/awards
func (h *AwardHandler) ListPlayerAwards(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	medals, err := h.awardService.ListPlayerMedals(c.Request.Context(), nil, playerID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"medals": medals})
}

// GET /api/teams/:id/awards
func (h *AwardHandler) ListTeamAwards(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	trophies, err := h.awardService.ListTeamTrophies(c.Request.Context(), nil, teamID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"trophies": trophies})
}

// GET /api/teams/:id/stats
func (h *AwardHandler) GetTeamStats(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	stats, err := h.teamStatsService.GetTeamStats(c.Request.Context(), teamID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stats": stats})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivetoolhq/fivetool-backend/internal/services"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
	scoringService    services.ScoringService
}

func NewAssessmentHandler(assessmentService services.AssessmentService, scoringService services.ScoringService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: assessmentService,
		scoringService:    scoringService,
	}
}

// GET /api/assessments/:id
func (h *AssessmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	assessment, err := h.assessmentService.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"assessment": assessment})
}

// GET /api/assessments/:id/score
func (h *AssessmentHandler) GetScore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	breakdown, err := h.scoringService.ScoreByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"score": breakdown})
}

// GET /api/players/:id/assessments
func (h *AssessmentHandler) ListByPlayer(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	assessments, err := h.assessmentService.ListByPlayer(c.Request.Context(), nil, playerID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"assessments": assessments})
}

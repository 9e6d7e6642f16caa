package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fivetoolhq/fivetool-backend/internal/services"
)

type SessionHandler struct {
	sessionService    services.SessionService
	finalizeService   services.FinalizeService
	assessmentService services.AssessmentService
}

func NewSessionHandler(
	sessionService services.SessionService,
	finalizeService services.FinalizeService,
	assessmentService services.AssessmentService,
) *SessionHandler {
	return &SessionHandler{
		sessionService:    sessionService,
		finalizeService:   finalizeService,
		assessmentService: assessmentService,
	}
}

// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var input services.CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), nil, input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": session})
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": session})
}

// PATCH /api/sessions/:id
func (h *SessionHandler) Patch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var patch services.SessionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	session, err := h.sessionService.Patch(c.Request.Context(), id, patch)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": session})
}

// POST /api/sessions/:id/finalize
func (h *SessionHandler) Finalize(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	result, err := h.finalizeService.Finalize(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

// GET /api/sessions/:id/completeness
func (h *SessionHandler) Completeness(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	completeness, err := h.sessionService.Completeness(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"completeness": completeness})
}

// GET /api/sessions/:id/assessments
func (h *SessionHandler) ListAssessments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	assessments, err := h.assessmentService.ListBySession(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"assessments": assessments})
}

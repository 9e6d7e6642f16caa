package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fivetoolhq/fivetool-backend/internal/templates"
)

type TemplateHandler struct {
	registry *templates.Registry
}

func NewTemplateHandler(registry *templates.Registry) *TemplateHandler {
	return &TemplateHandler{registry: registry}
}

// GET /api/templates
func (h *TemplateHandler) ListAgeGroups(c *gin.Context) {
	RespondOK(c, gin.H{"age_groups": h.registry.AgeGroups()})
}

// GET /api/templates/:ageGroup
func (h *TemplateHandler) ListSections(c *gin.Context) {
	sections, err := h.registry.ResolveFullSections(c.Param("ageGroup"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "template_not_found", err)
		return
	}
	RespondOK(c, gin.H{"templates": sections})
}

// GET /api/templates/:ageGroup/:evalType
func (h *TemplateHandler) GetSection(c *gin.Context) {
	t, err := h.registry.Resolve(c.Param("ageGroup"), c.Param("evalType"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "template_not_found", err)
		return
	}
	RespondOK(c, gin.H{"template": t})
}

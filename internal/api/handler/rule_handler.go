package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/internal/service"
	"club-lodging/backend/pkg/response"
)

// RuleHandler exposes the business-rule table read-only.
type RuleHandler struct {
	ruleSvc service.RuleService
}

func NewRuleHandler(ruleSvc service.RuleService) *RuleHandler {
	return &RuleHandler{ruleSvc: ruleSvc}
}

// List GET /api/v1/rules
func (h *RuleHandler) List(c *gin.Context) {
	response.OK(c, gin.H{"list": h.ruleSvc.List()})
}

// Get GET /api/v1/rules/:type
func (h *RuleHandler) Get(c *gin.Context) {
	rule, err := h.ruleSvc.Get(c.Param("type"))
	if err != nil {
		if errors.Is(err, service.ErrMemberTypeNotFound) {
			response.NotFound(c, 15001, "Tipo de miembro desconocido")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, rule)
}

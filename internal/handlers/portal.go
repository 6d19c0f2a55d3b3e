package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shotlist-app/shotlist-backend/internal/services"
	"github.com/shotlist-app/shotlist-backend/internal/types"
)

type PortalHandler struct {
	portalService services.PortalService
}

func NewPortalHandler(portalService services.PortalService) *PortalHandler {
	return &PortalHandler{portalService: portalService}
}

func (ph *PortalHandler) Create(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}
	var req struct {
		Steps []types.PortalStep `json:"steps"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	portal, err := ph.portalService.CreatePortal(c.Request.Context(), projectID, req.Steps)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, portal)
}

func (ph *PortalHandler) GetByProject(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectID")
	if !ok {
		return
	}
	portal, err := ph.portalService.GetByProject(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, portal)
}

func (ph *PortalHandler) SetStepStatus(c *gin.Context) {
	portalID, ok := pathUUID(c, "portalID")
	if !ok {
		return
	}
	stepID, ok := pathUUID(c, "stepID")
	if !ok {
		return
	}
	var req struct {
		Status types.StepStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	portal, err := ph.portalService.SetStepStatus(c.Request.Context(), portalID, stepID, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, portal)
}

func (ph *PortalHandler) ResetSteps(c *gin.Context) {
	portalID, ok := pathUUID(c, "portalID")
	if !ok {
		return
	}
	portal, err := ph.portalService.ResetSteps(c.Request.Context(), portalID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, portal)
}

func (ph *PortalHandler) Lock(c *gin.Context) {
	portalID, ok := pathUUID(c, "portalID")
	if !ok {
		return
	}
	portal, err := ph.portalService.LockPortal(c.Request.Context(), portalID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, portal)
}

func (ph *PortalHandler) GenerateLink(c *gin.Context) {
	portalID, ok := pathUUID(c, "portalID")
	if !ok {
		return
	}
	portal, err := ph.portalService.GeneratePortalLink(c.Request.Context(), portalID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, portal)
}

func (ph *PortalHandler) DisableLink(c *gin.Context) {
	portalID, ok := pathUUID(c, "portalID")
	if !ok {
		return
	}
	portal, err := ph.portalService.DisablePortalLink(c.Request.Context(), portalID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, portal)
}

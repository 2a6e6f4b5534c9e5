package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/repository"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/service"
)

type ChecklistHandler struct {
	checklistService service.ChecklistService
}

func NewChecklistHandler(checklistService service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklistService: checklistService}
}

// List returns the team's checklists. Optional query params: entity_type,
// entity_id, status.
func (h *ChecklistHandler) List(c *gin.Context) {
	filters := repository.ChecklistFilters{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Status:     c.Query("status"),
	}

	checklists, err := h.checklistService.List(c.Request.Context(), identityFrom(c), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": checklists})
}

func (h *ChecklistHandler) Get(c *gin.Context) {
	checklist, err := h.checklistService.Get(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": checklist})
}

func (h *ChecklistHandler) Create(c *gin.Context) {
	var req service.CreateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checklist, err := h.checklistService.Create(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": checklist})
}

func (h *ChecklistHandler) Update(c *gin.Context) {
	var req service.UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checklist, err := h.checklistService.Update(c.Request.Context(), identityFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": checklist})
}

func (h *ChecklistHandler) Delete(c *gin.Context) {
	if err := h.checklistService.Delete(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "checklist deleted"})
}

func (h *ChecklistHandler) Stats(c *gin.Context) {
	stats, err := h.checklistService.CompletionStats(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

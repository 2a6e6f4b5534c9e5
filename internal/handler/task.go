package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/repository"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List returns the team's tasks in canonical priority/due-date order.
// Optional query params: project_id, checklist_id, status, priority,
// assigned_to, related_entity_type, related_entity_id.
func (h *TaskHandler) List(c *gin.Context) {
	filters := repository.TaskFilters{
		ProjectID:         c.Query("project_id"),
		ChecklistID:       c.Query("checklist_id"),
		Status:            c.Query("status"),
		Priority:          c.Query("priority"),
		AssignedTo:        c.Query("assigned_to"),
		RelatedEntityType: c.Query("related_entity_type"),
		RelatedEntityID:   c.Query("related_entity_id"),
	}

	tasks, err := h.taskService.List(c.Request.Context(), identityFrom(c), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tasks})
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.taskService.Get(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": task})
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), identityFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.taskService.Delete(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// BulkStatus applies one status to many tasks and reports how many rows
// actually changed; ids outside the caller's team are skipped, not errors.
func (h *TaskHandler) BulkStatus(c *gin.Context) {
	var req service.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	affected, err := h.taskService.BulkUpdateStatus(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": affected}})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"k8s.io/klog/v2"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/eventbus"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/repository"
)

type CreateTaskRequest struct {
	Title             string         `json:"title" binding:"required,min=1,max=255"`
	Description       string         `json:"description" binding:"max=1000"`
	Status            string         `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority          string         `json:"priority" binding:"omitempty,oneof=critical high medium low"`
	DueDate           *time.Time     `json:"due_date"`
	AssignedTo        *string        `json:"assigned_to"`
	ProjectID         *string        `json:"project_id"`
	ChecklistID       *string        `json:"checklist_id"`
	RelatedEntityType string         `json:"related_entity_type" binding:"max=50"`
	RelatedEntityID   string         `json:"related_entity_id" binding:"max=36"`
	Metadata          datatypes.JSON `json:"metadata"`
}

type UpdateTaskRequest struct {
	Title       *string         `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string         `json:"description" binding:"omitempty,max=1000"`
	Status      *string         `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority    *string         `json:"priority" binding:"omitempty,oneof=critical high medium low"`
	DueDate     *time.Time      `json:"due_date"`
	AssignedTo  *string         `json:"assigned_to"`
	CompletedAt *time.Time      `json:"completed_at"`
	Metadata    *datatypes.JSON `json:"metadata"`
}

type BulkStatusRequest struct {
	TaskIDs []string `json:"task_ids" binding:"required,min=1"`
	Status  string   `json:"status" binding:"required,oneof=pending in_progress completed"`
}

// TaskService owns team-scoped task CRUD and the canonical "what's next"
// ordering.
type TaskService interface {
	List(ctx context.Context, actor Identity, filters repository.TaskFilters) ([]model.Task, error)
	Get(ctx context.Context, actor Identity, taskID string) (*model.Task, error)
	Create(ctx context.Context, actor Identity, req CreateTaskRequest) (*model.Task, error)
	Update(ctx context.Context, actor Identity, taskID string, req UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, actor Identity, taskID string) error
	BulkUpdateStatus(ctx context.Context, actor Identity, req BulkStatusRequest) (int64, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
	events   *eventbus.TaskEventBus
}

func NewTaskService(taskRepo repository.TaskRepository, events *eventbus.TaskEventBus) TaskService {
	return &taskService{taskRepo: taskRepo, events: events}
}

func (s *taskService) List(ctx context.Context, actor Identity, filters repository.TaskFilters) ([]model.Task, error) {
	tasks, err := s.taskRepo.List(actor.TeamID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, actor Identity, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.Get(taskID, actor.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *taskService) Create(ctx context.Context, actor Identity, req CreateTaskRequest) (*model.Task, error) {
	task := &model.Task{
		TeamID:            actor.TeamID,
		ChecklistID:       req.ChecklistID,
		ProjectID:         req.ProjectID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Priority:          req.Priority,
		DueDate:           req.DueDate,
		AssignedTo:        req.AssignedTo,
		CreatedBy:         actor.UserID,
		RelatedEntityType: req.RelatedEntityType,
		RelatedEntityID:   req.RelatedEntityID,
		Metadata:          req.Metadata,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Update applies a partial diff. A transition into completed stamps
// completed_at unless the caller supplied an explicit value. Any status is
// reachable from any other, including re-opening a completed task.
func (s *taskService) Update(ctx context.Context, actor Identity, taskID string, req UpdateTaskRequest) (*model.Task, error) {
	existing, err := s.Get(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == model.TaskStatusCompleted && req.CompletedAt == nil && existing.Status != model.TaskStatusCompleted {
			updates["completed_at"] = time.Now()
		}
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.CompletedAt != nil {
		updates["completed_at"] = *req.CompletedAt
	}
	if req.Metadata != nil {
		updates["metadata"] = *req.Metadata
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	if err := s.taskRepo.UpdateFields(taskID, actor.TeamID, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	task, err := s.Get(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status == model.TaskStatusCompleted && existing.Status != model.TaskStatusCompleted {
		s.publish(ctx, eventbus.TaskEvent{
			Type:        eventbus.TaskEventCompleted,
			TeamID:      actor.TeamID,
			TaskID:      task.ID,
			ChecklistID: task.ChecklistID,
			Status:      task.Status,
		})
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, actor Identity, taskID string) error {
	if err := s.taskRepo.Delete(taskID, actor.TeamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// BulkUpdateStatus sets the status on every matching team-scoped task in one
// statement and returns the affected count. Like the single-task path it
// stamps completed_at when the target status is completed.
func (s *taskService) BulkUpdateStatus(ctx context.Context, actor Identity, req BulkStatusRequest) (int64, error) {
	updates := map[string]interface{}{"status": req.Status}
	if req.Status == model.TaskStatusCompleted {
		updates["completed_at"] = time.Now()
	}

	affected, err := s.taskRepo.BulkUpdateFields(req.TaskIDs, actor.TeamID, updates)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update tasks: %w", err)
	}
	klog.V(6).Infof("bulk status %s applied to %d/%d tasks for team %s", req.Status, affected, len(req.TaskIDs), actor.TeamID)

	s.publish(ctx, eventbus.TaskEvent{
		Type:     eventbus.TaskEventBulkStatus,
		TeamID:   actor.TeamID,
		Status:   req.Status,
		Affected: affected,
	})
	return affected, nil
}

// publish is best-effort: a failing subscriber never fails the operation.
func (s *taskService) publish(ctx context.Context, event eventbus.TaskEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event.Type, event); err != nil {
		klog.Errorf("task event %s: subscriber error: %v", event.Type, err)
	}
}

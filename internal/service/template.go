package service

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/repository"
)

// TemplateTaskInput is one task blueprint supplied at template creation or
// appended later.
type TemplateTaskInput struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=1000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=critical high medium low"`
	SortOrder   *int   `json:"sort_order"`
}

type CreateTemplateRequest struct {
	Name        string              `json:"name" binding:"required,min=1,max=255"`
	Description string              `json:"description" binding:"max=1000"`
	EntityType  string              `json:"entity_type" binding:"max=50"`
	IsDefault   bool                `json:"is_default"`
	Tasks       []TemplateTaskInput `json:"tasks" binding:"dive"`
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	EntityType  *string `json:"entity_type" binding:"omitempty,max=50"`
	IsDefault   *bool   `json:"is_default"`
}

type UpdateTemplateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=critical high medium low"`
	SortOrder   *int    `json:"sort_order"`
}

// TemplateService owns reusable checklist blueprints.
type TemplateService interface {
	List(ctx context.Context, actor Identity, filters repository.TemplateFilters) ([]model.ChecklistTemplate, error)
	Get(ctx context.Context, actor Identity, templateID string) (*model.ChecklistTemplate, error)
	Create(ctx context.Context, actor Identity, req CreateTemplateRequest) (*model.ChecklistTemplate, error)
	Update(ctx context.Context, actor Identity, templateID string, req UpdateTemplateRequest) (*model.ChecklistTemplate, error)
	Delete(ctx context.Context, actor Identity, templateID string) error
	AddTask(ctx context.Context, actor Identity, templateID string, req TemplateTaskInput) (*model.TemplateTask, error)
	UpdateTask(ctx context.Context, actor Identity, taskID string, req UpdateTemplateTaskRequest) (*model.TemplateTask, error)
	DeleteTask(ctx context.Context, actor Identity, taskID string) error
}

type templateService struct {
	templateRepo repository.TemplateRepository
}

func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

func (s *templateService) List(ctx context.Context, actor Identity, filters repository.TemplateFilters) ([]model.ChecklistTemplate, error) {
	templates, err := s.templateRepo.List(actor.TeamID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (s *templateService) Get(ctx context.Context, actor Identity, templateID string) (*model.ChecklistTemplate, error) {
	template, err := s.templateRepo.Get(templateID, actor.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// Create inserts the template together with its task blueprints in one
// transaction. Tasks default to medium priority and their slice position as
// sort order.
func (s *templateService) Create(ctx context.Context, actor Identity, req CreateTemplateRequest) (*model.ChecklistTemplate, error) {
	template := &model.ChecklistTemplate{
		TeamID:      actor.TeamID,
		Name:        req.Name,
		Description: req.Description,
		EntityType:  req.EntityType,
		IsDefault:   req.IsDefault,
		CreatedBy:   actor.UserID,
	}

	tasks := make([]model.TemplateTask, 0, len(req.Tasks))
	for i, in := range req.Tasks {
		priority := in.Priority
		if priority == "" {
			priority = model.TaskPriorityMedium
		}
		sortOrder := i
		if in.SortOrder != nil {
			sortOrder = *in.SortOrder
		}
		tasks = append(tasks, model.TemplateTask{
			Title:       in.Title,
			Description: in.Description,
			Priority:    priority,
			SortOrder:   sortOrder,
		})
	}

	if err := s.templateRepo.CreateWithTasks(template, tasks); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	klog.V(6).Infof("created checklist template %s with %d tasks for team %s", template.ID, len(tasks), actor.TeamID)

	return s.Get(ctx, actor, template.ID)
}

func (s *templateService) Update(ctx context.Context, actor Identity, templateID string, req UpdateTemplateRequest) (*model.ChecklistTemplate, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.EntityType != nil {
		updates["entity_type"] = *req.EntityType
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	if err := s.templateRepo.UpdateFields(templateID, actor.TeamID, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return s.Get(ctx, actor, templateID)
}

// Delete soft-deletes the template and all its active tasks atomically.
func (s *templateService) Delete(ctx context.Context, actor Identity, templateID string) error {
	affected, err := s.templateRepo.DeleteCascade(templateID, actor.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	klog.V(6).Infof("soft-deleted template %s (%d rows) for team %s", templateID, affected, actor.TeamID)
	return nil
}

// AddTask appends a blueprint to an existing template. Access is verified
// through Get, so a foreign template id reads as not found.
func (s *templateService) AddTask(ctx context.Context, actor Identity, templateID string, req TemplateTaskInput) (*model.TemplateTask, error) {
	template, err := s.Get(ctx, actor, templateID)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}
	sortOrder := len(template.Tasks)
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	task := &model.TemplateTask{
		TemplateID:  template.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		SortOrder:   sortOrder,
	}
	if err := s.templateRepo.AddTask(task); err != nil {
		return nil, fmt.Errorf("failed to add template task: %w", err)
	}
	return task, nil
}

func (s *templateService) UpdateTask(ctx context.Context, actor Identity, taskID string, req UpdateTemplateTaskRequest) (*model.TemplateTask, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	if err := s.templateRepo.UpdateTaskFields(taskID, actor.TeamID, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateTaskNotFound
		}
		return nil, fmt.Errorf("failed to update template task: %w", err)
	}

	task, err := s.templateRepo.GetTask(taskID, actor.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateTaskNotFound
		}
		return nil, fmt.Errorf("failed to reload template task: %w", err)
	}
	return task, nil
}

func (s *templateService) DeleteTask(ctx context.Context, actor Identity, taskID string) error {
	if err := s.templateRepo.DeleteTask(taskID, actor.TeamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateTaskNotFound
		}
		return fmt.Errorf("failed to delete template task: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"k8s.io/klog/v2"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/completion"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/eventbus"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/repository"
)

type CreateChecklistRequest struct {
	TemplateID *string        `json:"template_id"`
	Name       string         `json:"name" binding:"required,min=1,max=255"`
	EntityType string         `json:"entity_type" binding:"max=50"`
	EntityID   string         `json:"entity_id" binding:"max=36"`
	Metadata   datatypes.JSON `json:"metadata"`
}

type UpdateChecklistRequest struct {
	Name     *string         `json:"name" binding:"omitempty,min=1,max=255"`
	Status   *string         `json:"status" binding:"omitempty,oneof=active completed archived"`
	Metadata *datatypes.JSON `json:"metadata"`
}

// ChecklistService materializes templates into live checklists and tracks
// their lifecycle and completion.
type ChecklistService interface {
	List(ctx context.Context, actor Identity, filters repository.ChecklistFilters) ([]model.Checklist, error)
	Get(ctx context.Context, actor Identity, checklistID string) (*model.Checklist, error)
	Create(ctx context.Context, actor Identity, req CreateChecklistRequest) (*model.Checklist, error)
	Update(ctx context.Context, actor Identity, checklistID string, req UpdateChecklistRequest) (*model.Checklist, error)
	Delete(ctx context.Context, actor Identity, checklistID string) error
	CompletionStats(ctx context.Context, actor Identity, checklistID string) (*model.ChecklistStats, error)
}

type checklistService struct {
	checklistRepo repository.ChecklistRepository
	events        *eventbus.ChecklistEventBus
}

func NewChecklistService(checklistRepo repository.ChecklistRepository, events *eventbus.ChecklistEventBus) ChecklistService {
	return &checklistService{checklistRepo: checklistRepo, events: events}
}

func (s *checklistService) List(ctx context.Context, actor Identity, filters repository.ChecklistFilters) ([]model.Checklist, error) {
	checklists, err := s.checklistRepo.List(actor.TeamID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	for i := range checklists {
		checklists[i].CompletionPercentage = completion.Percentage(checklists[i].TotalTasks, checklists[i].CompletedTasks)
	}
	return checklists, nil
}

func (s *checklistService) Get(ctx context.Context, actor Identity, checklistID string) (*model.Checklist, error) {
	checklist, err := s.checklistRepo.Get(checklistID, actor.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChecklistNotFound
		}
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	checklist.TotalTasks = int64(len(checklist.Tasks))
	for _, task := range checklist.Tasks {
		if task.Status == model.TaskStatusCompleted {
			checklist.CompletedTasks++
		}
	}
	checklist.CompletionPercentage = completion.Percentage(checklist.TotalTasks, checklist.CompletedTasks)
	return checklist, nil
}

// Create materializes the checklist in one transaction. When a template id is
// given, the template's active tasks are snapshotted into pending Task rows;
// later template edits never touch this checklist.
func (s *checklistService) Create(ctx context.Context, actor Identity, req CreateChecklistRequest) (*model.Checklist, error) {
	checklist := &model.Checklist{
		TeamID:     actor.TeamID,
		Name:       req.Name,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Status:     model.ChecklistStatusActive,
		CreatedBy:  actor.UserID,
		Metadata:   req.Metadata,
	}

	if err := s.checklistRepo.CreateFromTemplate(checklist, req.TemplateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to create checklist: %w", err)
	}

	created, err := s.Get(ctx, actor, checklist.ID)
	if err != nil {
		return nil, err
	}
	klog.V(6).Infof("created checklist %s (%d tasks) for team %s", created.ID, created.TotalTasks, actor.TeamID)

	s.publish(ctx, eventbus.ChecklistEvent{
		Type:        eventbus.ChecklistEventCreated,
		TeamID:      actor.TeamID,
		ChecklistID: created.ID,
		TemplateID:  created.TemplateID,
		EntityType:  created.EntityType,
		EntityID:    created.EntityID,
		TaskCount:   len(created.Tasks),
	})
	return created, nil
}

func (s *checklistService) Update(ctx context.Context, actor Identity, checklistID string, req UpdateChecklistRequest) (*model.Checklist, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Metadata != nil {
		updates["metadata"] = *req.Metadata
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	if err := s.checklistRepo.UpdateFields(checklistID, actor.TeamID, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChecklistNotFound
		}
		return nil, fmt.Errorf("failed to update checklist: %w", err)
	}
	return s.Get(ctx, actor, checklistID)
}

// Delete soft-deletes the checklist and all its active tasks atomically.
func (s *checklistService) Delete(ctx context.Context, actor Identity, checklistID string) error {
	affected, err := s.checklistRepo.DeleteCascade(checklistID, actor.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChecklistNotFound
		}
		return fmt.Errorf("failed to delete checklist: %w", err)
	}
	klog.V(6).Infof("soft-deleted checklist %s (%d rows) for team %s", checklistID, affected, actor.TeamID)

	s.publish(ctx, eventbus.ChecklistEvent{
		Type:        eventbus.ChecklistEventDeleted,
		TeamID:      actor.TeamID,
		ChecklistID: checklistID,
		TaskCount:   int(affected - 1),
	})
	return nil
}

func (s *checklistService) CompletionStats(ctx context.Context, actor Identity, checklistID string) (*model.ChecklistStats, error) {
	if _, err := s.checklistRepo.GetBasic(checklistID, actor.TeamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChecklistNotFound
		}
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	stats, err := s.checklistRepo.CompletionStats(checklistID, actor.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate checklist stats: %w", err)
	}
	stats.CompletionPercentage = completion.Percentage(stats.TotalTasks, stats.CompletedTasks)
	return stats, nil
}

// publish is best-effort: a failing subscriber never fails the operation.
func (s *checklistService) publish(ctx context.Context, event eventbus.ChecklistEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event.Type, event); err != nil {
		klog.Errorf("checklist event %s: subscriber error: %v", event.Type, err)
	}
}

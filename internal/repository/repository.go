package repository

import (
	"errors"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
)

// ErrNotFound covers rows that are absent, soft-deleted, or owned by another
// team. The three cases are deliberately indistinguishable so ids never leak
// cross-tenant existence.
var ErrNotFound = errors.New("record not found")

// TemplateFilters narrows template list queries. Zero values mean "no filter".
type TemplateFilters struct {
	EntityType string
	IsDefault  *bool
}

// TaskFilters narrows task list queries. All set filters are conjunctive.
type TaskFilters struct {
	ProjectID         string
	ChecklistID       string
	Status            string
	Priority          string
	AssignedTo        string
	RelatedEntityType string
	RelatedEntityID   string
}

// ChecklistFilters narrows checklist list queries.
type ChecklistFilters struct {
	EntityType string
	EntityID   string
	Status     string
}

type TemplateRepository interface {
	List(teamID string, filters TemplateFilters) ([]model.ChecklistTemplate, error)
	Get(id, teamID string) (*model.ChecklistTemplate, error)
	CreateWithTasks(template *model.ChecklistTemplate, tasks []model.TemplateTask) error
	UpdateFields(id, teamID string, updates map[string]interface{}) error
	DeleteCascade(id, teamID string) (int64, error)
	AddTask(task *model.TemplateTask) error
	GetTask(taskID, teamID string) (*model.TemplateTask, error)
	UpdateTaskFields(taskID, teamID string, updates map[string]interface{}) error
	DeleteTask(taskID, teamID string) error
}

type ChecklistRepository interface {
	List(teamID string, filters ChecklistFilters) ([]model.Checklist, error)
	Get(id, teamID string) (*model.Checklist, error)
	GetBasic(id, teamID string) (*model.Checklist, error)
	CreateFromTemplate(checklist *model.Checklist, templateID *string) error
	UpdateFields(id, teamID string, updates map[string]interface{}) error
	DeleteCascade(id, teamID string) (int64, error)
	CompletionStats(id, teamID string) (*model.ChecklistStats, error)
}

type TaskRepository interface {
	List(teamID string, filters TaskFilters) ([]model.Task, error)
	Get(id, teamID string) (*model.Task, error)
	Create(task *model.Task) error
	UpdateFields(id, teamID string, updates map[string]interface{}) error
	Delete(id, teamID string) error
	BulkUpdateFields(ids []string, teamID string, updates map[string]interface{}) (int64, error)
}

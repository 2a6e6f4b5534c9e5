package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Checklist statuses.
const (
	ChecklistStatusActive    = "active"
	ChecklistStatusCompleted = "completed"
	ChecklistStatusArchived  = "archived"
)

// Checklist is a live, entity-bound list of tasks. EntityType/EntityID is a
// tagged reference to an aggregate owned by another module (escrow, listing,
// ...), not a real foreign key. TemplateID is a weak reference: it records
// which template the checklist was materialized from and survives the
// template's deletion.
type Checklist struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	TeamID     string         `json:"team_id" gorm:"size:36;index;not null"`
	TemplateID *string        `json:"template_id" gorm:"size:36;index"`
	Name       string         `json:"name" gorm:"size:255;not null"`
	EntityType string         `json:"entity_type" gorm:"size:50;index"`
	EntityID   string         `json:"entity_id" gorm:"size:36;index"`
	Status     string         `json:"status" gorm:"size:20;default:active"`
	CreatedBy  string         `json:"created_by" gorm:"size:36"`
	Metadata   datatypes.JSON `json:"metadata"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:ChecklistID"`

	// Derived fields, filled by queries. Never persisted.
	TotalTasks           int64 `json:"total_tasks" gorm:"-"`
	CompletedTasks       int64 `json:"completed_tasks" gorm:"-"`
	CompletionPercentage int   `json:"completion_percentage" gorm:"-"`
}

// TableName overrides the default table name.
func (Checklist) TableName() string {
	return "checklists"
}

// ChecklistStats aggregates the task counts of one checklist. All values are
// derived at query time.
type ChecklistStats struct {
	TotalTasks           int64 `json:"total_tasks"`
	CompletedTasks       int64 `json:"completed_tasks"`
	InProgressTasks      int64 `json:"in_progress_tasks"`
	PendingTasks         int64 `json:"pending_tasks"`
	CriticalTasks        int64 `json:"critical_tasks"`
	OverdueTasks         int64 `json:"overdue_tasks"`
	CompletionPercentage int   `json:"completion_percentage"`
}

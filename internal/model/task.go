package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task statuses. Any status is reachable from any other; completion is not a
// terminal state.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Task priorities, highest first.
const (
	TaskPriorityCritical = "critical"
	TaskPriorityHigh     = "high"
	TaskPriorityMedium   = "medium"
	TaskPriorityLow      = "low"
)

// Task is a single unit of work. It may live inside a checklist, belong to a
// project, point at an external entity, or stand alone. Tasks have no
// children.
type Task struct {
	ID                string         `json:"id" gorm:"primaryKey;size:36"`
	TeamID            string         `json:"team_id" gorm:"size:36;index;not null"`
	ChecklistID       *string        `json:"checklist_id" gorm:"size:36;index"`
	ProjectID         *string        `json:"project_id" gorm:"size:36;index"`
	Title             string         `json:"title" gorm:"size:255;not null"`
	Description       string         `json:"description" gorm:"size:1000"`
	Status            string         `json:"status" gorm:"size:20;default:pending"`
	Priority          string         `json:"priority" gorm:"size:20;default:medium"`
	DueDate           *time.Time     `json:"due_date"`
	AssignedTo        *string        `json:"assigned_to" gorm:"size:36"`
	CompletedAt       *time.Time     `json:"completed_at"`
	CreatedBy         string         `json:"created_by" gorm:"size:36"`
	RelatedEntityType string         `json:"related_entity_type" gorm:"size:50;index"`
	RelatedEntityID   string         `json:"related_entity_id" gorm:"size:36;index"`
	Metadata          datatypes.JSON `json:"metadata"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName overrides the default table name.
func (Task) TableName() string {
	return "tasks"
}

// PriorityRank maps a priority to its sort rank. Unrecognized values sort
// after low.
func PriorityRank(priority string) int {
	switch priority {
	case TaskPriorityCritical:
		return 1
	case TaskPriorityHigh:
		return 2
	case TaskPriorityMedium:
		return 3
	case TaskPriorityLow:
		return 4
	default:
		return 5
	}
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// ChecklistTemplate is a reusable blueprint of tasks. It belongs to one team
// and is never bound to a live entity; checklists copy its tasks at creation
// time instead of referencing them.
type ChecklistTemplate struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	TeamID      string         `json:"team_id" gorm:"size:36;index;not null"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"size:1000"`
	EntityType  string         `json:"entity_type" gorm:"size:50;index"` // escrow, listing, lead, ...
	IsDefault   bool           `json:"is_default" gorm:"default:false"`
	CreatedBy   string         `json:"created_by" gorm:"size:36"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Tasks []TemplateTask `json:"tasks,omitempty" gorm:"foreignKey:TemplateID"`

	// TaskCount is the number of active template tasks, filled by list
	// queries. Never persisted.
	TaskCount int64 `json:"task_count" gorm:"-"`
}

// TableName overrides the default table name.
func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}

// TemplateTask is one ordered task blueprint inside a template.
type TemplateTask struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	TemplateID  string         `json:"template_id" gorm:"size:36;index;not null"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"size:1000"`
	Priority    string         `json:"priority" gorm:"size:20;default:medium"`
	SortOrder   int            `json:"sort_order" gorm:"default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName overrides the default table name.
func (TemplateTask) TableName() string {
	return "checklist_template_tasks"
}

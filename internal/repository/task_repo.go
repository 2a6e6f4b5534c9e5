package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
)

// taskOrder is the canonical "what's next" ordering: priority rank first,
// then earliest due date with undated tasks last, then newest first. The
// CASE expressions keep it valid on both sqlite and mysql.
const taskOrder = `CASE priority
		WHEN 'critical' THEN 1
		WHEN 'high' THEN 2
		WHEN 'medium' THEN 3
		WHEN 'low' THEN 4
		ELSE 5
	END ASC,
	CASE WHEN due_date IS NULL THEN 1 ELSE 0 END ASC,
	due_date ASC,
	created_at DESC`

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) List(teamID string, filters TaskFilters) ([]model.Task, error) {
	q := r.db.Where("team_id = ?", teamID)
	if filters.ProjectID != "" {
		q = q.Where("project_id = ?", filters.ProjectID)
	}
	if filters.ChecklistID != "" {
		q = q.Where("checklist_id = ?", filters.ChecklistID)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		q = q.Where("priority = ?", filters.Priority)
	}
	if filters.AssignedTo != "" {
		q = q.Where("assigned_to = ?", filters.AssignedTo)
	}
	if filters.RelatedEntityType != "" {
		q = q.Where("related_entity_type = ?", filters.RelatedEntityType)
	}
	if filters.RelatedEntityID != "" {
		q = q.Where("related_entity_id = ?", filters.RelatedEntityID)
	}

	var tasks []model.Task
	err := q.Order(taskOrder).Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Get(id, teamID string) (*model.Task, error) {
	var task model.Task
	result := r.db.Where("id = ? AND team_id = ?", id, teamID).First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

func (r *taskRepository) Create(task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}
	return r.db.Create(task).Error
}

func (r *taskRepository) UpdateFields(id, teamID string, updates map[string]interface{}) error {
	result := r.db.Model(&model.Task{}).
		Where("id = ? AND team_id = ?", id, teamID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete is a single soft delete. Tasks have no children, so there is no
// cascade.
func (r *taskRepository) Delete(id, teamID string) error {
	result := r.db.Where("id = ? AND team_id = ?", id, teamID).Delete(&model.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkUpdateFields applies the updates to every matching team-scoped active
// task in one statement and reports how many rows changed. Ids belonging to
// other teams are silently skipped.
func (r *taskRepository) BulkUpdateFields(ids []string, teamID string, updates map[string]interface{}) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&model.Task{}).
		Where("id IN ? AND team_id = ?", ids, teamID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
)

type checklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

// List returns the team's active checklists newest-first, each annotated with
// its active task totals.
func (r *checklistRepository) List(teamID string, filters ChecklistFilters) ([]model.Checklist, error) {
	q := r.db.Where("team_id = ?", teamID)
	if filters.EntityType != "" {
		q = q.Where("entity_type = ?", filters.EntityType)
	}
	if filters.EntityID != "" {
		q = q.Where("entity_id = ?", filters.EntityID)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}

	var checklists []model.Checklist
	if err := q.Order("created_at DESC").Find(&checklists).Error; err != nil {
		return nil, err
	}
	if len(checklists) == 0 {
		return checklists, nil
	}

	ids := make([]string, 0, len(checklists))
	for _, c := range checklists {
		ids = append(ids, c.ID)
	}

	var counts []struct {
		ChecklistID string
		Total       int64
		Completed   int64
	}
	err := r.db.Model(&model.Task{}).
		Select("checklist_id, COUNT(*) AS total, COUNT(CASE WHEN status = ? THEN 1 END) AS completed", model.TaskStatusCompleted).
		Where("checklist_id IN ?", ids).
		Group("checklist_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	type tally struct{ total, completed int64 }
	byChecklist := make(map[string]tally, len(counts))
	for _, c := range counts {
		byChecklist[c.ChecklistID] = tally{total: c.Total, completed: c.Completed}
	}
	for i := range checklists {
		t := byChecklist[checklists[i].ID]
		checklists[i].TotalTasks = t.total
		checklists[i].CompletedTasks = t.completed
	}
	return checklists, nil
}

// Get returns one checklist with its active tasks in creation order.
func (r *checklistRepository) Get(id, teamID string) (*model.Checklist, error) {
	var checklist model.Checklist
	result := r.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ? AND team_id = ?", id, teamID).First(&checklist)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &checklist, nil
}

// GetBasic returns the checklist row without loading tasks.
func (r *checklistRepository) GetBasic(id, teamID string) (*model.Checklist, error) {
	var checklist model.Checklist
	result := r.db.Where("id = ? AND team_id = ?", id, teamID).First(&checklist)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &checklist, nil
}

// CreateFromTemplate inserts the checklist and, when templateID is given,
// snapshots that template's active tasks into new pending Task rows. The
// whole materialization is one transaction: concurrent readers never observe
// a checklist with only part of its tasks. The template must belong to the
// checklist's team; a template with zero active tasks is not an error.
func (r *checklistRepository) CreateFromTemplate(checklist *model.Checklist, templateID *string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if checklist.ID == "" {
			checklist.ID = uuid.NewString()
		}
		if checklist.Status == "" {
			checklist.Status = model.ChecklistStatusActive
		}
		checklist.TemplateID = templateID
		if err := tx.Create(checklist).Error; err != nil {
			return err
		}
		if templateID == nil {
			return nil
		}

		var template model.ChecklistTemplate
		err := tx.Where("id = ? AND team_id = ?", *templateID, checklist.TeamID).First(&template).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var blueprints []model.TemplateTask
		err = tx.Where("template_id = ?", *templateID).Order("sort_order ASC").Find(&blueprints).Error
		if err != nil {
			return err
		}

		for _, bp := range blueprints {
			priority := bp.Priority
			if priority == "" {
				priority = model.TaskPriorityMedium
			}
			task := model.Task{
				ID:          uuid.NewString(),
				TeamID:      checklist.TeamID,
				ChecklistID: &checklist.ID,
				Title:       bp.Title,
				Description: bp.Description,
				Status:      model.TaskStatusPending,
				Priority:    priority,
				CreatedBy:   checklist.CreatedBy,
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *checklistRepository) UpdateFields(id, teamID string, updates map[string]interface{}) error {
	result := r.db.Model(&model.Checklist{}).
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

// DeleteCascade soft-deletes the checklist's active tasks, then the checklist,
// inside one transaction. Returns the number of rows marked deleted.
func (r *checklistRepository) DeleteCascade(id, teamID string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var checklist model.Checklist
		if err := tx.Where("id = ? AND team_id = ?", id, teamID).First(&checklist).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		tasks := tx.Where("checklist_id = ? AND team_id = ?", id, teamID).Delete(&model.Task{})
		if tasks.Error != nil {
			return tasks.Error
		}
		if err := tx.Delete(&checklist).Error; err != nil {
			return err
		}
		affected = tasks.RowsAffected + 1
		return nil
	})
	return affected, err
}

// CompletionStats aggregates the checklist's active tasks in one query.
// Overdue means past due and not completed.
func (r *checklistRepository) CompletionStats(id, teamID string) (*model.ChecklistStats, error) {
	var stats model.ChecklistStats
	err := r.db.Model(&model.Task{}).
		Select(`COUNT(*) AS total_tasks,
			COUNT(CASE WHEN status = ? THEN 1 END) AS completed_tasks,
			COUNT(CASE WHEN status = ? THEN 1 END) AS in_progress_tasks,
			COUNT(CASE WHEN status = ? THEN 1 END) AS pending_tasks,
			COUNT(CASE WHEN priority = ? THEN 1 END) AS critical_tasks,
			COUNT(CASE WHEN due_date < ? AND status <> ? THEN 1 END) AS overdue_tasks`,
			model.TaskStatusCompleted,
			model.TaskStatusInProgress,
			model.TaskStatusPending,
			model.TaskPriorityCritical,
			time.Now(),
			model.TaskStatusCompleted).
		Where("checklist_id = ? AND team_id = ?", id, teamID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

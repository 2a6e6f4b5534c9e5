package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
)

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// List returns the team's active templates ordered default-first, then by
// name, each annotated with its live task count.
func (r *templateRepository) List(teamID string, filters TemplateFilters) ([]model.ChecklistTemplate, error) {
	q := r.db.Where("team_id = ?", teamID)
	if filters.EntityType != "" {
		q = q.Where("entity_type = ?", filters.EntityType)
	}
	if filters.IsDefault != nil {
		q = q.Where("is_default = ?", *filters.IsDefault)
	}

	var templates []model.ChecklistTemplate
	if err := q.Order("is_default DESC, name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return templates, nil
	}

	ids := make([]string, 0, len(templates))
	for _, t := range templates {
		ids = append(ids, t.ID)
	}

	var counts []struct {
		TemplateID string
		N          int64
	}
	err := r.db.Model(&model.TemplateTask{}).
		Select("template_id, COUNT(*) AS n").
		Where("template_id IN ?", ids).
		Group("template_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byTemplate := make(map[string]int64, len(counts))
	for _, c := range counts {
		byTemplate[c.TemplateID] = c.N
	}
	for i := range templates {
		templates[i].TaskCount = byTemplate[templates[i].ID]
	}
	return templates, nil
}

// Get returns one template with its active tasks in sort order.
func (r *templateRepository) Get(id, teamID string) (*model.ChecklistTemplate, error) {
	var template model.ChecklistTemplate
	result := r.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Where("id = ? AND team_id = ?", id, teamID).First(&template)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	template.TaskCount = int64(len(template.Tasks))
	return &template, nil
}

// CreateWithTasks inserts the template and all its tasks as one transaction.
// A failing task insert rolls back the template row too.
func (r *templateRepository) CreateWithTasks(template *model.ChecklistTemplate, tasks []model.TemplateTask) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if template.ID == "" {
			template.ID = uuid.NewString()
		}
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		for i := range tasks {
			if tasks[i].ID == "" {
				tasks[i].ID = uuid.NewString()
			}
			tasks[i].TemplateID = template.ID
			if err := tx.Create(&tasks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *templateRepository) UpdateFields(id, teamID string, updates map[string]interface{}) error {
	result := r.db.Model(&model.ChecklistTemplate{}).
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

// DeleteCascade soft-deletes the template's active tasks, then the template,
// inside one transaction. Returns the number of rows marked deleted.
func (r *templateRepository) DeleteCascade(id, teamID string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var template model.ChecklistTemplate
		if err := tx.Where("id = ? AND team_id = ?", id, teamID).First(&template).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		tasks := tx.Where("template_id = ?", id).Delete(&model.TemplateTask{})
		if tasks.Error != nil {
			return tasks.Error
		}
		if err := tx.Delete(&template).Error; err != nil {
			return err
		}
		affected = tasks.RowsAffected + 1
		return nil
	})
	return affected, err
}

func (r *templateRepository) AddTask(task *model.TemplateTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return r.db.Create(task).Error
}

// GetTask returns a template task only when its parent template is active and
// owned by the team.
func (r *templateRepository) GetTask(taskID, teamID string) (*model.TemplateTask, error) {
	var task model.TemplateTask
	result := r.db.
		Where("id = ? AND template_id IN (?)", taskID, r.activeTemplateIDs(teamID)).
		First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// UpdateTaskFields mutates a template task. The parent template's ownership
// is enforced in the same statement, so an enumerable task id is not a
// cross-tenant mutation path.
func (r *templateRepository) UpdateTaskFields(taskID, teamID string, updates map[string]interface{}) error {
	result := r.db.Model(&model.TemplateTask{}).
		Where("id = ? AND template_id IN (?)", taskID, r.activeTemplateIDs(teamID)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *templateRepository) DeleteTask(taskID, teamID string) error {
	result := r.db.
		Where("id = ? AND template_id IN (?)", taskID, r.activeTemplateIDs(teamID)).
		Delete(&model.TemplateTask{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// activeTemplateIDs builds the team-ownership subquery shared by the
// template-task mutations.
func (r *templateRepository) activeTemplateIDs(teamID string) *gorm.DB {
	return r.db.Model(&model.ChecklistTemplate{}).Select("id").Where("team_id = ?", teamID)
}

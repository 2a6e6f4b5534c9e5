package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
)

func TestChecklistRepositoryMaterializesTemplateSnapshot(t *testing.T) {
	db := newTestDB(t)
	templateRepo := NewTemplateRepository(db)
	repo := NewChecklistRepository(db)

	template := &model.ChecklistTemplate{TeamID: "team-a", Name: "Escrow Closing", EntityType: "escrow"}
	blueprints := []model.TemplateTask{
		{Title: "Open escrow account", Priority: model.TaskPriorityCritical, SortOrder: 0},
		{Title: "Order title report", Priority: model.TaskPriorityLow, SortOrder: 1},
	}
	if err := templateRepo.CreateWithTasks(template, blueprints); err != nil {
		t.Fatalf("CreateWithTasks error: %v", err)
	}

	checklist := &model.Checklist{
		TeamID:     "team-a",
		Name:       "123 Main St Closing",
		EntityType: "escrow",
		EntityID:   "escrow-1",
		CreatedBy:  "user-1",
	}
	if err := repo.CreateFromTemplate(checklist, &template.ID); err != nil {
		t.Fatalf("CreateFromTemplate error: %v", err)
	}

	got, err := repo.Get(checklist.ID, "team-a")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("expected 2 materialized tasks, got %d", len(got.Tasks))
	}
	if got.Tasks[0].Title != "Open escrow account" || got.Tasks[1].Title != "Order title report" {
		t.Fatalf("tasks out of order: %q, %q", got.Tasks[0].Title, got.Tasks[1].Title)
	}
	for i, task := range got.Tasks {
		if task.Status != model.TaskStatusPending {
			t.Fatalf("task %d: expected pending status, got %q", i, task.Status)
		}
		if task.DueDate != nil {
			t.Fatalf("task %d: expected nil due date", i)
		}
	}
	if got.Tasks[0].Priority != model.TaskPriorityCritical || got.Tasks[1].Priority != model.TaskPriorityLow {
		t.Fatalf("priorities not inherited: %q, %q", got.Tasks[0].Priority, got.Tasks[1].Priority)
	}

	// Snapshot: later template edits never reach the checklist.
	if err := templateRepo.AddTask(&model.TemplateTask{TemplateID: template.ID, Title: "Added later"}); err != nil {
		t.Fatalf("AddTask error: %v", err)
	}
	got, err = repo.Get(checklist.ID, "team-a")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("template edit leaked into checklist: %d tasks", len(got.Tasks))
	}
}

func TestChecklistRepositoryEmptyTemplateYieldsEmptyChecklist(t *testing.T) {
	db := newTestDB(t)
	templateRepo := NewTemplateRepository(db)
	repo := NewChecklistRepository(db)

	template := &model.ChecklistTemplate{TeamID: "team-a", Name: "Empty"}
	if err := templateRepo.CreateWithTasks(template, nil); err != nil {
		t.Fatalf("CreateWithTasks error: %v", err)
	}

	checklist := &model.Checklist{TeamID: "team-a", Name: "Empty run"}
	if err := repo.CreateFromTemplate(checklist, &template.ID); err != nil {
		t.Fatalf("CreateFromTemplate error: %v", err)
	}

	got, err := repo.Get(checklist.ID, "team-a")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(got.Tasks) != 0 {
		t.Fatalf("expected 0 tasks, got %d", len(got.Tasks))
	}
}

func TestChecklistRepositoryForeignTemplateRollsBack(t *testing.T) {
	db := newTestDB(t)
	templateRepo := NewTemplateRepository(db)
	repo := NewChecklistRepository(db)

	template := &model.ChecklistTemplate{TeamID: "team-b", Name: "Foreign"}
	if err := templateRepo.CreateWithTasks(template, []model.TemplateTask{{Title: "secret"}}); err != nil {
		t.Fatalf("CreateWithTasks error: %v", err)
	}

	checklist := &model.Checklist{TeamID: "team-a", Name: "Stolen"}
	err := repo.CreateFromTemplate(checklist, &template.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign template, got %v", err)
	}

	// The checklist insert must have been rolled back with the failure.
	var count int64
	if err := db.Unscoped().Model(&model.Checklist{}).Count(&count).Error; err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no checklist rows after rollback, got %d", count)
	}
}

func TestChecklistRepositoryListCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewChecklistRepository(db)
	taskRepo := NewTaskRepository(db)

	checklist := &model.Checklist{TeamID: "team-a", Name: "Closing", EntityType: "escrow", EntityID: "escrow-1"}
	if err := repo.CreateFromTemplate(checklist, nil); err != nil {
		t.Fatalf("CreateFromTemplate error: %v", err)
	}
	for _, status := range []string{model.TaskStatusCompleted, model.TaskStatusPending} {
		task := &model.Task{TeamID: "team-a", ChecklistID: &checklist.ID, Title: "t", Status: status}
		if err := taskRepo.Create(task); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	checklists, err := repo.List("team-a", ChecklistFilters{EntityType: "escrow", EntityID: "escrow-1"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(checklists) != 1 {
		t.Fatalf("expected 1 checklist, got %d", len(checklists))
	}
	if checklists[0].TotalTasks != 2 || checklists[0].CompletedTasks != 1 {
		t.Fatalf("unexpected counts: total=%d completed=%d", checklists[0].TotalTasks, checklists[0].CompletedTasks)
	}
}

func TestChecklistRepositoryDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	templateRepo := NewTemplateRepository(db)
	repo := NewChecklistRepository(db)

	template := &model.ChecklistTemplate{TeamID: "team-a", Name: "Closing"}
	blueprints := []model.TemplateTask{{Title: "a"}, {Title: "b"}}
	if err := templateRepo.CreateWithTasks(template, blueprints); err != nil {
		t.Fatalf("CreateWithTasks error: %v", err)
	}

	checklist := &model.Checklist{TeamID: "team-a", Name: "Run"}
	if err := repo.CreateFromTemplate(checklist, &template.ID); err != nil {
		t.Fatalf("CreateFromTemplate error: %v", err)
	}

	affected, err := repo.DeleteCascade(checklist.ID, "team-a")
	if err != nil {
		t.Fatalf("DeleteCascade error: %v", err)
	}
	if affected != 3 {
		t.Fatalf("expected 3 rows soft-deleted (2 tasks + checklist), got %d", affected)
	}

	if _, err := repo.Get(checklist.ID, "team-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	var activeTasks int64
	if err := db.Model(&model.Task{}).Where("checklist_id = ?", checklist.ID).Count(&activeTasks).Error; err != nil {
		t.Fatalf("count error: %v", err)
	}
	if activeTasks != 0 {
		t.Fatalf("expected no active tasks after cascade, got %d", activeTasks)
	}
}

func TestChecklistRepositoryCompletionStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewChecklistRepository(db)
	taskRepo := NewTaskRepository(db)

	checklist := &model.Checklist{TeamID: "team-a", Name: "Closing"}
	if err := repo.CreateFromTemplate(checklist, nil); err != nil {
		t.Fatalf("CreateFromTemplate error: %v", err)
	}

	yesterday := time.Now().Add(-24 * time.Hour)
	tasks := []*model.Task{
		{Title: "done", Status: model.TaskStatusCompleted},
		{Title: "doing", Status: model.TaskStatusInProgress},
		{Title: "waiting", Status: model.TaskStatusPending, Priority: model.TaskPriorityCritical},
		{Title: "late", Status: model.TaskStatusPending, DueDate: &yesterday},
		{Title: "late but done", Status: model.TaskStatusCompleted, DueDate: &yesterday},
	}
	for _, task := range tasks {
		task.TeamID = "team-a"
		task.ChecklistID = &checklist.ID
		if err := taskRepo.Create(task); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	stats, err := repo.CompletionStats(checklist.ID, "team-a")
	if err != nil {
		t.Fatalf("CompletionStats error: %v", err)
	}
	if stats.TotalTasks != 5 {
		t.Fatalf("expected 5 total, got %d", stats.TotalTasks)
	}
	if stats.CompletedTasks != 2 || stats.InProgressTasks != 1 || stats.PendingTasks != 2 {
		t.Fatalf("unexpected status counts: %+v", stats)
	}
	if stats.CriticalTasks != 1 {
		t.Fatalf("expected 1 critical, got %d", stats.CriticalTasks)
	}
	// Past due and completed does not count as overdue.
	if stats.OverdueTasks != 1 {
		t.Fatalf("expected 1 overdue, got %d", stats.OverdueTasks)
	}
}

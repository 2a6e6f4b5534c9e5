package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/model"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.ChecklistTemplate{},
		&model.TemplateTask{},
		&model.Checklist{},
		&model.Task{},
	))
	return db
}

var teamA = Identity{TeamID: "team-a", UserID: "user-1"}
var teamB = Identity{TeamID: "team-b", UserID: "user-9"}

func newTemplateService(t *testing.T) (TemplateService, *gorm.DB) {
	db := newTestDB(t)
	return NewTemplateService(repository.NewTemplateRepository(db)), db
}

func TestTemplateServiceCreateRoundTrip(t *testing.T) {
	svc, _ := newTemplateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, teamA, CreateTemplateRequest{
		Name:       "Escrow Closing",
		EntityType: "escrow",
		Tasks: []TemplateTaskInput{
			{Title: "Open escrow account", Priority: model.TaskPriorityHigh},
			{Title: "Order title report"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "team-a", created.TeamID)
	assert.Equal(t, "user-1", created.CreatedBy)

	got, err := svc.Get(ctx, teamA, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "Open escrow account", got.Tasks[0].Title)
	assert.Equal(t, "Order title report", got.Tasks[1].Title)
	// Defaults: medium priority, slice position as sort order.
	assert.Equal(t, model.TaskPriorityMedium, got.Tasks[1].Priority)
	assert.Equal(t, 0, got.Tasks[0].SortOrder)
	assert.Equal(t, 1, got.Tasks[1].SortOrder)
}

func TestTemplateServiceGetMapsNotFound(t *testing.T) {
	svc, _ := newTemplateService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, teamA, "no-such-id")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	created, err := svc.Create(ctx, teamA, CreateTemplateRequest{Name: "Mine"})
	require.NoError(t, err)

	// Foreign team reads are indistinguishable from missing rows.
	_, err = svc.Get(ctx, teamB, created.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateServiceUpdateEmptyDiff(t *testing.T) {
	svc, _ := newTemplateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, teamA, CreateTemplateRequest{Name: "Mine"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, teamA, created.ID, UpdateTemplateRequest{})
	assert.ErrorIs(t, err, ErrNoUpdates)

	name := "Renamed"
	updated, err := svc.Update(ctx, teamA, created.ID, UpdateTemplateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestTemplateServiceDeleteCascades(t *testing.T) {
	svc, db := newTemplateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, teamA, CreateTemplateRequest{
		Name:  "Closing",
		Tasks: []TemplateTaskInput{{Title: "a"}, {Title: "b"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, teamA, created.ID))

	_, err = svc.Get(ctx, teamA, created.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	var active int64
	require.NoError(t, db.Model(&model.TemplateTask{}).Where("template_id = ?", created.ID).Count(&active).Error)
	assert.Zero(t, active)
}

func TestTemplateServiceAddTaskAppendsInOrder(t *testing.T) {
	svc, _ := newTemplateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, teamA, CreateTemplateRequest{
		Name:  "Closing",
		Tasks: []TemplateTaskInput{{Title: "first"}},
	})
	require.NoError(t, err)

	task, err := svc.AddTask(ctx, teamA, created.ID, TemplateTaskInput{Title: "second"})
	require.NoError(t, err)
	assert.Equal(t, 1, task.SortOrder)

	_, err = svc.AddTask(ctx, teamB, created.ID, TemplateTaskInput{Title: "intruder"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplateServiceTaskUpdateScopedToTeam(t *testing.T) {
	svc, _ := newTemplateService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, teamA, CreateTemplateRequest{
		Name:  "Closing",
		Tasks: []TemplateTaskInput{{Title: "only"}},
	})
	require.NoError(t, err)
	taskID := created.Tasks[0].ID

	title := "hijacked"
	_, err = svc.UpdateTask(ctx, teamB, taskID, UpdateTemplateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, ErrTemplateTaskNotFound)

	_, err = svc.UpdateTask(ctx, teamA, taskID, UpdateTemplateTaskRequest{})
	assert.ErrorIs(t, err, ErrNoUpdates)

	title = "renamed"
	task, err := svc.UpdateTask(ctx, teamA, taskID, UpdateTemplateTaskRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", task.Title)

	require.NoError(t, svc.DeleteTask(ctx, teamA, taskID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, teamA, taskID), ErrTemplateTaskNotFound)
}

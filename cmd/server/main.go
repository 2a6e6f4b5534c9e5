package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/jaydenmetz/real-estate-crm-sub015/config"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/eventbus"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/handler"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/pkg/database"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/repository"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/router"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/service"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg := config.GetConfig()

	if cfg.Database.Type != "mysql" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	templateRepo := repository.NewTemplateRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	checklistEvents := eventbus.NewChecklistEventBus()
	taskEvents := eventbus.NewTaskEventBus()
	subscribeAuditLog(checklistEvents, taskEvents)

	templateService := service.NewTemplateService(templateRepo)
	checklistService := service.NewChecklistService(checklistRepo, checklistEvents)
	taskService := service.NewTaskService(taskRepo, taskEvents)

	templateHandler := handler.NewTemplateHandler(templateService)
	checklistHandler := handler.NewChecklistHandler(checklistService)
	taskHandler := handler.NewTaskHandler(taskService)

	r := router.Setup(cfg, templateHandler, checklistHandler, taskHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// subscribeAuditLog traces checklist and task lifecycle events.
func subscribeAuditLog(checklistEvents *eventbus.ChecklistEventBus, taskEvents *eventbus.TaskEventBus) {
	logChecklist := func(ctx context.Context, event eventbus.ChecklistEvent) error {
		klog.V(4).Infof("event %s: checklist=%s team=%s tasks=%d", event.Type, event.ChecklistID, event.TeamID, event.TaskCount)
		return nil
	}
	checklistEvents.Subscribe(eventbus.ChecklistEventCreated, logChecklist)
	checklistEvents.Subscribe(eventbus.ChecklistEventDeleted, logChecklist)

	logTask := func(ctx context.Context, event eventbus.TaskEvent) error {
		klog.V(4).Infof("event %s: task=%s team=%s status=%s affected=%d", event.Type, event.TaskID, event.TeamID, event.Status, event.Affected)
		return nil
	}
	taskEvents.Subscribe(eventbus.TaskEventCompleted, logTask)
	taskEvents.Subscribe(eventbus.TaskEventBulkStatus, logTask)
}

package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/jaydenmetz/real-estate-crm-sub015/config"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/handler"
	"github.com/jaydenmetz/real-estate-crm-sub015/internal/service"
)

func Setup(
	cfg *config.Config,
	templateHandler *handler.TemplateHandler,
	checklistHandler *handler.ChecklistHandler,
	taskHandler *handler.TaskHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Team-ID", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(identityRequired())
	{
		templates := api.Group("/checklist-templates")
		{
			templates.GET("", templateHandler.List)
			templates.POST("", templateHandler.Create)
			templates.GET("/:id", templateHandler.Get)
			templates.PUT("/:id", templateHandler.Update)
			templates.DELETE("/:id", templateHandler.Delete)
			templates.POST("/:id/tasks", templateHandler.AddTask)
			templates.PUT("/tasks/:taskId", templateHandler.UpdateTask)
			templates.DELETE("/tasks/:taskId", templateHandler.DeleteTask)
		}

		checklists := api.Group("/checklists")
		{
			checklists.GET("", checklistHandler.List)
			checklists.POST("", checklistHandler.Create)
			checklists.GET("/:id", checklistHandler.Get)
			checklists.PUT("/:id", checklistHandler.Update)
			checklists.DELETE("/:id", checklistHandler.Delete)
			checklists.GET("/:id/stats", checklistHandler.Stats)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.POST("/bulk-status", taskHandler.BulkStatus)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
		}
	}

	return r
}

// identityRequired reads the tenant identity the upstream gateway injects.
// Authentication itself lives in front of this service; requests without a
// team are rejected before reaching any handler.
func identityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID := c.GetHeader("X-Team-ID")
		if teamID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing team identity"})
			return
		}
		c.Set(handler.IdentityKey, service.Identity{
			TeamID: teamID,
			UserID: c.GetHeader("X-User-ID"),
		})
		c.Next()
	}
}

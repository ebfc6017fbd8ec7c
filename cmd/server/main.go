package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/joshuamachine/rotation-api-go/pkg/auth"
	"github.com/joshuamachine/rotation-api-go/pkg/database"
	"github.com/joshuamachine/rotation-api-go/pkg/handlers"
	"github.com/joshuamachine/rotation-api-go/pkg/rotation"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	roles := rotation.DefaultRoles()
	if path := os.Getenv("ROLES_PATH"); path != "" {
		loaded, err := rotation.LoadRoles(path)
		if err != nil {
			log.Fatalf("could not load roles from %s: %v", path, err)
		}
		roles = loaded
		log.Printf("Loaded %d role definitions from %s", len(roles), path)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{DB: db, Roles: roles}

	r := gin.Default()

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Rotation Scheduler API",
			"version": "1.0.0",
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.POST("/schedule", h.SaveSchedule)
	}

	// Rotation Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/rotation", h.RotationJSON)
		api.POST("/rotation/csv", h.RotationCSV)
		api.POST("/validate", h.ValidateInput)
		api.POST("/analytics/availability", h.AvailabilitySummary)
		api.POST("/analytics/schedule", h.ScheduleAnalytics)
		api.GET("/schedule/latest", h.LatestSchedule)
		api.GET("/usage", h.GetMyUsage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}

package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/joshuamachine/rotation-api-go/pkg/auth"
	"github.com/joshuamachine/rotation-api-go/pkg/database"
	"github.com/joshuamachine/rotation-api-go/pkg/handlers"
	"github.com/joshuamachine/rotation-api-go/pkg/rotation"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	roles := rotation.DefaultRoles()
	if path := os.Getenv("ROLES_PATH"); path != "" {
		if loaded, err := rotation.LoadRoles(path); err == nil {
			roles = loaded
		}
	}

	// Initialize DB
	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{DB: db, Roles: roles}

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Static files served from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Rotation Scheduler API (Vercel)",
			"version": "1.0.0",
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

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
}

// Handler is the Vercel serverless entrypoint
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}

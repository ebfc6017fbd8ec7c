package handlers

import (
	"embed"
	"encoding/csv"
	"io"
	"io/fs"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshuamachine/rotation-api-go/pkg/analytics"
	"github.com/joshuamachine/rotation-api-go/pkg/auth"
	"github.com/joshuamachine/rotation-api-go/pkg/database"
	"github.com/joshuamachine/rotation-api-go/pkg/models"
	"github.com/joshuamachine/rotation-api-go/pkg/rotation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed static/*
var staticEmbed embed.FS

// Handler contains dependencies for the route handlers
type Handler struct {
	DB *gorm.DB

	// Roles is the deployment's role set in priority order, used whenever a
	// request does not carry its own definitions. Nil means DefaultRoles.
	Roles []models.RoleDefinition
}

// roleSet picks the role definitions for one request: the request's own if
// supplied, else the deployment's, else the standard rotation.
func (h *Handler) roleSet(input *models.RotationInput) []models.RoleDefinition {
	if input != nil && len(input.Roles) > 0 {
		return input.Roles
	}
	if len(h.Roles) > 0 {
		return h.Roles
	}
	return rotation.DefaultRoles()
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for rotation routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		userID, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Fetch or create API key record to track usage
		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      userID,
			RateLimit: 10000,
		})

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// runRotation builds the engine from a rotation input and generates the
// schedule. History, custom role definitions, and a fixed random seed are all
// optional.
func (h *Handler) runRotation(input *models.RotationInput) (*models.RotationResponse, error) {
	roles := h.roleSet(input)
	if err := rotation.ValidateRoles(roles); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if input.Seed != nil {
		seed = *input.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	catalog := rotation.NewCatalog(input.Pools)
	tracker := rotation.NewTrackerFromGrid(input.History)
	engine := rotation.NewEngine(roles, catalog, tracker, rng)

	ledger, err := engine.Generate(input.Availability)
	if err != nil {
		return nil, err
	}

	grid := ledger.Grid()
	summary := analytics.SummarizeSchedule(grid)

	return &models.RotationResponse{
		Schedule:      grid,
		CoverageGaps:  engine.Gaps,
		FairnessScore: summary.FairnessScore,
		Assignments:   summary.PersonTotals,
	}, nil
}

// RotationJSON handles the JSON-based rotation request
func (h *Handler) RotationJSON(c *gin.Context) {
	var input models.RotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.runRotation(&input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dates := 0
	people := 0
	if input.Availability != nil {
		dates = len(input.Availability.Dates)
		people = len(input.Availability.Rows)
	}
	h.RecordUsage(c, dates, people)

	c.JSON(http.StatusOK, resp)
}

// parseAvailabilityCSV reads a name-column + date-columns table with
// case-insensitive yes/no cells.
func parseAvailabilityCSV(r io.Reader) (*models.AvailabilityTable, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return &models.AvailabilityTable{}, nil
	}

	table := &models.AvailabilityTable{Dates: header[1:]}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		row := models.AvailabilityRow{
			Name:      strings.TrimSpace(record[0]),
			Available: make([]bool, len(table.Dates)),
		}
		for i := range table.Dates {
			if i+1 < len(record) {
				row.Available[i] = strings.EqualFold(strings.TrimSpace(record[i+1]), "yes")
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// parseQualificationsCSV reads pool,name rows into pool membership lists.
func parseQualificationsCSV(r io.Reader) (map[string][]string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	poolCol, okPool := cols["pool"]
	nameCol, okName := cols["name"]
	if !okPool || !okName {
		return nil, io.ErrUnexpectedEOF
	}

	pools := make(map[string][]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		pool := strings.TrimSpace(record[poolCol])
		name := strings.TrimSpace(record[nameCol])
		if pool == "" || name == "" {
			continue
		}
		pools[pool] = append(pools[pool], name)
	}
	return pools, nil
}

// parseGridCSV reads a role-column + date-columns schedule grid, the same
// shape the rotation endpoints export.
func parseGridCSV(r io.Reader) (*models.ScheduleGrid, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return &models.ScheduleGrid{}, nil
	}

	grid := &models.ScheduleGrid{Dates: header[1:]}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		grid.Roles = append(grid.Roles, strings.TrimSpace(record[0]))
		cells := make([]string, len(grid.Dates))
		for i := range grid.Dates {
			if i+1 < len(record) {
				cells[i] = strings.TrimSpace(record[i+1])
			}
		}
		grid.Cells = append(grid.Cells, cells)
	}
	return grid, nil
}

// writeGridCSV renders a schedule grid with a leading role column.
func writeGridCSV(grid *models.ScheduleGrid) string {
	var out strings.Builder
	writer := csv.NewWriter(&out)
	writer.Write(append([]string{"role"}, grid.Dates...))
	for i, role := range grid.Roles {
		writer.Write(append([]string{role}, grid.Cells[i]...))
	}
	writer.Flush()
	return out.String()
}

// RotationCSV handles CSV file uploads for rotation scheduling
func (h *Handler) RotationCSV(c *gin.Context) {
	availFile, _ := c.FormFile("availability_file")
	qualFile, _ := c.FormFile("qualifications_file")
	historyFile, _ := c.FormFile("history_file")

	if availFile == nil || qualFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "availability_file and qualifications_file are required"})
		return
	}

	aFile, err := availFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open availability file"})
		return
	}
	defer aFile.Close()
	availability, err := parseAvailabilityCSV(aFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read availability header"})
		return
	}

	qFile, err := qualFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open qualifications file"})
		return
	}
	defer qFile.Close()
	pools, err := parseQualificationsCSV(qFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "qualifications_file must have pool and name columns"})
		return
	}

	input := models.RotationInput{
		Availability: availability,
		Pools:        pools,
	}

	if historyFile != nil {
		hFile, err := historyFile.Open()
		if err == nil {
			defer hFile.Close()
			if grid, err := parseGridCSV(hFile); err == nil {
				input.History = grid
			}
		}
	}

	resp, err := h.runRotation(&input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.RecordUsage(c, len(availability.Dates), len(availability.Rows))

	c.JSON(http.StatusOK, gin.H{
		"csv":            writeGridCSV(resp.Schedule),
		"fairness_score": resp.FairnessScore,
	})
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, dateCount, peopleCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_dates":   gorm.Expr("total_dates + ?", dateCount),
			"total_people":  gorm.Expr("total_people + ?", peopleCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:        apiKey.ID,
		Date:         today,
		RequestCount: 1,
		TotalDates:   dateCount,
		TotalPeople:  peopleCount,
	})
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new API key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		RateLimit int    `json:"rate_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if req.RateLimit == 0 {
		req.RateLimit = 10000
	}

	// Generate key using HMAC
	key := auth.GenerateHMACKey(req.Name)

	// Create preview (e.g., sk_...****)
	preview := ""
	if len(key) > 8 {
		preview = key[:3] + "..." + key[len(key)-4:]
	} else {
		preview = "****"
	}

	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: preview,
		RateLimit:  req.RateLimit,
	}

	if err := h.DB.Create(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": req.Name,
		"key":  key,
	})
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	h.DB.Find(&keys)
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey deletes an API key
func (h *Handler) RevokeKey(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.Delete(&database.APIKey{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}

	// Try JSON first, then Form/Query
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate_limit is required"})
			return
		}
	}

	if req.RateLimit == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate limit"})
		return
	}

	if err := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update key limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id := c.Param("id")
	var usage []database.APIUsage
	h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage)
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// AdminInterface serves the admin web interface from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	_ = auth.EnsureAdminExists(h.DB)

	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "static/index.html not found in embedded FS"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

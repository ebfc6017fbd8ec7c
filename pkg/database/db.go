package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalDates   int    `gorm:"default:0" json:"total_dates"`
	TotalPeople  int    `gorm:"default:0" json:"total_people"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScheduleRun represents one saved schedule generation
type ScheduleRun struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RunID         string    `gorm:"unique;not null" json:"run_id"`
	SavedBy       string    `json:"saved_by"`
	FairnessScore float64   `json:"fairness_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScheduleEntry is one (role, date) cell of a saved schedule grid.
// Position preserves the chronological column order of the run.
type ScheduleEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RunID    string `gorm:"index;not null" json:"run_id"`
	Role     string `gorm:"not null" json:"role"`
	Date     string `gorm:"not null" json:"date"`
	Person   string `json:"person"`
	Position int    `gorm:"not null" json:"position"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "rotation.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &ScheduleRun{}, &ScheduleEntry{})

	return db
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pelicanmedia/pelican/pkg/database"
	"github.com/pelicanmedia/pelican/pkg/models"
)

func main() {
	var (
		host     = flag.String("host", getEnv("DB_HOST", "localhost"), "Database host")
		port     = flag.Int("port", getEnvAsInt("DB_PORT", 5432), "Database port")
		user     = flag.String("user", getEnv("DB_USER", "pelican"), "Database user")
		password = flag.String("password", getEnv("DB_PASSWORD", "pelican"), "Database password")
		dbname   = flag.String("dbname", getEnv("DB_NAME", "pelican"), "Database name")
		sslmode  = flag.String("sslmode", getEnv("DB_SSLMODE", "disable"), "SSL mode")
		status   = flag.Bool("status", false, "Show table status instead of migrating")
	)
	flag.Parse()

	cfg := database.DefaultPostgresConfig()
	cfg.Host = *host
	cfg.Port = *port
	cfg.User = *user
	cfg.Password = *password
	cfg.Database = *dbname
	cfg.SSLMode = *sslmode
	cfg.LogLevel = logger.Info

	db, err := database.NewGormDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if *status {
		showStatus(db)
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Println("migrations applied")
}

func showStatus(db *gorm.DB) {
	tables := map[string]interface{}{
		"users":             &models.User{},
		"sessions":          &models.Session{},
		"media":             &models.Media{},
		"history_entries":   &models.HistoryEntry{},
		"watch_progress":    &models.WatchProgress{},
		"watchlist_entries": &models.WatchlistEntry{},
	}

	for name, model := range tables {
		if !db.Migrator().HasTable(model) {
			fmt.Printf("%-20s missing\n", name)
			continue
		}
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			fmt.Printf("%-20s error: %v\n", name, err)
			continue
		}
		fmt.Printf("%-20s %d rows\n", name, count)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

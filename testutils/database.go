package testutils

import (
	"fmt"
	"lms/config"
	"lms/database"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestConfig is the configuration the tests run with
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:                "test",
		Port:                  "0",
		DBDriver:              "sqlite",
		JWTKey:                "test-secret",
		JWTExpireHours:        1,
		SaltRound:             4, // bcrypt.MinCost
		CorsOrigins:           "*",
		StorageDriver:         "local",
		RazorpayKeyID:         "rzp_test_key",
		RazorpayKeySecret:     "rzp_test_secret",
		ProgressReconcileCron: "@every 1h",
	}
}

// SetupTestDB opens a private in-memory sqlite database, migrates it and
// installs it, with TestConfig, as the global database and configuration
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	// One connection keeps the shared in-memory database free of lock contention
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	previousDB, previousCfg := database.Database, config.AppConfig
	database.Database = database.DbInstance{Db: db}
	config.AppConfig = TestConfig()

	t.Cleanup(func() {
		database.Database = previousDB
		config.AppConfig = previousCfg
		sqlDB.Close()
	})

	return db
}

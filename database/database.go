package database

import (
	"fmt"
	"lms/config"
	"lms/models"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	// "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection using the configured driver
func ConnectDb() {
	cfg := config.AppConfig

	db, err := Open(cfg.DBDriver, BuildDSN(cfg))
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", cfg.DBDriver, err)
		os.Exit(2)
	}

	// Set GORM logger to Info mode
	// db.Logger = logger.Default.LogMode(logger.Info)

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(0) // No timeout

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// BuildDSN renders the connection string for the configured driver.
// For sqlite DB_NAME is the database file path.
func BuildDSN(cfg *config.Config) string {
	switch cfg.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case "sqlite":
		return cfg.DBName
	default:
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
	}
}

// Open opens a gorm connection for one of postgres, mysql or sqlite
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lecture{},
		&models.Question{},
		&models.Review{},
		&models.Enrollment{},
		&models.EnrolledCourse{},
		&models.LectureCompletion{},
		&models.QuizScore{},
		&models.Order{},
	)
	if err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}

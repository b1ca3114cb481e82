package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	AppEnv string
	Port   string

	DBDriver       string // postgres, mysql, sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey         string
	JWTExpireHours int
	SaltRound      int

	CorsOrigins string

	StorageDriver  string // local, supabase
	UploadDir      string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayApiURL    string

	SendgridApiKey  string
	EmailSender     string
	EmailSenderName string

	ProgressReconcileEnabled bool
	ProgressReconcileCron    string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.RazorpayKeySecret == "" {
		log.Println("Warning: RAZORPAY_KEY_SECRET is empty. Payment verification will always fail.")
	}
}

// FromEnv builds a Config from the current process environment
func FromEnv() *Config {
	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "5000"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "lms"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:         getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24*30),
		SaltRound:      getEnvInt("SALT_ROUND", 10),

		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		SupabaseURL:    getEnv("SUPABASE_URL", ""),
		SupabaseKey:    getEnv("SUPABASE_KEY", ""),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "uploads"),

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayApiURL:    getEnv("RAZORPAY_API_URL", "https://api.razorpay.com/v1"),

		SendgridApiKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@lms.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "LMS"),

		ProgressReconcileEnabled: getEnvBool("PROGRESS_RECONCILE_ENABLED", true),
		ProgressReconcileCron:    getEnv("PROGRESS_RECONCILE_CRON", "0 3 * * *"),
	}
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvBool retrieves an environment variable as a bool or returns the default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}

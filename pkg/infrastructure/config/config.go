package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Service
	AppName    string
	Port       string
	LogLevel   string
	PrettyLogs bool

	// Planning
	MaxDepth               int           // BOM explosion depth bound (default: 3)
	PlanningWorkers        int           // concurrent root explosions (default: 4)
	RunTimeout             time.Duration // per-run deadline (default: 2m)
	CoalesceLevels         bool          // merge same-material nodes per level (default: true)
	RequiredDateOffsetDays int           // default need date offset from the planning date (default: 14)
	DefaultLeadTimeDays    int           // used when a material has no lead time (default: 7)
	DefaultMOQ             int           // used when neither supplier nor material has an MOQ (default: 100)

	// ATP / CTP
	ATPHorizonDays     int // forward search horizon (default: 90)
	ATPDefaultCapacity int // workstation capacity when unrecorded (default: 1000)

	// Data source: memory, csv or postgres
	DataSource string
	DataDir    string

	// Postgres
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis BOM cache (optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BOMCacheTTL   time.Duration

	// Kafka run events (optional)
	KafkaBrokers []string
	KafkaTopic   string
}

// RedisConfigured returns true if a Redis address is set
func (c *Config) RedisConfigured() bool {
	return c.RedisAddr != ""
}

// KafkaConfigured returns true if brokers and a topic are set
func (c *Config) KafkaConfigured() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}

// PostgresDSN builds a lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Load reads an optional .env file, then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		AppName:    getEnv("APP_NAME", "mrpatp"),
		Port:       getEnv("PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		PrettyLogs: getEnvBool("PRETTY_LOGS", false),

		MaxDepth:               getEnvInt("MRP_MAX_DEPTH", 3),
		PlanningWorkers:        getEnvInt("MRP_PLANNING_WORKERS", 4),
		RunTimeout:             getEnvDuration("MRP_RUN_TIMEOUT", 2*time.Minute),
		CoalesceLevels:         getEnvBool("MRP_COALESCE_LEVELS", true),
		RequiredDateOffsetDays: getEnvInt("MRP_REQUIRED_DATE_OFFSET_DAYS", 14),
		DefaultLeadTimeDays:    getEnvInt("MRP_DEFAULT_LEAD_TIME_DAYS", 7),
		DefaultMOQ:             getEnvInt("MRP_DEFAULT_MOQ", 100),

		ATPHorizonDays:     getEnvInt("ATP_HORIZON_DAYS", 90),
		ATPDefaultCapacity: getEnvInt("ATP_DEFAULT_CAPACITY", 1000),

		DataSource: strings.ToLower(getEnv("DATA_SOURCE", "memory")),
		DataDir:    getEnv("DATA_DIR", "./data"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "mrp"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		BOMCacheTTL:   getEnvDuration("BOM_CACHE_TTL", 10*time.Minute),

		KafkaBrokers: getEnvStringList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "mrp.planning.events"),
	}

	switch cfg.DataSource {
	case "memory", "csv", "postgres":
	default:
		return nil, fmt.Errorf("DATA_SOURCE must be one of memory, csv, postgres, got %q", cfg.DataSource)
	}

	for _, v := range []struct {
		name  string
		value int
	}{
		{"MRP_PLANNING_WORKERS", cfg.PlanningWorkers},
		{"ATP_HORIZON_DAYS", cfg.ATPHorizonDays},
	} {
		if v.value < 1 {
			return nil, fmt.Errorf("%s must be positive, got %d", v.name, v.value)
		}
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("MRP_MAX_DEPTH cannot be negative, got %d", cfg.MaxDepth)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

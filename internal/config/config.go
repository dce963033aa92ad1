package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port int

	StoreDriver string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string
	BodyLimitBytes     int64
	MaxConnections     int
}

func Load() *Config {
	return &Config{
		Port: envInt("PORT", 5000),

		StoreDriver: strings.ToLower(envString("STORE_DRIVER", DriverMongo)),

		MongoURI:        envString("MONGODB_URI", "mongodb://localhost:27017/tasks_manager"),
		MongoDatabase:   os.Getenv("MONGODB_DATABASE"),
		MongoCollection: envString("MONGODB_COLLECTION", "tasks"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      envString("DB_HOST", "localhost"),
		DBPort:      envInt("DB_PORT", 5432),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      envString("DB_NAME", "tasks_manager"),

		LogLevel:  envString("LOG_LEVEL", "info"),
		LogFormat: envString("LOG_FORMAT", "text"),

		CORSAllowedOrigins: splitList(envString("CORS_ALLOWED_ORIGINS", "*")),
		BodyLimitBytes:     int64(envInt("BODY_LIMIT_BYTES", 100<<10)),
		MaxConnections:     envInt("MAX_CONNECTIONS", 0),
	}
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want mongo, postgres or memory)", c.StoreDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// BaseURL is what gets logged at startup.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// ConnString returns the Postgres DSN, preferring DATABASE_URL.
func (c *Config) ConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// MongoDatabaseName resolves the database: explicit setting, then the URI path, then tasks_manager.
func (c *Config) MongoDatabaseName() string {
	if c.MongoDatabase != "" {
		return c.MongoDatabase
	}
	// multi-host URIs do not survive url.Parse, so cut the path out by hand
	rest := c.MongoURI
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		if name := strings.Trim(rest[i+1:], "/"); name != "" {
			return name
		}
	}
	return "tasks_manager"
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

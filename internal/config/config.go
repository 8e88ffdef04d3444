package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	GinMode     string
	TZ          string
	Port        string
	StoreDriver string

	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	SQLitePath string

	MongoURI      string
	MongoDatabase string

	RateLimitRPS   float64
	RateLimitBurst int

	LogJSON bool
}

// findEnvFile walks up from the working directory looking for name.
func findEnvFile(name string) (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load reads the configuration from the environment. In debug mode a
// .env.dev file found in a parent directory is loaded first.
func Load() *Config {
	env := getenv("GIN_MODE", "debug")

	if env == "debug" {
		filename := ".env.dev"
		if envPath, ok := findEnvFile(filename); !ok {
			log.Warn().Msgf("%s not found in any parent directory", filename)
		} else if err := godotenv.Load(envPath); err != nil {
			log.Warn().Err(err).Msgf("could not load %s", envPath)
		} else {
			log.Info().Msgf("loaded %s from %s", filename, envPath)
		}
	}

	cfg := &Config{
		GinMode:     getenv("GIN_MODE", "debug"),
		TZ:          getenv("TZ", "UTC"),
		Port:        getenv("PORT", "3000"),
		StoreDriver: getenv("STORE_DRIVER", DriverSQLite),

		DBHost:    getenv("DB_HOST", "localhost"),
		DBPort:    getenv("DB_PORT", "5432"),
		DBUser:    getenv("DB_USER", "postgres"),
		DBPass:    getenv("DB_PASS", ""),
		DBName:    getenv("DB_NAME", "locallibrary"),
		DBSSLMode: os.Getenv("DB_SSLMODE"),

		SQLitePath: getenv("SQLITE_PATH", "locallibrary.db"),

		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "local_library"),

		RateLimitRPS:   getenvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getenvInt("RATE_LIMIT_BURST", 20),

		LogJSON: getenvBool("LOG_JSON", env == "release"),
	}

	if cfg.DBSSLMode == "" {
		if cfg.GinMode == "release" {
			cfg.DBSSLMode = "require"
		} else {
			cfg.DBSSLMode = "disable"
		}
	}

	return cfg
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	// A positive rate with an empty bucket would reject every request.
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is %v", c.RateLimitRPS)
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost,
		c.DBUser,
		c.DBPass,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
		c.TZ,
	)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

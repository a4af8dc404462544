package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Env string

	// Server
	Port string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	MigrationsPath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Events
	AMQPURL      string
	AMQPExchange string

	// Seed
	SeedAdminUsername string
	SeedAdminPassword string
	SeedAdminEmail    string
}

var appConfig *Config

// Load loads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Env:  v.GetString("ENV"),
		Port: v.GetString("PORT"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),
		SQLitePath: v.GetString("SQLITE_PATH"),

		MigrationsPath: v.GetString("MIGRATIONS_PATH"),

		JWTSecret: v.GetString("JWT_SECRET"),

		AMQPURL:      v.GetString("AMQP_URL"),
		AMQPExchange: v.GetString("AMQP_EXCHANGE"),

		SeedAdminUsername: v.GetString("SEED_ADMIN_USERNAME"),
		SeedAdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		SeedAdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
	}

	expStr := v.GetString("JWT_EXPIRES_IN")
	expDur, err := time.ParseDuration(expStr)
	if err != nil || expDur <= 0 {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "spendwise")
	v.SetDefault("DB_PASSWORD", "spendwise")
	v.SetDefault("DB_NAME", "spendwise")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "spendwise.db")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")

	v.SetDefault("JWT_SECRET", "fallback-secret-key-for-dev-only")
	v.SetDefault("JWT_EXPIRES_IN", "24h")

	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "spendwise.events")

	v.SetDefault("SEED_ADMIN_USERNAME", "admin")
	v.SetDefault("SEED_ADMIN_PASSWORD", "Admin@123")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@spendwise.local")
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

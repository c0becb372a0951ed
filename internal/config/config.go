package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // BUSINESS_TIMEZONE must resolve in minimal containers

	"els_pos_backend/internal/models"
	"els_pos_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "els-pos-development-secret"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	SchemaPath  string // optional schema file overriding the embedded one
	ApplySchema bool
}

// DSN returns the lib/pq connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Config is the full runtime configuration of the server.
type Config struct {
	AppEnv             string
	Port               string
	DB                 DBConfig
	JWTSecret          string
	JWTExpiration      time.Duration
	CORSAllowedOrigins []string
	LogLevel           string

	OrderNumberStrategy string
	TableOccupancyMode  string
	Location            *time.Location
	DefaultTaxRate      decimal.Decimal
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Load reads the configuration from the environment. Every malformed value is
// reported; nothing is silently replaced by its default.
func Load() (*Config, error) {
	var problems []string

	cfg := &Config{
		AppEnv: strings.ToLower(utils.Getenv("APP_ENV", EnvDevelopment)),
		Port:   utils.Getenv("PORT", "8080"),
		DB: DBConfig{
			Host:       utils.Getenv("DB_HOST", "localhost"),
			Port:       utils.Getenv("DB_PORT", "5432"),
			User:       utils.Getenv("DB_USER", "els_pos_user"),
			Password:   utils.Getenv("DB_PASSWORD", "els_pos_password"),
			Name:       utils.Getenv("DB_NAME", "els_pos_db"),
			SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
		},
		JWTSecret:           utils.Getenv("JWT_SECRET", ""),
		LogLevel:            utils.Getenv("LOG_LEVEL", "info"),
		OrderNumberStrategy: strings.ToLower(utils.Getenv("ORDER_NUMBER_STRATEGY", models.NumberStrategyCounter)),
		TableOccupancyMode:  strings.ToLower(utils.Getenv("TABLE_OCCUPANCY_MODE", models.OccupancyModeSingle)),
	}

	applySchema, err := strconv.ParseBool(utils.Getenv("DB_APPLY_SCHEMA", "true"))
	if err != nil {
		problems = append(problems, "DB_APPLY_SCHEMA must be a boolean")
	}
	cfg.DB.ApplySchema = applySchema

	if cfg.JWTSecret == "" {
		if cfg.AppEnv == EnvProduction {
			problems = append(problems, "JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}

	cfg.JWTExpiration, err = time.ParseDuration(utils.Getenv("JWT_EXPIRATION", "24h"))
	if err != nil || cfg.JWTExpiration <= 0 {
		problems = append(problems, "JWT_EXPIRATION must be a positive duration such as 24h")
	}

	cfg.CORSAllowedOrigins = utils.GetenvList("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")

	switch cfg.OrderNumberStrategy {
	case models.NumberStrategyCounter, models.NumberStrategyCount:
	default:
		problems = append(problems, fmt.Sprintf("ORDER_NUMBER_STRATEGY must be %q or %q", models.NumberStrategyCounter, models.NumberStrategyCount))
	}
	switch cfg.TableOccupancyMode {
	case models.OccupancyModeSingle, models.OccupancyModeRefCount:
	default:
		problems = append(problems, fmt.Sprintf("TABLE_OCCUPANCY_MODE must be %q or %q", models.OccupancyModeSingle, models.OccupancyModeRefCount))
	}

	cfg.Location, err = time.LoadLocation(utils.Getenv("BUSINESS_TIMEZONE", "Local"))
	if err != nil {
		problems = append(problems, fmt.Sprintf("BUSINESS_TIMEZONE: %v", err))
	}

	cfg.DefaultTaxRate, err = decimal.NewFromString(utils.Getenv("DEFAULT_TAX_RATE", "0.08"))
	if err != nil || cfg.DefaultTaxRate.IsNegative() || cfg.DefaultTaxRate.GreaterThan(decimal.NewFromInt(1)) {
		problems = append(problems, "DEFAULT_TAX_RATE must be a number between 0 and 1")
	}

	if len(problems) > 0 {
		return nil, errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Config defines the interface for configuration management in the contact application.
type Config interface {
	Host() string
	Port() string
	Title() string

	SessionSecret() string
	PartnersFile() string
	LogFile() string
	DevMode() bool

	OTLPEndpoint() string

	DSN() string
}

// appConfig implements the Config interface and holds the configuration for the application.
type appConfig struct {
	host          string `validate:"required"`
	port          string `validate:"required"`
	title         string `validate:"required"`
	sessionSecret string `validate:"required"`
	partnersFile  string
	logFile       string `validate:"required"`
	devMode       bool
	otlpEndpoint  string

	pgHost     string `validate:"required"`
	pgPort     string `validate:"required"`
	pgDB       string `validate:"required"`
	pgUser     string `validate:"required"`
	pgPassword string `validate:"required"`
}

// Host returns the host for the HTTP server.
func (c *appConfig) Host() string {
	return c.host
}

// Port returns the port for the HTTP server.
func (c *appConfig) Port() string {
	return c.port
}

// Title returns the application title used in page headers.
func (c *appConfig) Title() string {
	return c.title
}

// SessionSecret returns the secret used to authenticate session cookies.
func (c *appConfig) SessionSecret() string {
	return c.sessionSecret
}

// PartnersFile returns the path to the partner roster YAML file, if any.
func (c *appConfig) PartnersFile() string {
	return c.partnersFile
}

// LogFile returns the path of the rotating log file.
func (c *appConfig) LogFile() string {
	return c.logFile
}

// DevMode reports whether the server runs with console logging and gin debug output.
func (c *appConfig) DevMode() bool {
	return c.devMode
}

// OTLPEndpoint returns the OTLP gRPC collector endpoint, empty when tracing is disabled.
func (c *appConfig) OTLPEndpoint() string {
	return c.otlpEndpoint
}

// DSN returns the Data Source Name for connecting to the PostgreSQL database.
func (c *appConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.pgHost,
		c.pgUser,
		c.pgPassword,
		c.pgDB,
		c.pgPort,
	)
}

// getenv reads an environment variable, falling back to a default when unset.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// New builds the configuration from environment variables.
func New() (Config, error) {
	cfg := &appConfig{
		host:          getenv("APP_HOST", "0.0.0.0"),
		port:          getenv("APP_PORT", "3000"),
		title:         getenv("APP_TITLE", "Mongo Contact App"),
		sessionSecret: os.Getenv("SESSION_SECRET"),
		partnersFile:  os.Getenv("PARTNERS_FILE"),
		logFile:       getenv("LOG_FILE", ".logs/app.log"),
		devMode:       os.Getenv("APP_ENV") != "production",
		otlpEndpoint:  os.Getenv("OTLP_ENDPOINT"),

		pgHost:     getenv("POSTGRES_HOST", "localhost"),
		pgPort:     getenv("POSTGRES_PORT", "5432"),
		pgDB:       os.Getenv("POSTGRES_DB"),
		pgUser:     os.Getenv("POSTGRES_USER"),
		pgPassword: os.Getenv("POSTGRES_PASSWORD"),
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

package database

import (
	"fmt"

	"bookkeeper/internal/config"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// NewConfig derives the database configuration from the application configuration.
func NewConfig(app *config.Config) (*Config, error) {
	cfg := &Config{
		Driver:     app.DBDriver,
		Host:       app.DBHost,
		Port:       app.DBPort,
		User:       app.DBUser,
		Password:   app.DBPassword,
		DBName:     app.DBName,
		SSLMode:    app.DBSSLMode,
		SQLitePath: app.SQLitePath,
	}
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use postgres or sqlite)", cfg.Driver)
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrationURL returns the postgres:// URL golang-migrate expects.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

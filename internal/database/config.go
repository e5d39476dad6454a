package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/lawnchairsociety/mazegen/internal/config"
)

// Config holds database connection configuration.
type Config struct {
	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string

	// SQLite configuration
	SQLitePath string

	// PostgreSQL configuration
	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config with sensible defaults for SQLite.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
	}
}

// DefaultPostgresConfig returns PostgresConfig with recommended pool settings.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DSN returns the lib/pq key=value connection string. Values are single
// quoted so spaces and quotes in credentials survive parsing.
func (p PostgresConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		dsnQuote(p.Host), p.Port, dsnQuote(p.Database), dsnQuote(p.SSLMode))
	if p.User != "" {
		dsn += " user=" + dsnQuote(p.User)
	}
	if p.Password != "" {
		dsn += " password=" + dsnQuote(p.Password)
	}
	return dsn
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func dsnQuote(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// FromSettings converts the database section of the service config.
func FromSettings(s config.DatabaseConfig) Config {
	cfg := Config{
		Driver:     s.Driver,
		SQLitePath: s.SQLitePath,
		Postgres:   DefaultPostgresConfig(),
	}
	if s.Host != "" {
		cfg.Postgres.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Postgres.Port = s.Port
	}
	if s.SSLMode != "" {
		cfg.Postgres.SSLMode = s.SSLMode
	}
	cfg.Postgres.User = s.User
	cfg.Postgres.Password = s.Password
	cfg.Postgres.Database = s.Name
	return cfg
}

// OpenFromSettings opens the history store described by s. It returns a nil
// Database when s.Driver is empty, which disables history.
func OpenFromSettings(s config.DatabaseConfig) (*Database, error) {
	if s.Driver == "" {
		return nil, nil
	}
	return OpenWithConfig(FromSettings(s))
}

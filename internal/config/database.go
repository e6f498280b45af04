package config

import (
	"database/sql"
	"encoding/json"
	"fmt"

	// Register SQL drivers.
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/udovin/gosql"

	"github.com/udovin/board/internal/db"
)

type DatabaseDriver string

const (
	SQLiteDriver   DatabaseDriver = "sqlite"
	PostgresDriver DatabaseDriver = "postgres"
)

type DatabaseOptions interface {
	Driver() DatabaseDriver
}

// SQLiteOptions stores SQLite connection options.
type SQLiteOptions struct {
	Path string `json:"path"`
}

func (o SQLiteOptions) Driver() DatabaseDriver {
	return SQLiteDriver
}

// PostgresOptions stores Postgres connection options.
type PostgresOptions struct {
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	SSLMode  string `json:"sslmode,omitempty"`
}

func (o PostgresOptions) Driver() DatabaseDriver {
	return PostgresDriver
}

// DSN returns connection string for pgx driver.
func (o PostgresOptions) DSN() string {
	port := o.Port
	if port == 0 {
		port = 5432
	}
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		o.Host, port, o.User, o.Password, o.Name, sslMode,
	)
}

// DB stores configuration for database connection.
type DB struct {
	Options DatabaseOptions `json:"options"`
}

func (c DB) MarshalJSON() ([]byte, error) {
	if c.Options == nil {
		return []byte("null"), nil
	}
	cfg := struct {
		Driver  DatabaseDriver  `json:"driver"`
		Options DatabaseOptions `json:"options"`
	}{
		Driver:  c.Options.Driver(),
		Options: c.Options,
	}
	return json.Marshal(cfg)
}

func (c *DB) UnmarshalJSON(bytes []byte) error {
	if string(bytes) == "null" {
		c.Options = nil
		return nil
	}
	var cfg struct {
		Driver  DatabaseDriver  `json:"driver"`
		Options json.RawMessage `json:"options"`
	}
	if err := json.Unmarshal(bytes, &cfg); err != nil {
		return err
	}
	switch cfg.Driver {
	case SQLiteDriver:
		var options SQLiteOptions
		if err := json.Unmarshal(cfg.Options, &options); err != nil {
			return err
		}
		c.Options = options
	case PostgresDriver:
		var options PostgresOptions
		if err := json.Unmarshal(cfg.Options, &options); err != nil {
			return err
		}
		c.Options = options
	default:
		return fmt.Errorf("driver %q is not supported", cfg.Driver)
	}
	return nil
}

// Create creates database connection using current configuration.
func (c DB) Create() (*db.DB, error) {
	switch o := c.Options.(type) {
	case SQLiteOptions:
		conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", o.Path))
		if err != nil {
			return nil, err
		}
		// This can increase writes performance.
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = conn.Close()
			return nil, err
		}
		conn.SetMaxOpenConns(1)
		return db.NewDB(&gosql.DB{
			DB:      conn,
			RO:      conn,
			Builder: gosql.NewBuilder(gosql.SQLiteDialect),
		}), nil
	case PostgresOptions:
		conn, err := sql.Open("pgx", o.DSN())
		if err != nil {
			return nil, err
		}
		return db.NewDB(&gosql.DB{
			DB:      conn,
			RO:      conn,
			Builder: gosql.NewBuilder(gosql.PostgresDialect),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database config type: %T", c.Options)
	}
}

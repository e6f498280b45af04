package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/udovin/gosql"
)

// Migration represents database migration.
type Migration interface {
	// Apply should apply database migration.
	Apply(ctx context.Context, conn *DB) error
	// Unapply should unapply database migration.
	Unapply(ctx context.Context, conn *DB) error
}

// NamedMigration represents migration with name.
type NamedMigration struct {
	Name      string
	Migration Migration
}

// MigrationGroup represents ordered group of migrations.
type MigrationGroup struct {
	migrations map[string]Migration
}

// NewMigrationGroup returns empty migration group.
func NewMigrationGroup() *MigrationGroup {
	return &MigrationGroup{migrations: map[string]Migration{}}
}

// AddMigration registers new migration to group.
func (g *MigrationGroup) AddMigration(name string, m Migration) {
	if _, ok := g.migrations[name]; ok {
		panic(fmt.Errorf("migration %q already exists", name))
	}
	g.migrations[name] = m
}

// GetMigrations returns migrations ordered by name.
func (g *MigrationGroup) GetMigrations() []NamedMigration {
	var names []string
	for name := range g.migrations {
		names = append(names, name)
	}
	sort.Strings(names)
	var migrations []NamedMigration
	for _, name := range names {
		migrations = append(migrations, NamedMigration{
			Name:      name,
			Migration: g.migrations[name],
		})
	}
	return migrations
}

// StatementMigration applies list of SQL statements per dialect.
type StatementMigration struct {
	ApplySQL   map[gosql.Dialect][]string
	UnapplySQL map[gosql.Dialect][]string
}

func (m StatementMigration) Apply(ctx context.Context, conn *DB) error {
	return execStatements(ctx, conn, m.ApplySQL[conn.Dialect()])
}

func (m StatementMigration) Unapply(ctx context.Context, conn *DB) error {
	return execStatements(ctx, conn, m.UnapplySQL[conn.Dialect()])
}

func execStatements(ctx context.Context, conn *DB, statements []string) error {
	if len(statements) == 0 {
		return fmt.Errorf("dialect %s is not supported", dialectName(conn.Dialect()))
	}
	runner := GetRunner(ctx, conn)
	for _, statement := range statements {
		if _, err := runner.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

type migrateOptions struct {
	zero bool
}

// MigrateOption represents option for ApplyMigrations.
type MigrateOption func(*migrateOptions)

// WithZeroMigration unapplies all applied migrations.
func WithZeroMigration(o *migrateOptions) {
	o.zero = true
}

const migrationTable = "board_migration"

// ApplyMigrations applies (or unapplies) migrations of group.
//
// Applied migrations are remembered in separate table, so repeated
// calls apply only new migrations. Every migration runs in its own
// transaction together with its bookkeeping row.
func ApplyMigrations(
	ctx context.Context, conn *DB, g *MigrationGroup, options ...MigrateOption,
) error {
	var opts migrateOptions
	for _, option := range options {
		option(&opts)
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q ("name" VARCHAR(255) NOT NULL PRIMARY KEY, "time" BIGINT NOT NULL)`,
		migrationTable,
	)); err != nil {
		return err
	}
	applied, err := getAppliedMigrations(ctx, conn)
	if err != nil {
		return err
	}
	migrations := g.GetMigrations()
	if opts.zero {
		for i := len(migrations) - 1; i >= 0; i-- {
			migration := migrations[i]
			if !applied[migration.Name] {
				continue
			}
			if err := gosql.WrapTx(ctx, conn, func(tx *sql.Tx) error {
				ctx := WithTx(ctx, tx)
				if err := migration.Migration.Unapply(ctx, conn); err != nil {
					return fmt.Errorf("cannot unapply %q: %w", migration.Name, err)
				}
				query := conn.Delete(migrationTable)
				query.SetWhere(gosql.Column("name").Equal(migration.Name))
				rawQuery, values := query.Build()
				_, err := tx.ExecContext(ctx, rawQuery, values...)
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	}
	for _, migration := range migrations {
		if applied[migration.Name] {
			continue
		}
		if err := gosql.WrapTx(ctx, conn, func(tx *sql.Tx) error {
			ctx := WithTx(ctx, tx)
			if err := migration.Migration.Apply(ctx, conn); err != nil {
				return fmt.Errorf("cannot apply %q: %w", migration.Name, err)
			}
			query := conn.Insert(migrationTable)
			query.SetNames("name", "time")
			query.SetValues(migration.Name, time.Now().Unix())
			rawQuery, values := query.Build()
			_, err := tx.ExecContext(ctx, rawQuery, values...)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

func getAppliedMigrations(ctx context.Context, conn *DB) (map[string]bool, error) {
	query := conn.Select(migrationTable)
	query.SetNames("name")
	rawQuery, values := query.Build()
	rows, err := conn.QueryContext(ctx, rawQuery, values...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	applied := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

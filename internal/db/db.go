// Package db provides database connection wrapper and schema migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/udovin/gosql"
)

type dbKey struct{}

// WithRunner returns context that forces queries to use specified runner.
func WithRunner(ctx context.Context, db gosql.Runner) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// GetRunner returns runner from context or db when context has no runner.
func GetRunner(ctx context.Context, db gosql.Runner) gosql.Runner {
	if r, ok := ctx.Value(dbKey{}).(gosql.Runner); ok {
		return r
	}
	return db
}

// WithTx returns context that forces queries to use transaction.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return WithRunner(ctx, tx)
}

// DB represents database connection with query builder.
type DB struct {
	*gosql.DB
}

// NewDB wraps gosql connection.
func NewDB(conn *gosql.DB) *DB {
	return &DB{DB: conn}
}

func dialectName(d gosql.Dialect) string {
	switch d {
	case gosql.SQLiteDialect:
		return "sqlite"
	case gosql.PostgresDialect:
		return "postgres"
	default:
		return fmt.Sprintf("Dialect(%d)", d)
	}
}

// InsertRow inserts row and returns its generated id.
func (d *DB) InsertRow(
	ctx context.Context, table string, cols []string, vals []any, id string,
) (int64, error) {
	builder := d.Insert(table)
	builder.SetNames(cols...)
	builder.SetValues(vals...)
	runner := GetRunner(ctx, d)
	if b, ok := builder.(*gosql.PostgresInsertQuery); ok {
		b.SetReturning(id)
		query, values := b.Build()
		var rowID int64
		if err := runner.QueryRowContext(ctx, query, values...).Scan(&rowID); err != nil {
			return 0, err
		}
		return rowID, nil
	}
	query, values := builder.Build()
	res, err := runner.ExecContext(ctx, query, values...)
	if err != nil {
		return 0, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if count != 1 {
		return 0, fmt.Errorf("invalid amount of affected rows: %d", count)
	}
	return res.LastInsertId()
}

// UpdateRow updates columns of row with specified id.
//
// Returns sql.ErrNoRows when row does not exist.
func (d *DB) UpdateRow(
	ctx context.Context, table string, cols []string, vals []any,
	id string, rowID int64,
) error {
	builder := d.Update(table)
	builder.SetNames(cols...)
	builder.SetValues(vals...)
	builder.SetWhere(gosql.Column(id).Equal(rowID))
	query, values := builder.Build()
	res, err := GetRunner(ctx, d).ExecContext(ctx, query, values...)
	if err != nil {
		return err
	}
	return checkAffected(res, "updated")
}

// DeleteRow deletes row with specified id.
//
// Returns sql.ErrNoRows when row does not exist.
func (d *DB) DeleteRow(
	ctx context.Context, table string, id string, rowID int64,
) error {
	builder := d.Delete(table)
	builder.SetWhere(gosql.Column(id).Equal(rowID))
	query, values := builder.Build()
	res, err := GetRunner(ctx, d).ExecContext(ctx, query, values...)
	if err != nil {
		return err
	}
	return checkAffected(res, "deleted")
}

func checkAffected(res sql.Result, action string) error {
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count < 1 {
		return sql.ErrNoRows
	} else if count > 1 {
		return fmt.Errorf("%s %d objects", action, count)
	}
	return nil
}

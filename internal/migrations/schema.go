// Package migrations contains database schema of board.
package migrations

import (
	"github.com/udovin/gosql"

	"github.com/udovin/board/internal/db"
)

// Schema contains migrations of board schema.
var Schema = db.NewMigrationGroup()

func init() {
	Schema.AddMigration("001_create_post", db.StatementMigration{
		ApplySQL: map[gosql.Dialect][]string{
			gosql.SQLiteDialect: {
				`CREATE TABLE "board_post" (` +
					`"id" INTEGER PRIMARY KEY AUTOINCREMENT, ` +
					`"title" TEXT NOT NULL, ` +
					`"content" TEXT NOT NULL)`,
			},
			gosql.PostgresDialect: {
				`CREATE TABLE "board_post" (` +
					`"id" BIGSERIAL PRIMARY KEY, ` +
					`"title" TEXT NOT NULL, ` +
					`"content" TEXT NOT NULL)`,
			},
		},
		UnapplySQL: map[gosql.Dialect][]string{
			gosql.SQLiteDialect:   {`DROP TABLE "board_post"`},
			gosql.PostgresDialect: {`DROP TABLE "board_post"`},
		},
	})
}

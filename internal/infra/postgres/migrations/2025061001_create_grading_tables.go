package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_grading_tables.sql
var createGradingTablesSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createGradingTablesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS point_transactions;
				DROP TABLE IF EXISTS user_points;
				DROP TABLE IF EXISTS quiz_completions;
				DROP TABLE IF EXISTS quizzes`)
			return err
		},
	)
}

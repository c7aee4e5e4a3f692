package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const tableSchemaMigrations = "schema_migrations"

// Migrate применяет ещё не применённые файлы migrations/*.sql по порядку имён,
// каждый в своей транзакции.
func Migrate(ctx context.Context, pool Pool) error {
	_, err := pool.Exec(ctx, `
		create table if not exists schema_migrations (
			version    text primary key,
			applied_at timestamptz not null default now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, path := range files {
		version := path[len("migrations/"):]

		applied, err := isApplied(ctx, pool, version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		body, err := migrationsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", version, err)
		}

		err = pool.BeginFunc(ctx, func(tx Pool) error {
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("apply migration %s: %w", version, err)
			}

			track := builder().Insert(tableSchemaMigrations).Columns("version").Values(version)
			if _, err := tx.Execx(ctx, track); err != nil {
				return fmt.Errorf("track migration %s: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Infof(ctx, "applied migration %s", version)
	}

	return nil
}

func isApplied(ctx context.Context, pool Pool, version string) (bool, error) {
	query := builder().Select("version").
		From(tableSchemaMigrations).
		Where(sq.Eq{"version": version})

	var v string
	err := pool.QueryRowx(ctx, query).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}

	return true, nil
}

package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/keviiweb/VBS-sub000/pkg/dbmetrics"
	"github.com/keviiweb/VBS-sub000/pkg/psqlbuilder"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

const migrationsTable = "schema_migrations"

// ErrMigration возвращается при ошибке применения миграций
var ErrMigration = errors.New("migrations: failed to apply migrations")

// TransactionManager выполняет функцию в транзакции, передавая её через context
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Runner применяет встроенные SQL-миграции по порядку имён файлов
// Применённые миграции отмечаются в таблице schema_migrations
type Runner struct {
	db        dbmetrics.DBExecutor
	txManager TransactionManager
	logger    Logger
	files     fs.FS
}

// NewRunner создает Runner для встроенных миграций
func NewRunner(db dbmetrics.DBExecutor, txManager TransactionManager, logger Logger) *Runner {
	sub, _ := fs.Sub(migrationsFS, "sql")
	return &Runner{db: db, txManager: txManager, logger: logger, files: sub}
}

// Run применяет все ещё не применённые миграции и возвращает их имена
// Каждая миграция выполняется в отдельной транзакции вместе с отметкой о применении
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if _, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return nil, fmt.Errorf("%w: create %s table: %w", ErrMigration, migrationsTable, err)
	}

	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := r.Pending(applied)
	if err != nil {
		return nil, err
	}

	done := make([]string, 0, len(pending))
	for _, filename := range pending {
		content, err := fs.ReadFile(r.files, filename)
		if err != nil {
			return done, fmt.Errorf("%w: read %s: %w", ErrMigration, filename, err)
		}

		err = r.txManager.Do(ctx, func(ctx context.Context) error {
			executor := dbmetrics.GetExecutor(ctx, r.db)

			if _, err := executor.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("execute: %w", err)
			}

			query, args, err := psqlbuilder.Insert(migrationsTable).
				Columns("filename").
				Values(filename).
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert query: %w", err)
			}
			if _, err := executor.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("record: %w", err)
			}
			return nil
		})
		if err != nil {
			r.logger.Error("Run: migration %s failed: %v", filename, err)
			return done, fmt.Errorf("%w: %s: %w", ErrMigration, filename, err)
		}

		r.logger.Info("Run: applied migration %s", filename)
		done = append(done, filename)
	}

	return done, nil
}

// Pending возвращает отсортированный список миграций, которых нет в applied
func (r *Runner) Pending(applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: read migrations directory: %w", ErrMigration, err)
	}

	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") || applied[name] {
			continue
		}
		pending = append(pending, name)
	}
	sort.Strings(pending)

	return pending, nil
}

func (r *Runner) applied(ctx context.Context) (map[string]bool, error) {
	query, args, err := psqlbuilder.Select("filename").From(migrationsTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select query: %w", ErrMigration, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query applied migrations: %w", ErrMigration, err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("%w: scan filename: %w", ErrMigration, err)
		}
		applied[filename] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrMigration, err)
	}

	return applied, nil
}

// Package postgres - вспомогательные функции для работы с БД.
// queries.go содержит общие утилиты: интерфейсы исполнителя запросов,
// единицу работы в транзакции и распознавание нарушений ограничений.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// codeUniqueViolation - SQLSTATE нарушения UNIQUE.
const codeUniqueViolation = "23505"

// DBTX - то, на чём выполняются запросы: пул или открытая транзакция.
// Репозитории работают через него, поэтому один и тот же метод
// можно вызвать и вне транзакции, и внутри единицы работы.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner умеет открывать транзакции.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Pool - пул соединений (*pgxpool.Pool в проде, pgxmock в тестах).
type Pool interface {
	DBTX
	TxBeginner
}

// WithTx выполняет fn в одной транзакции БД.
// Если fn вернула ошибку - транзакция откатится, иначе фиксируется.
// Частично применённых изменений не бывает.
func WithTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	// После Commit откат вернёт ErrTxClosed - это нормально
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// IsUniqueViolation сообщает, что err - нарушение UNIQUE.
// Если constraint не пустой, имя ограничения тоже должно совпасть.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// ExecMigrationSQL выполняет один SQL-запрос миграции в транзакции.
// Если запрос упадёт - транзакция откатится автоматически.
// Возвращает false, если миграция уже была применена раньше.
//
// Параметры:
//   - ctx: контекст
//   - db: пул соединений
//   - version: номер миграции (для записи в schema_migrations)
//   - sql: SQL-код миграции
func ExecMigrationSQL(ctx context.Context, db TxBeginner, version int, sql string) (bool, error) {
	applied := false
	err := WithTx(ctx, db, func(tx pgx.Tx) error {
		// Проверяем, не была ли эта миграция уже применена
		var exists bool
		err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("ошибка проверки миграции: %w", err)
		}
		if exists {
			return nil
		}

		if _, err := tx.Exec(ctx, sql); err != nil {
			return fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
		}

		if _, err := tx.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)", version,
		); err != nil {
			return fmt.Errorf("ошибка записи версии миграции: %w", err)
		}
		applied = true
		return nil
	})
	return applied, err
}

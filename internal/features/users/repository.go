// Package users - repository.go отвечает за все операции с таблицей users в БД.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
)

const userColumns = `user_id, first_name, last_name, username, language, credit, created_at`

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx возвращает репозиторий, работающий внутри транзакции tx.
func (r *Repository) WithTx(tx postgres.DBTX) *Repository {
	return &Repository{db: tx}
}

// Create добавляет пользователя с нулевым кредитом.
// На конфликте по user_id обновляет только имя и username. Язык и кредит
// остаются из БД и возвращаются в u.
func (r *Repository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (user_id, first_name, last_name, username, language, credit)
		VALUES ($1, $2, $3, $4, $5, 0)
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    username = EXCLUDED.username
		RETURNING language, credit, created_at
	`
	err := r.db.QueryRow(ctx, query,
		u.UserID, u.FirstName, u.LastName, u.Username, u.Language,
	).Scan(&u.Language, &u.credit, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания/обновления пользователя: %w", err)
	}
	return nil
}

// GetByID: если не найден - common.ErrUserNotFound.
func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.getOne(ctx, query, userID)
}

// GetForUpdate читает пользователя с блокировкой строки (FOR UPDATE).
// Только внутри транзакции: пока она открыта, никто другой не пересчитает кредит.
func (r *Repository) GetForUpdate(ctx context.Context, userID int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 FOR UPDATE`
	return r.getOne(ctx, query, userID)
}

func (r *Repository) getOne(ctx context.Context, query string, userID int64) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user_id=%d: %w", userID, common.ErrUserNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (user_id=%d): %w", userID, err)
	}
	return u, nil
}

// SaveCredit записывает в БД кредит, посчитанный RecalculateCredit.
// Это единственное место, где меняется колонка credit.
func (r *Repository) SaveCredit(ctx context.Context, u *User) error {
	query := `UPDATE users SET credit = $2 WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, query, u.UserID, u.credit)
	if err != nil {
		return fmt.Errorf("ошибка сохранения кредита: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user_id=%d: %w", u.UserID, common.ErrUserNotFound)
	}
	return nil
}

// UpdateLanguage меняет язык интерфейса пользователя.
func (r *Repository) UpdateLanguage(ctx context.Context, userID int64, language string) error {
	query := `UPDATE users SET language = $2 WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID, language); err != nil {
		return fmt.Errorf("ошибка обновления языка: %w", err)
	}
	return nil
}

// List возвращает страницу пользователей по возрастанию ID.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY user_id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса пользователей: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.UserID, &u.FirstName, &u.LastName, &u.Username,
		&u.Language, &u.credit, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

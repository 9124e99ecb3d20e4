// Package admins - repository.go работает с таблицей admins.
package admins

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
)

const adminColumns = `user_id, edit_products, receive_orders, create_transactions, display_on_help, is_owner, live_mode`

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

// Get: если пользователь не админ - common.ErrAdminNotFound.
func (r *Repository) Get(ctx context.Context, userID int64) (*Admin, error) {
	a, err := scanAdmin(r.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user_id=%d: %w", userID, common.ErrAdminNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения админа: %w", err)
	}
	return a, nil
}

// Upsert создаёт админа или перезаписывает все его флаги.
func (r *Repository) Upsert(ctx context.Context, a *Admin) error {
	query := `
		INSERT INTO admins (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET edit_products = EXCLUDED.edit_products,
		    receive_orders = EXCLUDED.receive_orders,
		    create_transactions = EXCLUDED.create_transactions,
		    display_on_help = EXCLUDED.display_on_help,
		    is_owner = EXCLUDED.is_owner,
		    live_mode = EXCLUDED.live_mode
	`
	_, err := r.db.Exec(ctx, query,
		a.UserID, a.EditProducts, a.ReceiveOrders, a.CreateTransactions,
		a.DisplayOnHelp, a.IsOwner, a.LiveMode,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения админа: %w", err)
	}
	return nil
}

// ListDisplayedOnHelp - админы, которых показываем в справке.
func (r *Repository) ListDisplayedOnHelp(ctx context.Context) ([]*Admin, error) {
	return r.query(ctx, `SELECT `+adminColumns+` FROM admins WHERE display_on_help = TRUE ORDER BY user_id`)
}

// ListReceivingOrders - админы, которым приходят новые заказы.
func (r *Repository) ListReceivingOrders(ctx context.Context) ([]*Admin, error) {
	return r.query(ctx, `SELECT `+adminColumns+` FROM admins WHERE receive_orders = TRUE ORDER BY user_id`)
}

// SetLiveMode включает или выключает живой режим.
func (r *Repository) SetLiveMode(ctx context.Context, userID int64, on bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE admins SET live_mode = $2 WHERE user_id = $1`, userID, on)
	if err != nil {
		return fmt.Errorf("ошибка переключения режима: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user_id=%d: %w", userID, common.ErrAdminNotFound)
	}
	return nil
}

func (r *Repository) query(ctx context.Context, query string) ([]*Admin, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса админов: %w", err)
	}
	defer rows.Close()

	var out []*Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования админа: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	err := row.Scan(
		&a.UserID, &a.EditProducts, &a.ReceiveOrders, &a.CreateTransactions,
		&a.DisplayOnHelp, &a.IsOwner, &a.LiveMode,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

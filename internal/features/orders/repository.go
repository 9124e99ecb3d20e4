// Package orders - repository.go работает с таблицами orders и orderitems.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
	"serotonyl.ru/shop-bot/internal/features/catalog"
)

const orderColumns = `order_id, user_id, creation_date, delivery_date, refund_date, refund_reason, COALESCE(notes, '')`

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

// Insert создаёт заказ и заполняет OrderID и CreationDate.
func (r *Repository) Insert(ctx context.Context, o *Order) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO orders (user_id, notes) VALUES ($1, $2) RETURNING order_id, creation_date`,
		o.UserID, o.Notes,
	).Scan(&o.OrderID, &o.CreationDate)
	if err != nil {
		return fmt.Errorf("ошибка создания заказа: %w", err)
	}
	return nil
}

// InsertItem добавляет в заказ одну единицу товара.
func (r *Repository) InsertItem(ctx context.Context, it *OrderItem) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO orderitems (order_id, product_id) VALUES ($1, $2) RETURNING item_id`,
		it.OrderID, it.ProductID,
	).Scan(&it.ItemID)
	if err != nil {
		return fmt.Errorf("ошибка добавления позиции: %w", err)
	}
	return nil
}

// Get возвращает заказ без позиций.
func (r *Repository) Get(ctx context.Context, id int64) (*Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id)
}

// GetForUpdate - Get с блокировкой строки заказа.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1 FOR UPDATE`, id)
}

func (r *Repository) getOne(ctx context.Context, query string, id int64) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order_id=%d: %w", id, common.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения заказа (id=%d): %w", id, err)
	}
	return o, nil
}

// ListByUser - заказы пользователя, новые сверху.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_id DESC`,
		userID,
	)
}

// ListPending - необработанные заказы, старые сверху (очередь для админов).
func (r *Repository) ListPending(ctx context.Context) ([]*Order, error) {
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE delivery_date IS NULL AND refund_date IS NULL
		 ORDER BY order_id`,
	)
}

// SetDelivered закрывает заказ доставкой. Закрытый заказ не трогается.
func (r *Repository) SetDelivered(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET delivery_date = $2
		WHERE order_id = $1 AND delivery_date IS NULL AND refund_date IS NULL
	`, id, at)
	if err != nil {
		return fmt.Errorf("ошибка закрытия заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order_id=%d: %w", id, common.ErrOrderFinalized)
	}
	return nil
}

// SetRefunded закрывает заказ возвратом.
func (r *Repository) SetRefunded(ctx context.Context, id int64, at time.Time, reason string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET refund_date = $2, refund_reason = $3
		WHERE order_id = $1 AND delivery_date IS NULL AND refund_date IS NULL
	`, id, at, reason)
	if err != nil {
		return fmt.Errorf("ошибка возврата заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order_id=%d: %w", id, common.ErrOrderFinalized)
	}
	return nil
}

// ListItems возвращает позиции заказа вместе с товарами (удалённые тоже).
func (r *Repository) ListItems(ctx context.Context, orderID int64) ([]*OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT oi.item_id, oi.order_id,
		       p.id, p.name, p.description, p.price, p.deleted, p.category_id, p.sub_category_id
		FROM orderitems oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.item_id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса позиций: %w", err)
	}
	defer rows.Close()

	var out []*OrderItem
	for rows.Next() {
		var it OrderItem
		var p catalog.Product
		if err := rows.Scan(
			&it.ItemID, &it.OrderID,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Deleted, &p.CategoryID, &p.SubCategoryID,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования позиции: %w", err)
		}
		it.ProductID = p.ID
		it.Product = &p
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса заказов: %w", err)
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заказа: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.OrderID, &o.UserID, &o.CreationDate, &o.DeliveryDate,
		&o.RefundDate, &o.RefundReason, &o.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

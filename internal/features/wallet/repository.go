// Package wallet - repository.go работает с таблицами transactions и btc_transactions.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
)

// Имя UNIQUE-ограничения на (provider, provider_charge_id) из миграции.
const chargeUnique = "transactions_provider_provider_charge_id_key"

const transactionColumns = `transaction_id, user_id, value, refunded, COALESCE(notes, ''),
	provider, telegram_charge_id, provider_charge_id,
	payment_name, payment_phone, payment_email, order_id`

const btcColumns = `transaction_id, user_id, price, value, currency, status, timestamp, address, txid`

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

// Insert добавляет транзакцию и заполняет t.TransactionID.
// Кредит пользователя не трогает - это делает Service.
// Повтор пары (provider, provider_charge_id) - common.ErrDuplicateCharge.
func (r *Repository) Insert(ctx context.Context, t *Transaction) error {
	query := `
		INSERT INTO transactions (
			user_id, value, refunded, notes,
			provider, telegram_charge_id, provider_charge_id,
			payment_name, payment_phone, payment_email, order_id
		)
		VALUES ($1, $2, FALSE, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING transaction_id
	`
	err := r.db.QueryRow(ctx, query,
		t.UserID, t.Value, t.Notes,
		t.Provider, t.TelegramChargeID, t.ProviderChargeID,
		t.PaymentName, t.PaymentPhone, t.PaymentEmail, t.OrderID,
	).Scan(&t.TransactionID)
	if err != nil {
		if postgres.IsUniqueViolation(err, chargeUnique) {
			return fmt.Errorf("provider_charge_id=%s: %w", deref(t.ProviderChargeID), common.ErrDuplicateCharge)
		}
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	t.Refunded = false
	return nil
}

// Get возвращает транзакцию по ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1`, id)
}

// GetForUpdate - Get с блокировкой строки; только внутри транзакции.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*Transaction, error) {
	return r.getOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1 FOR UPDATE`, id)
}

// GetByOrder возвращает транзакцию, которой оплачен заказ.
func (r *Repository) GetByOrder(ctx context.Context, orderID int64) (*Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE order_id = $1`, orderID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order_id=%d: %w", orderID, common.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения транзакции заказа: %w", err)
	}
	return t, nil
}

func (r *Repository) getOne(ctx context.Context, query string, id int64) (*Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction_id=%d: %w", id, common.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения транзакции (id=%d): %w", id, err)
	}
	return t, nil
}

// SetRefunded ставит флаг возврата. Строка не удаляется.
func (r *Repository) SetRefunded(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE transactions SET refunded = TRUE WHERE transaction_id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка возврата транзакции: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction_id=%d: %w", id, common.ErrTransactionNotFound)
	}
	return nil
}

// ListByUser - вся история пользователя, новые сверху.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Transaction, error) {
	return r.query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY transaction_id DESC`,
		userID,
	)
}

// ListPage - страница всех транзакций для админки, новые сверху.
func (r *Repository) ListPage(ctx context.Context, limit, offset int) ([]*Transaction, error) {
	return r.query(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY transaction_id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]*Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса транзакций: %w", err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.TransactionID, &t.UserID, &t.Value, &t.Refunded, &t.Notes,
		&t.Provider, &t.TelegramChargeID, &t.ProviderChargeID,
		&t.PaymentName, &t.PaymentPhone, &t.PaymentEmail, &t.OrderID,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- BTC ---

// InsertBtc добавляет крипто-платёж и заполняет b.TransactionID.
func (r *Repository) InsertBtc(ctx context.Context, b *BtcTransaction) error {
	query := `
		INSERT INTO btc_transactions (user_id, price, value, currency, status, timestamp, address, txid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING transaction_id
	`
	err := r.db.QueryRow(ctx, query,
		b.UserID, b.Price, b.Value, b.Currency, b.Status, b.Timestamp, b.Address, b.TxID,
	).Scan(&b.TransactionID)
	if err != nil {
		return fmt.Errorf("ошибка записи btc-транзакции: %w", err)
	}
	return nil
}

// ListBtcByUser - крипто-платежи пользователя, новые сверху.
func (r *Repository) ListBtcByUser(ctx context.Context, userID int64) ([]*BtcTransaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+btcColumns+` FROM btc_transactions WHERE user_id = $1 ORDER BY transaction_id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса btc-транзакций: %w", err)
	}
	defer rows.Close()

	var out []*BtcTransaction
	for rows.Next() {
		var b BtcTransaction
		if err := rows.Scan(
			&b.TransactionID, &b.UserID, &b.Price, &b.Value, &b.Currency,
			&b.Status, &b.Timestamp, &b.Address, &b.TxID,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования btc-транзакции: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// UpdateBtcStatus меняет статус платежа и, если пришёл, хэш транзакции в сети.
func (r *Repository) UpdateBtcStatus(ctx context.Context, id int64, status int, txid *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE btc_transactions SET status = $2, txid = COALESCE($3, txid) WHERE transaction_id = $1`,
		id, status, txid,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления btc-транзакции: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("btc transaction_id=%d: %w", id, common.ErrTransactionNotFound)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

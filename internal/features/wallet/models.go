// Package wallet ведёт кошелёк пользователя: историю транзакций и
// пересчёт кредита по ней. Кредит меняется только вместе с историей,
// в одной транзакции БД.
// models.go описывает структуры данных таблиц transactions и btc_transactions.
package wallet

// Transaction - запись в истории кошелька. Никогда не удаляется:
// возврат ставит Refunded, и запись перестаёт влиять на кредит.
type Transaction struct {
	TransactionID int64  `db:"transaction_id"`
	UserID        int64  `db:"user_id" validate:"required"`
	Value         int64  `db:"value"` // минимальные единицы, может быть отрицательным
	Refunded      bool   `db:"refunded"`
	Notes         string `db:"notes"`

	// Данные платёжного провайдера (nil у ручных начислений и покупок)
	Provider         *string `db:"provider"`
	TelegramChargeID *string `db:"telegram_charge_id"`
	ProviderChargeID *string `db:"provider_charge_id"`
	PaymentName      *string `db:"payment_name"`
	PaymentPhone     *string `db:"payment_phone" validate:"omitempty,numeric"`
	PaymentEmail     *string `db:"payment_email" validate:"omitempty,email"`

	// Заказ, который оплачен этой транзакцией
	OrderID *int64 `db:"order_id"`
}

// CreditValue - вклад транзакции в кредит.
func (t *Transaction) CreditValue() int64 { return t.Value }

// IsRefunded - транзакция возвращена и в кредит не входит.
func (t *Transaction) IsRefunded() bool { return t.Refunded }

// BtcTransaction - платёж в криптовалюте. Живёт отдельно от истории
// кошелька и на кредит не влияет.
type BtcTransaction struct {
	TransactionID int64    `db:"transaction_id"`
	UserID        int64    `db:"user_id"`
	Price         *float64 `db:"price"` // сумма в валюте магазина
	Value         *float64 `db:"value"` // сумма в криптовалюте
	Currency      string   `db:"currency"`
	Status        int      `db:"status"`
	Timestamp     *int64   `db:"timestamp"` // unix-время
	Address       string   `db:"address"`
	TxID          *string  `db:"txid"`
}

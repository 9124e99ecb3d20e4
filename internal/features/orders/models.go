// Package orders - заказы покупателей: оформление с оплатой из кошелька,
// доставка и возврат.
// models.go описывает структуры данных таблиц orders и orderitems.
package orders

import (
	"time"

	"serotonyl.ru/shop-bot/internal/features/catalog"
	"serotonyl.ru/shop-bot/internal/features/users"
	"serotonyl.ru/shop-bot/internal/features/wallet"
)

// Status - состояние заказа, выводится из дат.
type Status int

const (
	StatusPending   Status = iota // ещё не обработан
	StatusDelivered               // доставлен (конечное)
	StatusRefunded                // возвращён (конечное)
)

// Order - заказ пользователя.
// Доставка и возврат взаимоисключающие: у закрытого заказа задана ровно одна из дат.
type Order struct {
	OrderID      int64      `db:"order_id"`
	UserID       int64      `db:"user_id"`
	CreationDate time.Time  `db:"creation_date"`
	DeliveryDate *time.Time `db:"delivery_date"`
	RefundDate   *time.Time `db:"refund_date"`
	RefundReason *string    `db:"refund_reason"`
	Notes        string     `db:"notes"`

	// Загружаются сервисом
	User        *users.User
	Items       []*OrderItem
	Transaction *wallet.Transaction // оплата заказа (value < 0)
}

// Status определяет состояние по датам.
func (o *Order) Status() Status {
	switch {
	case o.DeliveryDate != nil:
		return StatusDelivered
	case o.RefundDate != nil:
		return StatusRefunded
	default:
		return StatusPending
	}
}

// Final - заказ доставлен или возвращён, менять его нельзя.
func (o *Order) Final() bool {
	return o.Status() != StatusPending
}

// Total - сумма оплаты в минимальных единицах (0, если транзакция не загружена).
func (o *Order) Total() int64 {
	if o.Transaction == nil {
		return 0
	}
	return -o.Transaction.Value
}

// OrderItem - одна купленная единица товара. Несколько штук - несколько строк.
type OrderItem struct {
	ItemID    int64 `db:"item_id"`
	OrderID   int64 `db:"order_id"`
	ProductID int64 `db:"product_id"`

	Product *catalog.Product
}

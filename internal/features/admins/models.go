// Package admins - права администраторов магазина.
// Админ - пользователь бота с набором флагов; паролей нет.
package admins

// Admin - флаги возможностей админа.
type Admin struct {
	UserID             int64 `db:"user_id"`
	EditProducts       bool  `db:"edit_products"`
	ReceiveOrders      bool  `db:"receive_orders"`
	CreateTransactions bool  `db:"create_transactions"`
	DisplayOnHelp      bool  `db:"display_on_help"`
	IsOwner            bool  `db:"is_owner"`
	LiveMode           bool  `db:"live_mode"` // получать заказы в реальном времени
}

// Owner - админ со всеми правами (создаётся для владельца магазина).
func Owner(userID int64) *Admin {
	return &Admin{
		UserID:             userID,
		EditProducts:       true,
		ReceiveOrders:      true,
		CreateTransactions: true,
		DisplayOnHelp:      true,
		IsOwner:            true,
	}
}

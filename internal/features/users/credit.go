// Package users - credit.go: правило пересчёта кредита.
// Кредит пользователя - производное значение: сумма value по всем его
// транзакциям, у которых refunded = false. Пересчёт идемпотентен и не
// зависит от порядка записей.
package users

// CreditEntry - запись истории кошелька.
type CreditEntry interface {
	CreditValue() int64
	IsRefunded() bool
}

// SumCredit складывает value неотменённых записей.
func SumCredit[E CreditEntry](history []E) int64 {
	var total int64
	for _, e := range history {
		if e.IsRefunded() {
			continue
		}
		total += e.CreditValue()
	}
	return total
}

// RecalculateCredit пересчитывает кредит u по полной истории его транзакций
// и возвращает новое значение. Сохраняет в БД только Repository.SaveCredit,
// и только внутри той же транзакции, что меняла историю.
func RecalculateCredit[E CreditEntry](u *User, history []E) int64 {
	u.credit = SumCredit(history)
	return u.credit
}

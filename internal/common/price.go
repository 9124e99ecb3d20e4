// Package common - price.go: деньги магазина.
// Кредит и транзакции хранятся целыми числами в минимальных единицах валюты
// (копейках), цены товаров - дробными числами в основных единицах.
package common

import (
	"github.com/shopspring/decimal"
)

// Currency описывает валюту магазина.
type Currency struct {
	Symbol string // "₽", "€", ...
	Exp    int32  // знаков после запятой (2 для рубля)
}

// FromMinor переводит минимальные единицы в основные: 15050 → 150.50.
func (c Currency) FromMinor(v int64) decimal.Decimal {
	return decimal.New(v, -c.Exp)
}

// ToMinor переводит основные единицы в минимальные с округлением: 150.505 → 15051.
func (c Currency) ToMinor(d decimal.Decimal) int64 {
	return d.Shift(c.Exp).Round(0).IntPart()
}

// Format печатает сумму: "150.50 ₽".
func (c Currency) Format(d decimal.Decimal) string {
	s := d.StringFixed(c.Exp)
	if c.Symbol == "" {
		return s
	}
	return s + " " + c.Symbol
}

// FormatMinor - Format для значения в минимальных единицах (кредит, транзакции).
func (c Currency) FormatMinor(v int64) string {
	return c.Format(c.FromMinor(v))
}

// FormatPrice - Format для цены товара (float в основных единицах).
func (c Currency) FormatPrice(price float64) string {
	return c.Format(decimal.NewFromFloat(price))
}

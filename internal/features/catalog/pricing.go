// Package catalog - pricing.go: цена товара с учётом вариации.
package catalog

import (
	"github.com/shopspring/decimal"

	"serotonyl.ru/shop-bot/internal/common"
)

// EffectivePrice = цена товара + надбавка вариации.
// Отрицательный результат не проверяется, за надбавки отвечает админ.
// Товар без цены - common.ErrNotForSale.
func EffectivePrice(p *Product, v *Variation) (decimal.Decimal, error) {
	if p.Price == nil {
		return decimal.Zero, common.ErrNotForSale
	}
	return decimal.NewFromFloat(*p.Price).Add(decimal.NewFromFloat(v.PriceDiff)), nil
}

// Price - EffectivePrice для загруженной связи.
func (pv *ProductVariation) Price() (decimal.Decimal, error) {
	return EffectivePrice(pv.Product, pv.Variation)
}

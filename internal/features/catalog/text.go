// Package catalog - text.go: отображение сущностей каталога в HTML для Telegram.
package catalog

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/render"
)

// Style - вид карточки товара.
type Style string

const (
	StyleFull             Style = "full"              // полная карточка с описанием и ценой
	StyleShort            Style = "short"             // строка корзины: "2x Имя - цена"
	StyleProductVariation Style = "product_variation" // только имя (перед списком вариаций)
)

// Text возвращает карточку товара без картинки.
// cartQty - сколько штук в корзине (0 - не показывать).
// Неизвестный стиль - common.ErrInvalidStyle.
func (p *Product) Text(rc *render.Context, style Style, cartQty int) (string, error) {
	name := common.TelegramHTMLEscape(p.Name)

	switch style {
	case StyleShort:
		if p.Price == nil {
			return "", common.ErrNotForSale
		}
		total := decimal.NewFromFloat(*p.Price).Mul(decimal.NewFromInt(int64(cartQty)))
		return fmt.Sprintf("%dx %s - %s", cartQty, name, rc.Currency.Format(total)), nil

	case StyleProductVariation:
		return name, nil

	case StyleFull:
		cart := ""
		if cartQty > 0 {
			cart = rc.Text("in_cart_format_string", render.Params{"quantity": strconv.Itoa(cartQty)})
		}
		return rc.Text("product_format_string", render.Params{
			"name":        name,
			"description": common.TelegramHTMLEscape(p.Description),
			"price":       p.priceText(rc),
			"cart":        cart,
		}), nil
	}

	return "", fmt.Errorf("%w: %q", common.ErrInvalidStyle, style)
}

func (p *Product) priceText(rc *render.Context) string {
	if p.Price == nil {
		return rc.Text("text_not_for_sale", nil)
	}
	return rc.Currency.FormatPrice(*p.Price)
}

// Text - заголовок категории, suffix дописывается в скобках (например, число товаров).
func (c *Category) Text(suffix string) string {
	return headerText(c.Name, suffix)
}

// Text - заголовок подкатегории.
func (s *SubCategory) Text(suffix string) string {
	return headerText(s.Name, suffix)
}

func headerText(name, suffix string) string {
	name = common.TelegramHTMLEscape(name)
	if suffix != "" {
		return fmt.Sprintf("<b>%s(%s)</b>", name, common.TelegramHTMLEscape(suffix))
	}
	return fmt.Sprintf("<b>%s</b>", name)
}

// Text - вариация в админском списке: <code>XL-2.5</code>.
func (v *Variation) Text() string {
	return fmt.Sprintf("<code>%s-%s</code>",
		common.TelegramHTMLEscape(v.Name), decimal.NewFromFloat(v.PriceDiff).String())
}

// Text - карточка "товар + вариация" с итоговой ценой.
// Нужны загруженные Product и Variation.
func (pv *ProductVariation) Text(rc *render.Context) (string, error) {
	price, err := pv.Price()
	if err != nil {
		return "", err
	}
	return rc.Text("variation_format_string", render.Params{
		"name":        common.TelegramHTMLEscape(pv.Product.Name),
		"description": common.TelegramHTMLEscape(pv.Variation.Name),
		"price":       rc.Currency.Format(price),
		"cart":        "",
	}), nil
}

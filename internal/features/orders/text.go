package orders

import (
	"strconv"
	"strings"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/render"
)

// Text - карточка заказа.
// forUser: покупателю показывается короткая карточка со статусом,
// если в настройках не включён полный вид. Админ всегда видит полную.
func (o *Order) Text(rc *render.Context, forUser bool) string {
	var items strings.Builder
	for _, it := range o.Items {
		items.WriteString(it.Text(rc))
		items.WriteString("\n")
	}

	emoji, status := o.statusText(rc)
	value := rc.Currency.FormatMinor(o.Total())
	notes := common.TelegramHTMLEscape(o.Notes)

	var text string
	if forUser && !rc.FullOrderInfo {
		text = rc.Text("user_order_format_string", render.Params{
			"status_emoji": emoji,
			"status_text":  status,
			"items":        items.String(),
			"notes":        notes,
			"value":        value,
		})
	} else {
		user := ""
		if o.User != nil {
			user = o.User.Mention()
		}
		text = emoji + " " +
			rc.Text("order_number", render.Params{"id": strconv.FormatInt(o.OrderID, 10)}) + "\n" +
			rc.Text("order_format_string", render.Params{
				"user":  user,
				"date":  common.FormatDateTime(o.CreationDate, rc.Location),
				"items": items.String(),
				"notes": notes,
				"value": value,
			})
	}

	if o.RefundDate != nil {
		reason := ""
		if o.RefundReason != nil {
			reason = common.TelegramHTMLEscape(*o.RefundReason)
		}
		text += rc.Text("refund_reason", render.Params{"reason": reason})
	}
	return text
}

func (o *Order) statusText(rc *render.Context) (emoji, text string) {
	switch o.Status() {
	case StatusDelivered:
		return rc.Text("emoji_completed", nil), rc.Text("text_completed", nil)
	case StatusRefunded:
		return rc.Text("emoji_refunded", nil), rc.Text("text_refunded", nil)
	default:
		return rc.Text("emoji_not_processed", nil), rc.Text("text_not_processed", nil)
	}
}

// Text - строка позиции: "Имя - цена".
func (it *OrderItem) Text(rc *render.Context) string {
	if it.Product == nil {
		return "#" + strconv.FormatInt(it.ProductID, 10)
	}
	price := rc.Text("text_not_for_sale", nil)
	if it.Product.Price != nil {
		price = rc.Currency.FormatPrice(*it.Product.Price)
	}
	return common.TelegramHTMLEscape(it.Product.Name) + " - " + price
}

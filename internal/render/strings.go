package render

import (
	"strings"
)

// Strings - локализатор на карте "ключ → шаблон".
// Параметры подставляются в шаблон как {name}.
// Ключ, которого нет в карте, возвращается как есть, чтобы пропуск был виден в чате.
type Strings map[string]string

// Get реализует Localizer.
func (s Strings) Get(key string, params Params) string {
	tpl, ok := s[key]
	if !ok {
		return key
	}
	if len(params) == 0 {
		return tpl
	}

	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// Languages - набор локализаторов по коду языка с запасным языком.
type Languages struct {
	byCode   map[string]Localizer
	fallback string
}

// NewLanguages создаёт набор языков. fallback должен быть среди byCode.
func NewLanguages(byCode map[string]Localizer, fallback string) *Languages {
	return &Languages{byCode: byCode, fallback: fallback}
}

// For возвращает локализатор для языка пользователя ("ru", "en-US", ...).
func (l *Languages) For(code string) Localizer {
	code = strings.ToLower(code)
	if loc, ok := l.byCode[code]; ok {
		return loc
	}
	if base, _, found := strings.Cut(code, "-"); found {
		if loc, ok := l.byCode[base]; ok {
			return loc
		}
	}
	return l.byCode[l.fallback]
}

// DefaultLanguages - встроенные языки бота.
func DefaultLanguages(fallback string) *Languages {
	return NewLanguages(map[string]Localizer{
		"ru": Russian,
		"en": English,
	}, fallback)
}

// Russian - строки по умолчанию.
var Russian = Strings{
	"product_format_string":    "<b>{name}</b>\n{description}\n\n<b>{price}</b>\n{cart}",
	"variation_format_string":  "<b>{name}</b> ({description})\n\n<b>{price}</b>\n{cart}",
	"in_cart_format_string":    "<i>В корзине: {quantity} шт.</i>",
	"emoji_completed":          "✅",
	"emoji_refunded":           "✴️",
	"emoji_not_processed":      "*️⃣",
	"text_completed":           "Выполнен",
	"text_refunded":            "Возвращён",
	"text_not_processed":       "В обработке",
	"order_number":             "Заказ #{id}",
	"order_format_string":      "от {user}\nСоздан {date}\n\n{items}\nИтого: <b>{value}</b>\n\nКомментарий: {notes}\n",
	"user_order_format_string": "{status_emoji} <b>{status_text}</b>\n{items}\nИтого: <b>{value}</b>\n\nКомментарий: {notes}\n",
	"refund_reason":            "Причина возврата:\n{reason}\n",
	"text_not_for_sale":        "Не продаётся",
	"start_text":               "Привет, {name}!\n\n/catalog — каталог\n/wallet — кошелёк\n/orders — мои заказы",
	"help_contacts":            "\n\nПо вопросам пишите: {contacts}",
	"wallet_text":              "Баланс: <b>{credit}</b>",
	"no_orders":                "Заказов пока нет",
	"catalog_empty":            "Каталог пуст",
	"error_text":               "Что-то пошло не так, попробуйте позже",
}

// English - английские строки.
var English = Strings{
	"product_format_string":    "<b>{name}</b>\n{description}\n\n<b>{price}</b>\n{cart}",
	"variation_format_string":  "<b>{name}</b> ({description})\n\n<b>{price}</b>\n{cart}",
	"in_cart_format_string":    "<i>{quantity} in your cart</i>",
	"emoji_completed":          "✅",
	"emoji_refunded":           "✴️",
	"emoji_not_processed":      "*️⃣",
	"text_completed":           "Completed",
	"text_refunded":            "Refunded",
	"text_not_processed":       "Pending",
	"order_number":             "Order #{id}",
	"order_format_string":      "by {user}\nCreated {date}\n\n{items}\nTotal: <b>{value}</b>\n\nNotes: {notes}\n",
	"user_order_format_string": "{status_emoji} <b>{status_text}</b>\n{items}\nTotal: <b>{value}</b>\n\nNotes: {notes}\n",
	"refund_reason":            "Refund reason:\n{reason}\n",
	"text_not_for_sale":        "Not for sale",
	"start_text":               "Hi, {name}!\n\n/catalog — catalog\n/wallet — wallet\n/orders — my orders",
	"help_contacts":            "\n\nQuestions? Contact {contacts}",
	"wallet_text":              "Balance: <b>{credit}</b>",
	"no_orders":                "No orders yet",
	"catalog_empty":            "The catalog is empty",
	"error_text":               "Something went wrong, please try again later",
}

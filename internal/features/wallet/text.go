package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/render"
)

// Text - строка транзакции для админского списка:
// <b>T12</b> | @user | 150.00 ₽ | провайдер | заметки ...
// user - отображаемое имя владельца (User.String()), экранируется как и
// остальные текстовые поля.
func (t *Transaction) Text(rc *render.Context, user string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>T%d</b> | %s | %s", t.TransactionID, esc(user), rc.Currency.FormatMinor(t.Value))
	if t.Refunded {
		b.WriteString(" | " + rc.Text("emoji_refunded", nil))
	}
	if t.Provider != nil && *t.Provider != "" {
		b.WriteString(" | " + esc(*t.Provider))
	}
	if t.Notes != "" {
		b.WriteString(" | " + esc(t.Notes))
	}
	if t.PaymentName != nil && *t.PaymentName != "" {
		b.WriteString(" | " + esc(*t.PaymentName))
	}
	if t.PaymentPhone != nil && *t.PaymentPhone != "" {
		b.WriteString(" | +" + esc(*t.PaymentPhone))
	}
	if t.PaymentEmail != nil && *t.PaymentEmail != "" {
		b.WriteString(" | " + esc(*t.PaymentEmail))
	}
	return b.String()
}

// String печатает все поля платежа через " | ", пустые значения как None.
func (t *BtcTransaction) String(user string) string {
	parts := []string{
		fmt.Sprintf("<b>T%d</b>", t.TransactionID),
		esc(user),
		optFloat(t.Price),
		optFloat(t.Value),
		esc(t.Currency),
		strconv.Itoa(t.Status),
		optInt(t.Timestamp),
		esc(t.Address),
	}
	if t.TxID != nil && *t.TxID != "" {
		parts = append(parts, esc(*t.TxID))
	}
	return strings.Join(parts, " | ")
}

var esc = common.TelegramHTMLEscape

func optFloat(v *float64) string {
	if v == nil {
		return "None"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optInt(v *int64) string {
	if v == nil {
		return "None"
	}
	return strconv.FormatInt(*v, 10)
}

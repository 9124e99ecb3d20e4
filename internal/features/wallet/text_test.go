package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/features/users"
	"serotonyl.ru/shop-bot/internal/render"
)

func testContext() *render.Context {
	return &render.Context{
		Loc:      render.Russian,
		Currency: common.Currency{Symbol: "₽", Exp: 2},
	}
}

func TestTransactionText(t *testing.T) {
	rc := testContext()

	plain := &Transaction{TransactionID: 12, Value: 15050}
	assert.Equal(t, "<b>T12</b> | @ivan | 150.50 ₽", plain.Text(rc, "@ivan"))

	full := &Transaction{
		TransactionID: 13,
		Value:         -500,
		Refunded:      true,
		Notes:         "заказ",
		Provider:      strPtr("stripe"),
		PaymentName:   strPtr("Иван"),
		PaymentPhone:  strPtr("79990000000"),
		PaymentEmail:  strPtr("ivan@example.com"),
	}
	assert.Equal(t,
		"<b>T13</b> | @ivan | -5.00 ₽ | ✴️ | stripe | заказ | Иван | +79990000000 | ivan@example.com",
		full.Text(rc, "@ivan"),
	)
}

func TestTransactionText_EscapesFreeText(t *testing.T) {
	rc := testContext()

	tx := &Transaction{
		TransactionID: 14,
		Value:         100,
		Notes:         "<b>бонус</b> & подарок",
		Provider:      strPtr("a<b"),
		PaymentName:   strPtr(`"Иван"`),
		PaymentEmail:  strPtr("x>y@example.com"),
	}
	assert.Equal(t,
		"<b>T14</b> | Анна &lt;3 | 1.00 ₽ | a&lt;b | &lt;b&gt;бонус&lt;/b&gt; &amp; подарок | &quot;Иван&quot; | x&gt;y@example.com",
		tx.Text(rc, "Анна <3"),
	)
}

func TestBtcTransactionString(t *testing.T) {
	price := 150.5
	ts := int64(1700000000)
	b := &BtcTransaction{
		TransactionID: 4,
		Price:         &price,
		Currency:      "BTC",
		Status:        1,
		Timestamp:     &ts,
		Address:       "bc1qxyz",
	}
	assert.Equal(t, "<b>T4</b> | @ivan | 150.5 | None | BTC | 1 | 1700000000 | bc1qxyz", b.String("@ivan"))

	b.TxID = strPtr("deadbeef")
	assert.Equal(t, "<b>T4</b> | @ivan | 150.5 | None | BTC | 1 | 1700000000 | bc1qxyz | deadbeef", b.String("@ivan"))
}

// Возврат одной транзакции уменьшает сумму ровно на её value
func TestRefundChangesCreditByExactlyValue(t *testing.T) {
	history := []*Transaction{
		{TransactionID: 1, Value: 1000},
		{TransactionID: 2, Value: -300},
		{TransactionID: 3, Value: 2500},
		{TransactionID: 4, Value: 400, Refunded: true},
	}
	before := users.SumCredit(history)

	for _, tr := range history {
		if tr.Refunded {
			continue
		}
		tr.Refunded = true
		assert.Equal(t, before-tr.Value, users.SumCredit(history), "T%d", tr.TransactionID)
		tr.Refunded = false
	}
}

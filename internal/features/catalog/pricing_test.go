package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/shop-bot/internal/common"
)

func floatPtr(f float64) *float64 { return &f }

func TestEffectivePrice(t *testing.T) {
	p := &Product{Name: "Футболка", Price: floatPtr(10.0)}
	v := &Variation{Name: "XL", PriceDiff: -2.5}

	got, err := EffectivePrice(p, v)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(7.5).Equal(got), got.String())

	pv := &ProductVariation{Product: p, Variation: &Variation{PriceDiff: 0.1}}
	got, err = pv.Price()
	require.NoError(t, err)
	assert.Equal(t, "10.1", got.String())
}

func TestEffectivePrice_NotForSale(t *testing.T) {
	_, err := EffectivePrice(&Product{Name: "Витрина"}, &Variation{PriceDiff: 1})
	assert.ErrorIs(t, err, common.ErrNotForSale)
}

func TestEffectivePrice_NoValidation(t *testing.T) {
	got, err := EffectivePrice(&Product{Price: floatPtr(1)}, &Variation{PriceDiff: -5})
	require.NoError(t, err)
	assert.True(t, got.IsNegative())
}

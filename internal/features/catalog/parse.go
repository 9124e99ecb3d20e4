package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"serotonyl.ru/shop-bot/internal/common"
)

// ParseVariation разбирает "Имя-надбавка", например "XL-150" или "S--20".
// Имя берётся до первого дефиса.
func ParseVariation(text string) (*Variation, error) {
	name, diff := common.ValuesAroundDash(strings.TrimSpace(text))
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("ожидается формат имя-надбавка, получено %q", text)
	}
	priceDiff, err := strconv.ParseFloat(strings.TrimSpace(diff), 64)
	if err != nil {
		return nil, fmt.Errorf("некорректная надбавка %q: %w", diff, err)
	}
	return &Variation{Name: name, PriceDiff: priceDiff}, nil
}

// Package render - всё, что нужно сущностям, чтобы превратить себя в текст
// для Telegram: локализованные строки, валюта и настройки внешнего вида.
// Сама отправка сообщений живёт в пакете notify.
package render

import (
	"time"

	"serotonyl.ru/shop-bot/internal/common"
)

// Params - именованные параметры локализованной строки.
type Params map[string]string

// Localizer отдаёт строку по ключу, подставляя параметры.
type Localizer interface {
	Get(key string, params Params) string
}

// Context - окружение отрисовки (язык, валюта, часовой пояс).
type Context struct {
	Loc      Localizer
	Currency common.Currency
	Location *time.Location
	// FullOrderInfo - показывать покупателю полную карточку заказа, как админу
	FullOrderInfo bool
}

// Text - сокращение для Loc.Get.
func (c *Context) Text(key string, params Params) string {
	return c.Loc.Get(key, params)
}

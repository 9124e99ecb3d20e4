// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: экранирование HTML для Telegram, разбор строк из админских
// команд, проверка длины подписи и форматирование дат.
package common

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TelegramCaptionLimit - сколько символов мы разрешаем в подписи к фото.
// У Telegram лимит 1024, но локализованные хвосты (корзина, цена) добавляются позже.
const TelegramCaptionLimit = 900

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// TelegramHTMLEscape экранирует строку для parse_mode=HTML.
//
// Примеры:
//
//	TelegramHTMLEscape("<b>")   → "&lt;b&gt;"
//	TelegramHTMLEscape("A & B") → "A &amp; B"
func TelegramHTMLEscape(s string) string {
	return htmlEscaper.Replace(s)
}

// ValueInsideBrackets возвращает текст между первой '[' и первой ']'
// без пробелов по краям. ok=false, если скобок нет.
//
// Пример: ValueInsideBrackets("Футболка [XL]") → "XL", true
func ValueInsideBrackets(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.Index(text, "]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return strings.TrimSpace(text[start+1 : end]), true
}

// ValuesAroundDash делит строку по первому '-'.
// Если дефиса нет - две пустые строки.
//
// Пример: ValuesAroundDash("XL-150") → "XL", "150"
func ValuesAroundDash(s string) (string, string) {
	before, after, found := strings.Cut(s, "-")
	if !found {
		return "", ""
	}
	return before, after
}

// CheckTelegramCaptionLength проверяет, что подпись укладывается в limit символов.
// limit <= 0 означает TelegramCaptionLimit.
func CheckTelegramCaptionLength(text string, limit int) bool {
	if limit <= 0 {
		limit = TelegramCaptionLimit
	}
	return utf8.RuneCountInString(text) <= limit
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" в зоне loc.
// Используется в карточках заказов.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02.01.2006 15:04")
}

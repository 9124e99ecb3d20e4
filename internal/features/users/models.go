// Package users управляет покупателями магазина: регистрацией при первом
// обращении, отображаемыми именами и кредитом кошелька.
// models.go описывает структуры данных для работы с таблицей users.
package users

import (
	"fmt"
	"time"

	"serotonyl.ru/shop-bot/internal/common"
)

// User - пользователь Telegram, хотя бы раз написавший боту.
// Записи никогда не удаляются.
type User struct {
	UserID    int64     `db:"user_id"`    // Telegram user ID (первичный ключ)
	FirstName string    `db:"first_name"` // Имя
	LastName  *string   `db:"last_name"`  // Фамилия (может быть nil)
	Username  *string   `db:"username"`   // @username без @ (может быть nil)
	Language  string    `db:"language"`   // Код языка интерфейса
	CreatedAt time.Time `db:"created_at"`

	// credit - кэш суммы неотменённых транзакций, в минимальных единицах.
	// Меняется только через RecalculateCredit.
	credit int64
}

// NewUser создаёт пользователя при первом обращении к боту.
// Кошелёк всегда начинается с нуля. Если Telegram не прислал язык - берём defaultLanguage.
func NewUser(userID int64, firstName, lastName, username, languageCode, defaultLanguage string) *User {
	u := &User{
		UserID:    userID,
		FirstName: firstName,
		Language:  languageCode,
	}
	if lastName != "" {
		u.LastName = &lastName
	}
	if username != "" {
		u.Username = &username
	}
	if u.Language == "" {
		u.Language = defaultLanguage
	}
	return u
}

// Credit возвращает текущий баланс кошелька в минимальных единицах.
func (u *User) Credit() int64 {
	return u.credit
}

// String описывает пользователя максимально понятно:
// @username, иначе "имя фамилия", иначе имя.
func (u *User) String() string {
	if u.Username != nil {
		return "@" + *u.Username
	}
	if u.LastName != nil {
		return u.FirstName + " " + *u.LastName
	}
	return u.FirstName
}

// IdentifiableString - как String, но с ID, по которому запись можно найти в БД.
func (u *User) IdentifiableString() string {
	return fmt.Sprintf("user_%d (%s)", u.UserID, u.String())
}

// Mention упоминает пользователя в HTML-сообщении.
// Без username - ссылка tg://user, иначе обычный @username.
func (u *User) Mention() string {
	if u.Username != nil {
		return "@" + *u.Username
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, u.UserID, common.TelegramHTMLEscape(u.FirstName))
}

// FullName - имя и фамилия (если есть).
func (u *User) FullName() string {
	if u.LastName != nil && *u.LastName != "" {
		return u.FirstName + " " + *u.LastName
	}
	return u.FirstName
}

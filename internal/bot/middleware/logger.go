// Package middleware содержит промежуточные обработчики апдейтов:
// логирование, восстановление после паники и ограничение частоты.
package middleware

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// maxLoggedText - сколько символов текста попадает в лог.
const maxLoggedText = 50

// LogMessage логирует входящее сообщение на уровне Debug.
func LogMessage(message *telego.Message) {
	if message == nil || message.From == nil {
		return
	}

	text := []rune(message.Text)
	logged := string(text)
	if len(text) > maxLoggedText {
		logged = string(text[:maxLoggedText]) + "..."
	}

	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"chat_id":  message.Chat.ID,
		"username": message.From.Username,
		"language": message.From.LanguageCode,
		"text":     logged,
	}).Debug("Входящее сообщение")
}

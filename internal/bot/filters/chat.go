// Package filters решает, какие апдейты бот вообще обрабатывает.
package filters

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает только личные сообщения от людей:
// магазин работает в личке, группы и каналы игнорируются.
type ChatFilter struct{}

func NewChatFilter() *ChatFilter {
	return &ChatFilter{}
}

// CheckAccess сообщает, нужно ли обрабатывать сообщение.
func (f *ChatFilter) CheckAccess(message *telego.Message) bool {
	if message == nil {
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Debug("deny: message without sender (channel post?)")
		return false
	}
	if message.From.IsBot {
		return false
	}
	if message.Chat.Type != telego.ChatTypePrivate {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
			"user_id":   message.From.ID,
		}).Debug("deny: not a private chat")
		return false
	}
	return true
}

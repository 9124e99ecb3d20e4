// Package bot принимает апдейты Telegram (long polling через telego),
// регистрирует пользователей и отвечает на команды покупателя.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/bot/filters"
	"serotonyl.ru/shop-bot/internal/bot/middleware"
	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/config"
	"serotonyl.ru/shop-bot/internal/features/admins"
	"serotonyl.ru/shop-bot/internal/features/catalog"
	"serotonyl.ru/shop-bot/internal/features/orders"
	"serotonyl.ru/shop-bot/internal/features/users"
	"serotonyl.ru/shop-bot/internal/features/wallet"
	"serotonyl.ru/shop-bot/internal/notify"
	"serotonyl.ru/shop-bot/internal/render"
)

// Deps - сервисы, которыми пользуется бот.
type Deps struct {
	Users   *users.Service
	Catalog *catalog.Service
	Wallet  *wallet.Service
	Orders  *orders.Service
	Admins  *admins.Service
	Sender  *notify.Sender
}

// Bot - главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *telego.Bot
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	deps      Deps
	languages *render.Languages
	currency  common.Currency
	location  *time.Location

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт бота.
func New(api *telego.Bot, cfg *config.Config, deps Deps) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:         api,
		cfg:         cfg,
		chatFilter:  filters.NewChatFilter(),
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		deps:        deps,
		languages:   render.DefaultLanguages(cfg.ShopDefaultLanguage),
		currency:    cfg.Currency(),
		location:    cfg.Location(),
		parser:      NewCommandParser(),
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// Start запускает long polling и блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.api.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: b.cfg.BotUpdateTimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("ошибка запуска long polling: %w", err)
	}
	defer b.rateLimiter.Close()

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			return nil

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return nil
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd telego.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.Recover(log.Fields{"update_id": update.UpdateID})

	message := update.Message
	if message == nil || message.Text == "" {
		return
	}

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	from := message.From
	if !b.rateLimiter.Allow(from.ID) {
		log.WithField("user_id", from.ID).Debug("rate limited")
		return
	}

	// Пользователь регистрируется на любое сообщение
	u, err := b.deps.Users.EnsureUser(ctx, from.ID, from.FirstName, from.LastName, from.Username, from.LanguageCode)
	if err != nil {
		log.WithError(err).WithField("user_id", from.ID).Error("EnsureUser failed")
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("parsed command")

	b.routeCommand(ctx, message.Chat.ID, u, cmd)
}

// renderContext - окружение отрисовки на языке пользователя.
func (b *Bot) renderContext(language string) *render.Context {
	return &render.Context{
		Loc:           b.languages.For(language),
		Currency:      b.currency,
		Location:      b.location,
		FullOrderInfo: b.cfg.ShopFullOrderInfo,
	}
}

// CommandParser парсит команды вида /cmd@botname arg1 arg2.
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/", "!"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	// /start@shop_bot → start
	command, _, _ := strings.Cut(parts[0], "@")
	command = strings.ToLower(command)
	if command == "" {
		return "", nil, false
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	return command, args, true
}

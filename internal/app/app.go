// Package app инициализирует все компоненты приложения.
// app.go - точка сборки: создаёт БД-пул, применяет миграции, собирает
// репозитории, сервисы, отправителя сообщений, бота и планировщик.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/bot"
	"serotonyl.ru/shop-bot/internal/config"
	"serotonyl.ru/shop-bot/internal/db/postgres"
	"serotonyl.ru/shop-bot/internal/features/admins"
	"serotonyl.ru/shop-bot/internal/features/catalog"
	"serotonyl.ru/shop-bot/internal/features/orders"
	"serotonyl.ru/shop-bot/internal/features/users"
	"serotonyl.ru/shop-bot/internal/features/wallet"
	"serotonyl.ru/shop-bot/internal/jobs"
	"serotonyl.ru/shop-bot/internal/notify"
	"serotonyl.ru/shop-bot/internal/render"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *telego.Bot
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен - компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool, Migrations()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := telego.NewBot(cfg.TelegramBotToken,
		telego.WithDefaultLogger(cfg.AppEnv == "development", true),
		telego.WithHTTPClient(&http.Client{Timeout: cfg.TelegramRequestTimeout}),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	me, err := botAPI.GetMe(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка авторизации в Telegram: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	// === 3. Репозитории ===
	usersRepo := users.NewRepository(pool)
	catalogRepo := catalog.NewRepository(pool)
	walletRepo := wallet.NewRepository(pool)
	ordersRepo := orders.NewRepository(pool)
	adminsRepo := admins.NewRepository(pool)

	// === 4. Сервисы ===
	sender := notify.NewSender(botAPI, cfg.ShopCaptionLimit, cfg.TelegramRequestTimeout)

	usersService := users.NewService(usersRepo, cfg.ShopDefaultLanguage)
	catalogService := catalog.NewService(catalogRepo, pool, sender)
	walletService := wallet.NewService(pool, walletRepo, usersRepo)
	adminsService := admins.NewService(adminsRepo)
	ordersService := orders.NewService(orders.Deps{
		DB:         pool,
		Repo:       ordersRepo,
		Catalog:    catalogRepo,
		Users:      usersRepo,
		Txs:        walletRepo,
		Wallet:     walletService,
		Notifier:   sender,
		Recipients: adminsService,
		Render:     adminRenderContext(cfg),
	})

	// === 5. Собираем бота ===
	b := bot.New(botAPI, cfg, bot.Deps{
		Users:   usersService,
		Catalog: catalogService,
		Wallet:  walletService,
		Orders:  ordersService,
		Admins:  adminsService,
		Sender:  sender,
	})

	// === 6. Планировщик задач ===
	scheduler := jobs.NewScheduler(catalogService, cfg.PurgeSchedule, cfg.PurgeOnStart, cfg.Location())

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// adminRenderContext - окружение отрисовки для уведомлений админам
// (язык магазина по умолчанию).
func adminRenderContext(cfg *config.Config) *render.Context {
	return &render.Context{
		Loc:           render.DefaultLanguages(cfg.ShopDefaultLanguage).For(cfg.ShopDefaultLanguage),
		Currency:      cfg.Currency(),
		Location:      cfg.Location(),
		FullOrderInfo: true,
	}
}

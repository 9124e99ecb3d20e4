// Package config загружает конфигурацию бота-магазина из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры,
// а godotenv подхватывает локальный .env, если он есть.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"serotonyl.ru/shop-bot/internal/common"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"shopuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"shop_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// Пустой путь - логи только в stdout
	AppLogFile  string `envconfig:"APP_LOG_FILE" default:""`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Shop ---
	// Язык пользователя, если Telegram не прислал language_code
	ShopDefaultLanguage string `envconfig:"SHOP_DEFAULT_LANGUAGE" default:"ru"`
	ShopCurrencySymbol  string `envconfig:"SHOP_CURRENCY_SYMBOL" default:"₽"`
	// Сколько знаков после запятой у валюты (кредит хранится в минимальных единицах)
	ShopCurrencyExp int32 `envconfig:"SHOP_CURRENCY_EXP" default:"2"`
	// Показывать покупателю полную карточку заказа (как админу)
	ShopFullOrderInfo bool `envconfig:"SHOP_FULL_ORDER_INFO" default:"false"`
	ShopCaptionLimit  int  `envconfig:"SHOP_CAPTION_LIMIT" default:"900"`

	// --- Purge job ---
	PurgeSchedule string `envconfig:"PURGE_SCHEDULE" default:"@daily"`
	PurgeOnStart  bool   `envconfig:"PURGE_ON_START" default:"true"`

	// --- Telegram API ---
	TelegramRequestTimeout time.Duration `envconfig:"TELEGRAM_REQUEST_TIMEOUT" default:"30s"`

	// --- Bot ---
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"30"`
	BotMaxInflight          int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`

	// --- Rate limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"20"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.ShopCurrencyExp < 0 {
		return fmt.Errorf("SHOP_CURRENCY_EXP должен быть >= 0")
	}
	if c.ShopCaptionLimit <= 0 {
		return fmt.Errorf("SHOP_CAPTION_LIMIT должен быть > 0")
	}
	if c.PurgeSchedule == "" {
		return fmt.Errorf("PURGE_SCHEDULE не задан")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	return nil
}

// Location возвращает часовой пояс приложения.
// Если зона не загрузилась (нет tzdata в образе) - UTC+3.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// Currency - валюта магазина.
func (c *Config) Currency() common.Currency {
	return common.Currency{Symbol: c.ShopCurrencySymbol, Exp: c.ShopCurrencyExp}
}

// Load читает .env (если есть) и переменные окружения, заполняет структуру Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("не удалось прочитать .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

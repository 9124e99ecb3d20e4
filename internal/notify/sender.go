// Package notify отправляет сообщения магазина в Telegram через telego:
// текст, фото с подписью и карточки каталога. Сюда же вынесено
// скачивание файлов по file_id.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/features/catalog"
	"serotonyl.ru/shop-bot/internal/render"
)

// ParseModeHTML - режим разметки всех сообщений магазина.
const ParseModeHTML = telego.ModeHTML

// MaxDownloadSize - лимит Bot API на getFile (20 МБ).
const MaxDownloadSize = 20 << 20

// botAPI - методы *telego.Bot, которые нужны отправителю.
type botAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
	GetFile(ctx context.Context, params *telego.GetFileParams) (*telego.File, error)
	FileDownloadURL(filepath string) string
}

// Sender отправляет сообщения.
type Sender struct {
	api          botAPI
	captionLimit int
	http         *http.Client
	maxDownload  int64
}

// NewSender создаёт отправителя поверх бота.
// captionLimit - максимальная длина подписи к фото в символах.
func NewSender(api botAPI, captionLimit int, timeout time.Duration) *Sender {
	return &Sender{
		api:          api,
		captionLimit: captionLimit,
		http:         &http.Client{Timeout: timeout},
		maxDownload:  MaxDownloadSize,
	}
}

// Send отправляет текст, а если передана картинка - фото с подписью.
// Слишком длинная подпись уходит отдельным сообщением после фото.
// Возвращает ID последнего отправленного сообщения.
func (s *Sender) Send(ctx context.Context, chatID int64, text string, image []byte, parseMode string) (int, error) {
	if len(image) == 0 {
		return s.sendText(ctx, chatID, text, parseMode)
	}

	photo := tu.Photo(tu.ID(chatID), tu.File(tu.NameReader(bytes.NewReader(image), "product.jpg")))
	if common.CheckTelegramCaptionLength(text, s.captionLimit) {
		msg, err := s.api.SendPhoto(ctx, photo.WithCaption(text).WithParseMode(parseMode))
		if err != nil {
			return 0, fmt.Errorf("ошибка отправки фото в чат %d: %w", chatID, err)
		}
		return msg.MessageID, nil
	}

	log.WithFields(log.Fields{
		"chat_id": chatID,
		"length":  len([]rune(text)),
	}).Debug("Подпись длиннее лимита, текст уйдёт отдельным сообщением")

	if _, err := s.api.SendPhoto(ctx, photo); err != nil {
		return 0, fmt.Errorf("ошибка отправки фото в чат %d: %w", chatID, err)
	}
	return s.sendText(ctx, chatID, text, parseMode)
}

func (s *Sender) sendText(ctx context.Context, chatID int64, text, parseMode string) (int, error) {
	msg, err := s.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(parseMode))
	if err != nil {
		return 0, fmt.Errorf("ошибка отправки сообщения в чат %d: %w", chatID, err)
	}
	return msg.MessageID, nil
}

// SendProduct отправляет карточку товара.
// Без withImage - только имя (заголовок перед списком вариаций);
// без картинки у товара - полная карточка текстом; иначе фото с карточкой.
func (s *Sender) SendProduct(ctx context.Context, rc *render.Context, chatID int64, p *catalog.Product, withImage bool) (int, error) {
	if !withImage {
		text, err := p.Text(rc, catalog.StyleProductVariation, 0)
		if err != nil {
			return 0, err
		}
		return s.Send(ctx, chatID, text, nil, ParseModeHTML)
	}

	text, err := p.Text(rc, catalog.StyleFull, 0)
	if err != nil {
		return 0, err
	}
	return s.Send(ctx, chatID, text, p.Image, ParseModeHTML)
}

// SendCategory отправляет заголовок категории.
func (s *Sender) SendCategory(ctx context.Context, chatID int64, c *catalog.Category, suffix string) (int, error) {
	return s.Send(ctx, chatID, c.Text(suffix), nil, ParseModeHTML)
}

// SendSubCategory отправляет заголовок подкатегории.
func (s *Sender) SendSubCategory(ctx context.Context, chatID int64, sc *catalog.SubCategory, suffix string) (int, error) {
	return s.Send(ctx, chatID, sc.Text(suffix), nil, ParseModeHTML)
}

// SendVariation отправляет вариацию в админском формате "имя-надбавка".
func (s *Sender) SendVariation(ctx context.Context, chatID int64, v *catalog.Variation) (int, error) {
	return s.Send(ctx, chatID, v.Text(), nil, ParseModeHTML)
}

// SendProductVariation отправляет карточку товара в конкретной вариации.
func (s *Sender) SendProductVariation(ctx context.Context, rc *render.Context, chatID int64, pv *catalog.ProductVariation) (int, error) {
	text, err := pv.Text(rc)
	if err != nil {
		return 0, err
	}
	return s.Send(ctx, chatID, text, nil, ParseModeHTML)
}

// DownloadFile скачивает файл, загруженный в Telegram, по его file_id.
// Запрос привязан к ctx, файл больше MaxDownloadSize - ошибка.
func (s *Sender) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := s.api.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения файла %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.api.FileDownloadURL(file.FilePath), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса файла: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка скачивания файла: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("скачивание файла %s: HTTP %d", fileID, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxDownload+1))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла: %w", err)
	}
	if int64(len(data)) > s.maxDownload {
		return nil, fmt.Errorf("файл %s больше %d байт", fileID, s.maxDownload)
	}
	return data, nil
}

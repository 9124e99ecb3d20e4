// Package catalog - service.go содержит бизнес-логику каталога:
// витрину, редактирование товаров и очистку удалённых товаров.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
)

// ImageDownloader скачивает файл из Telegram по file_id.
type ImageDownloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// Service управляет каталогом.
type Service struct {
	repo       *Repository
	db         postgres.TxBeginner
	downloader ImageDownloader
}

// NewService создаёт сервис каталога.
// downloader может быть nil - тогда SetImageFromTelegram недоступен.
func NewService(repo *Repository, db postgres.TxBeginner, downloader ImageDownloader) *Service {
	return &Service{repo: repo, db: db, downloader: downloader}
}

// Products - витрина: неудалённые товары, см. Repository.ListProducts.
func (s *Service) Products(ctx context.Context, f Filter) ([]*Product, error) {
	return s.repo.ListProducts(ctx, f)
}

// Product возвращает товар по ID.
func (s *Service) Product(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// CreateProduct добавляет товар.
func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := common.Validate(p); err != nil {
		return err
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	log.WithFields(log.Fields{"product_id": p.ID, "name": p.Name}).Info("Товар создан")
	return nil
}

// UpdateProduct сохраняет изменения товара.
func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := common.Validate(p); err != nil {
		return err
	}
	return s.repo.UpdateProduct(ctx, p)
}

// DeleteProduct - мягкое удаление: товар пропадает из витрины,
// строка остаётся до ночной очистки.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	log.WithField("product_id", id).Info("Товар помечен удалённым")
	return nil
}

// SetImage сохраняет картинку товара.
func (s *Service) SetImage(ctx context.Context, productID int64, image []byte) error {
	return s.repo.SetImage(ctx, productID, image)
}

// SetImageFromTelegram скачивает фото по file_id и сохраняет его в товар.
// Запрос к Telegram медленный - не вызывать под открытой транзакцией.
func (s *Service) SetImageFromTelegram(ctx context.Context, productID int64, fileID string) error {
	if s.downloader == nil {
		return fmt.Errorf("загрузка картинок не настроена")
	}
	data, err := s.downloader.DownloadFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("ошибка скачивания картинки: %w", err)
	}
	return s.repo.SetImage(ctx, productID, data)
}

// PurgeDeleted физически удаляет помеченные товары одной транзакцией:
// либо уходят все, либо ни один. Повторов нет - следующий запуск по расписанию.
func (s *Service) PurgeDeleted(ctx context.Context) (int, error) {
	var purged []int64
	err := postgres.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		ids, err := s.repo.WithTx(tx).PurgeDeleted(ctx)
		if err != nil {
			return err
		}
		purged = ids
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(purged) > 0 {
		log.WithFields(log.Fields{
			"count": len(purged),
			"ids":   purged,
		}).Info("Удалённые товары вычищены")
	}
	return len(purged), nil
}

// --- Категории ---

func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	c := &Category{Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateSubCategory(ctx context.Context, categoryID int64, name string) (*SubCategory, error) {
	sc := &SubCategory{Name: name, CategoryID: &categoryID}
	if err := s.repo.CreateSubCategory(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *Service) SubCategories(ctx context.Context, categoryID int64) ([]*SubCategory, error) {
	return s.repo.ListSubCategories(ctx, categoryID)
}

// --- Вариации ---

// CreateVariation добавляет вариацию. Надбавка не проверяется:
// итоговая цена может уйти в минус, если админ ошибся при вводе.
func (s *Service) CreateVariation(ctx context.Context, v *Variation) error {
	if err := common.Validate(v); err != nil {
		return err
	}
	return s.repo.CreateVariation(ctx, v)
}

// CreateVariationFromText разбирает админский ввод вида "XL-150"
// (имя, дефис, надбавка) и создаёт вариацию с нулевым остатком.
func (s *Service) CreateVariationFromText(ctx context.Context, text string) (*Variation, error) {
	v, err := ParseVariation(text)
	if err != nil {
		return nil, err
	}
	if err := s.CreateVariation(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) SetVariationQuantity(ctx context.Context, id int64, quantity int) error {
	return s.repo.SetVariationQuantity(ctx, id, quantity)
}

func (s *Service) DeleteVariation(ctx context.Context, id int64) error {
	return s.repo.DeleteVariation(ctx, id)
}

// AttachVariation привязывает вариацию к товару (common.ErrDuplicateVariation при повторе).
func (s *Service) AttachVariation(ctx context.Context, productID, variationID int64) (*ProductVariation, error) {
	return s.repo.AttachVariation(ctx, productID, variationID)
}

func (s *Service) DetachVariation(ctx context.Context, productID, variationID int64) error {
	return s.repo.DetachVariation(ctx, productID, variationID)
}

// ProductVariations возвращает вариации товара с загруженными сторонами связи.
func (s *Service) ProductVariations(ctx context.Context, productID int64) ([]*ProductVariation, error) {
	return s.repo.ListProductVariations(ctx, productID)
}

// Package catalog - repository.go выполняет все операции с таблицами
// products, category, subcategory, variation и product_variation.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
)

// Имя UNIQUE-ограничения на пару (product_id, variation_id) из миграции.
const productVariationUnique = "product_variation_product_id_variation_id_key"

const productColumns = `id, name, description, price, image, deleted, category_id, sub_category_id`

// Repository предоставляет методы для работы с каталогом.
type Repository struct {
	db postgres.DBTX
}

// NewRepository создаёт новый репозиторий каталога.
func NewRepository(db postgres.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx возвращает репозиторий, работающий внутри транзакции tx.
func (r *Repository) WithTx(tx postgres.DBTX) *Repository {
	return &Repository{db: tx}
}

// ListProducts возвращает все неудалённые товары.
// Если задана категория - только её товары; иначе, если задана подкатегория - её;
// иначе весь каталог. Ничего не нашлось - пустой срез без ошибки.
func (r *Repository) ListProducts(ctx context.Context, f Filter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted = FALSE`
	var args []any

	switch {
	case f.CategoryID != nil:
		query += ` AND category_id = $1`
		args = append(args, *f.CategoryID)
	case f.SubCategoryID != nil:
		query += ` AND sub_category_id = $1`
		args = append(args, *f.SubCategoryID)
	}
	query += ` ORDER BY id`

	return r.queryProducts(ctx, query, args...)
}

// GetProduct возвращает товар по ID, в том числе удалённый
// (нужно для старых заказов).
func (r *Repository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product_id=%d: %w", id, common.ErrProductNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения товара (id=%d): %w", id, err)
	}
	return p, nil
}

// GetProducts возвращает товары по списку ID (удалённые тоже).
// Порядок - по ID, повторы в ids не дублируются.
func (r *Repository) GetProducts(ctx context.Context, ids []int64) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id`
	return r.queryProducts(ctx, query, ids)
}

// CreateProduct добавляет товар и заполняет p.ID.
func (r *Repository) CreateProduct(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (name, description, price, image, deleted, category_id, sub_category_id)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.Image, p.CategoryID, p.SubCategoryID,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("ошибка создания товара: %w", err)
	}
	p.Deleted = false
	return nil
}

// UpdateProduct сохраняет имя, описание, цену и категории товара.
// Картинка и флаг удаления меняются отдельными методами.
func (r *Repository) UpdateProduct(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5, sub_category_id = $6
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.CategoryID, p.SubCategoryID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления товара: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product_id=%d: %w", p.ID, common.ErrProductNotFound)
	}
	return nil
}

// SetImage заменяет картинку товара.
func (r *Repository) SetImage(ctx context.Context, id int64, image []byte) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET image = $2 WHERE id = $1`, id, image)
	if err != nil {
		return fmt.Errorf("ошибка сохранения картинки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product_id=%d: %w", id, common.ErrProductNotFound)
	}
	return nil
}

// SoftDelete помечает товар удалённым. Обратной операции нет.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET deleted = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления товара: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product_id=%d: %w", id, common.ErrProductNotFound)
	}
	return nil
}

// PurgeDeleted физически удаляет помеченные товары и возвращает их ID.
// Товары, на которые ссылаются позиции заказов, остаются ради истории.
func (r *Repository) PurgeDeleted(ctx context.Context) ([]int64, error) {
	query := `
		DELETE FROM products p
		WHERE p.deleted = TRUE
		  AND NOT EXISTS (SELECT 1 FROM orderitems oi WHERE oi.product_id = p.id)
		RETURNING p.id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка очистки товаров: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка очистки товаров: %w", err)
	}
	return ids, nil
}

// --- Категории ---

// CreateCategory добавляет категорию и заполняет c.ID.
func (r *Repository) CreateCategory(ctx context.Context, c *Category) error {
	err := r.db.QueryRow(ctx, `INSERT INTO category (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("ошибка создания категории: %w", err)
	}
	return nil
}

// ListCategories возвращает все категории по имени.
func (r *Repository) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM category ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса категорий: %w", err)
	}
	defer rows.Close()

	var out []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования категории: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CreateSubCategory добавляет подкатегорию и заполняет s.ID.
func (r *Repository) CreateSubCategory(ctx context.Context, s *SubCategory) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO subcategory (name, category_id) VALUES ($1, $2) RETURNING id`,
		s.Name, s.CategoryID,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("ошибка создания подкатегории: %w", err)
	}
	return nil
}

// ListSubCategories возвращает подкатегории категории.
func (r *Repository) ListSubCategories(ctx context.Context, categoryID int64) ([]*SubCategory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, category_id FROM subcategory WHERE category_id = $1 ORDER BY name, id`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса подкатегорий: %w", err)
	}
	defer rows.Close()

	var out []*SubCategory
	for rows.Next() {
		var s SubCategory
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования подкатегории: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// --- Вариации ---

// CreateVariation добавляет вариацию и заполняет v.ID.
func (r *Repository) CreateVariation(ctx context.Context, v *Variation) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO variation (name, quantity, price_diff) VALUES ($1, $2, $3) RETURNING id`,
		v.Name, v.Quantity, v.PriceDiff,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("ошибка создания вариации: %w", err)
	}
	return nil
}

// GetVariation возвращает вариацию по ID.
func (r *Repository) GetVariation(ctx context.Context, id int64) (*Variation, error) {
	var v Variation
	err := r.db.QueryRow(ctx,
		`SELECT id, name, quantity, price_diff FROM variation WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.Quantity, &v.PriceDiff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("variation_id=%d: %w", id, common.ErrVariationNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения вариации: %w", err)
	}
	return &v, nil
}

// SetVariationQuantity меняет остаток вариации.
func (r *Repository) SetVariationQuantity(ctx context.Context, id int64, quantity int) error {
	tag, err := r.db.Exec(ctx, `UPDATE variation SET quantity = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("ошибка обновления остатка: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("variation_id=%d: %w", id, common.ErrVariationNotFound)
	}
	return nil
}

// DeleteVariation удаляет вариацию; её связи с товарами уходят каскадом.
func (r *Repository) DeleteVariation(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM variation WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления вариации: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("variation_id=%d: %w", id, common.ErrVariationNotFound)
	}
	return nil
}

// AttachVariation привязывает вариацию к товару.
// Повторная привязка той же пары - common.ErrDuplicateVariation.
func (r *Repository) AttachVariation(ctx context.Context, productID, variationID int64) (*ProductVariation, error) {
	pv := &ProductVariation{ProductID: productID, VariationID: variationID}
	err := r.db.QueryRow(ctx,
		`INSERT INTO product_variation (product_id, variation_id) VALUES ($1, $2) RETURNING id`,
		productID, variationID,
	).Scan(&pv.ID)
	if err != nil {
		if postgres.IsUniqueViolation(err, productVariationUnique) {
			return nil, fmt.Errorf("product_id=%d variation_id=%d: %w", productID, variationID, common.ErrDuplicateVariation)
		}
		return nil, fmt.Errorf("ошибка привязки вариации: %w", err)
	}
	return pv, nil
}

// DetachVariation отвязывает вариацию от товара. Отсутствие связи - не ошибка.
func (r *Repository) DetachVariation(ctx context.Context, productID, variationID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM product_variation WHERE product_id = $1 AND variation_id = $2`,
		productID, variationID,
	)
	if err != nil {
		return fmt.Errorf("ошибка отвязки вариации: %w", err)
	}
	return nil
}

// ListProductVariations возвращает вариации товара вместе с самим товаром.
func (r *Repository) ListProductVariations(ctx context.Context, productID int64) ([]*ProductVariation, error) {
	product, err := r.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT pv.id, v.id, v.name, v.quantity, v.price_diff
		FROM product_variation pv
		JOIN variation v ON v.id = pv.variation_id
		WHERE pv.product_id = $1
		ORDER BY v.id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса вариаций: %w", err)
	}
	defer rows.Close()

	var out []*ProductVariation
	for rows.Next() {
		var v Variation
		pv := &ProductVariation{ProductID: productID, Product: product}
		if err := rows.Scan(&pv.ID, &v.ID, &v.Name, &v.Quantity, &v.PriceDiff); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вариации: %w", err)
		}
		pv.VariationID = v.ID
		pv.Variation = &v
		out = append(out, pv)
	}
	return out, rows.Err()
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса товаров: %w", err)
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования товара: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
		&p.Deleted, &p.CategoryID, &p.SubCategoryID,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

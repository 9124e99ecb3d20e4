// Package catalog управляет витриной магазина: товарами, категориями,
// подкатегориями и вариациями (размер, цвет и т.п.).
// models.go описывает структуры данных каталога.
package catalog

// Product - товар.
// Удалённый товар (Deleted) пропадает из витрины, но остаётся в БД,
// пока на него ссылаются старые заказы.
type Product struct {
	ID          int64    `db:"id"`
	Name        string   `db:"name" validate:"required,max=256"`
	Description string   `db:"description"`
	Price       *float64 `db:"price" validate:"omitempty,gte=0"` // nil - товар не продаётся
	Image       []byte   `db:"image"` // картинка целиком (может быть nil)
	Deleted     bool     `db:"deleted"`

	CategoryID    *int64 `db:"category_id"`
	SubCategoryID *int64 `db:"sub_category_id"`
}

// ForSale - есть ли у товара цена.
func (p *Product) ForSale() bool {
	return p.Price != nil
}

// Category - раздел витрины.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// SubCategory - подраздел внутри категории.
type SubCategory struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	CategoryID *int64 `db:"category_id"`
}

// Variation - вариант товара со своим остатком и надбавкой к цене.
type Variation struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name" validate:"required,max=64"`
	Quantity  int     `db:"quantity" validate:"gte=0"`
	PriceDiff float64 `db:"price_diff"` // прибавляется к цене товара, может быть отрицательной
}

// ProductVariation - связь товара с вариацией. Пара (товар, вариация) уникальна,
// связь удаляется вместе с любой из сторон (ON DELETE CASCADE).
type ProductVariation struct {
	ID          int64 `db:"id"`
	ProductID   int64 `db:"product_id"`
	VariationID int64 `db:"variation_id"`

	// Заполняются при чтении через ListProductVariations
	Product   *Product
	Variation *Variation
}

// Filter - фильтр витрины. Если заданы оба поля, побеждает категория.
type Filter struct {
	CategoryID    *int64
	SubCategoryID *int64
}

// ByCategory - фильтр по категории.
func ByCategory(id int64) Filter {
	return Filter{CategoryID: &id}
}

// BySubCategory - фильтр по подкатегории.
func BySubCategory(id int64) Filter {
	return Filter{SubCategoryID: &id}
}

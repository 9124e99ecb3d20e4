package app

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
	"serotonyl.ru/shop-bot/internal/features/catalog"
	"serotonyl.ru/shop-bot/internal/features/orders"
	"serotonyl.ru/shop-bot/internal/features/users"
	"serotonyl.ru/shop-bot/internal/features/wallet"
	"serotonyl.ru/shop-bot/internal/render"
)

// Тесты на живой БД. Запуск:
//
//	TEST_DATABASE_URL=postgres://... go test ./internal/app/...
//
// База должна быть отдельной: таблицы очищаются перед каждым тестом.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	ctx := context.Background()
	pool, err := postgres.NewPoolFromDSN(ctx, dsn, 4, 1)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.RunMigrations(ctx, pool, Migrations()))
	_, err = pool.Exec(ctx, `TRUNCATE admins, btc_transactions, transactions, orderitems, orders,
		product_variation, variation, products, subcategory, category, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

type shop struct {
	users   *users.Service
	catalog *catalog.Service
	wallet  *wallet.Service
	orders  *orders.Service
}

func newShop(pool *pgxpool.Pool) *shop {
	usersRepo := users.NewRepository(pool)
	catalogRepo := catalog.NewRepository(pool)
	walletRepo := wallet.NewRepository(pool)
	walletService := wallet.NewService(pool, walletRepo, usersRepo)
	return &shop{
		users:   users.NewService(usersRepo, "ru"),
		catalog: catalog.NewService(catalogRepo, pool, nil),
		wallet:  walletService,
		orders: orders.NewService(orders.Deps{
			DB:      pool,
			Repo:    orders.NewRepository(pool),
			Catalog: catalogRepo,
			Users:   usersRepo,
			Txs:     walletRepo,
			Wallet:  walletService,
			Render: &render.Context{
				Loc:      render.Russian,
				Currency: common.Currency{Symbol: "₽", Exp: 2},
				Location: time.UTC,
			},
		}),
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestIntegration_OrderLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	s := newShop(pool)

	_, err := s.users.EnsureUser(ctx, 100, "Иван", "", "ivan", "ru")
	require.NoError(t, err)

	_, err = s.wallet.Add(ctx, &wallet.Transaction{UserID: 100, Value: 5000, Notes: "пополнение"})
	require.NoError(t, err)

	p := &catalog.Product{Name: "Футболка", Price: floatPtr(12.5)}
	require.NoError(t, s.catalog.CreateProduct(ctx, p))

	o, err := s.orders.Place(ctx, 100, []int64{p.ID, p.ID}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), o.Total())
	assert.Equal(t, int64(2500), o.User.Credit())

	// Кредит в БД совпадает с суммой неотменённых транзакций
	var stored, sum int64
	require.NoError(t, pool.QueryRow(ctx, "SELECT credit FROM users WHERE user_id = 100").Scan(&stored))
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(value), 0) FROM transactions WHERE user_id = 100 AND NOT refunded").Scan(&sum))
	assert.Equal(t, sum, stored)

	_, err = s.orders.Place(ctx, 100, []int64{p.ID, p.ID, p.ID}, "")
	assert.ErrorIs(t, err, common.ErrInsufficientCredit)

	refunded, err := s.orders.Refund(ctx, o.OrderID, "нет в наличии")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusRefunded, refunded.Status())
	assert.Equal(t, int64(5000), refunded.User.Credit())

	_, err = s.orders.Deliver(ctx, o.OrderID)
	assert.ErrorIs(t, err, common.ErrOrderFinalized)
}

func TestIntegration_PurgeKeepsOrderedProducts(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	s := newShop(pool)

	_, err := s.users.EnsureUser(ctx, 200, "Анна", "", "", "en")
	require.NoError(t, err)
	_, err = s.wallet.Add(ctx, &wallet.Transaction{UserID: 200, Value: 1000})
	require.NoError(t, err)

	ordered := &catalog.Product{Name: "Кружка", Price: floatPtr(3)}
	unused := &catalog.Product{Name: "Значок", Price: floatPtr(1)}
	require.NoError(t, s.catalog.CreateProduct(ctx, ordered))
	require.NoError(t, s.catalog.CreateProduct(ctx, unused))

	_, err = s.orders.Place(ctx, 200, []int64{ordered.ID}, "")
	require.NoError(t, err)

	require.NoError(t, s.catalog.DeleteProduct(ctx, ordered.ID))
	require.NoError(t, s.catalog.DeleteProduct(ctx, unused.ID))

	n, err := s.catalog.PurgeDeleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.catalog.Product(ctx, unused.ID)
	assert.ErrorIs(t, err, common.ErrProductNotFound)

	kept, err := s.catalog.Product(ctx, ordered.ID)
	require.NoError(t, err)
	assert.True(t, kept.Deleted)

	visible, err := s.catalog.Products(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestIntegration_DuplicateCharge(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	s := newShop(pool)

	_, err := s.users.EnsureUser(ctx, 300, "Пётр", "", "", "")
	require.NoError(t, err)

	provider, charge := "stripe", "ch_1"
	_, err = s.wallet.Add(ctx, &wallet.Transaction{UserID: 300, Value: 700, Provider: &provider, ProviderChargeID: &charge})
	require.NoError(t, err)
	_, err = s.wallet.Add(ctx, &wallet.Transaction{UserID: 300, Value: 700, Provider: &provider, ProviderChargeID: &charge})
	assert.ErrorIs(t, err, common.ErrDuplicateCharge)

	u, err := s.users.Get(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(700), u.Credit())
}

func TestIntegration_SavedLanguageSurvivesLogin(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	s := newShop(pool)

	_, err := s.users.EnsureUser(ctx, 400, "Анна", "", "", "ru")
	require.NoError(t, err)
	require.NoError(t, s.users.SetLanguage(ctx, 400, "en"))

	u, err := s.users.EnsureUser(ctx, 400, "Анна", "", "", "ru")
	require.NoError(t, err)
	assert.Equal(t, "en", u.Language)
}

package app

import "serotonyl.ru/shop-bot/internal/db/postgres"

// Migrations - схема БД по версиям. SQL встроен в код для упрощения деплоя.
// Порядок важен: таблицы ссылаются на предыдущие.
func Migrations() []postgres.Migration {
	return []postgres.Migration{
		{Version: 1, SQL: migration001Users},
		{Version: 2, SQL: migration002Catalog},
		{Version: 3, SQL: migration003Orders},
		{Version: 4, SQL: migration004Transactions},
		{Version: 5, SQL: migration005BtcTransactions},
		{Version: 6, SQL: migration006Admins},
	}
}

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    user_id BIGINT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT,
    username TEXT,
    language TEXT NOT NULL,
    credit BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

var migration002Catalog = `
CREATE TABLE IF NOT EXISTS category (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS subcategory (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    category_id BIGINT REFERENCES category(id)
);
CREATE TABLE IF NOT EXISTS products (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price DOUBLE PRECISION,
    image BYTEA,
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    category_id BIGINT REFERENCES category(id),
    sub_category_id BIGINT REFERENCES subcategory(id)
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id) WHERE deleted = FALSE;
CREATE INDEX IF NOT EXISTS idx_products_sub_category ON products(sub_category_id) WHERE deleted = FALSE;
CREATE TABLE IF NOT EXISTS variation (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 0,
    price_diff DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS product_variation (
    id BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    variation_id BIGINT NOT NULL REFERENCES variation(id) ON DELETE CASCADE,
    CONSTRAINT product_variation_product_id_variation_id_key UNIQUE (product_id, variation_id)
);
`

var migration003Orders = `
CREATE TABLE IF NOT EXISTS orders (
    order_id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    creation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    delivery_date TIMESTAMPTZ,
    refund_date TIMESTAMPTZ,
    refund_reason TEXT,
    notes TEXT,
    CONSTRAINT orders_single_final_state CHECK (delivery_date IS NULL OR refund_date IS NULL)
);
CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_pending ON orders(order_id)
    WHERE delivery_date IS NULL AND refund_date IS NULL;
CREATE TABLE IF NOT EXISTS orderitems (
    item_id BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL REFERENCES products(id),
    order_id BIGINT NOT NULL REFERENCES orders(order_id)
);
CREATE INDEX IF NOT EXISTS idx_orderitems_order_id ON orderitems(order_id);
CREATE INDEX IF NOT EXISTS idx_orderitems_product_id ON orderitems(product_id);
`

var migration004Transactions = `
CREATE TABLE IF NOT EXISTS transactions (
    transaction_id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    value BIGINT NOT NULL,
    refunded BOOLEAN NOT NULL DEFAULT FALSE,
    notes TEXT,
    provider TEXT,
    telegram_charge_id TEXT,
    provider_charge_id TEXT,
    payment_name TEXT,
    payment_phone TEXT,
    payment_email TEXT,
    order_id BIGINT REFERENCES orders(order_id),
    CONSTRAINT transactions_provider_provider_charge_id_key UNIQUE (provider, provider_charge_id)
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_order_id ON transactions(order_id)
    WHERE order_id IS NOT NULL;
`

var migration005BtcTransactions = `
CREATE TABLE IF NOT EXISTS btc_transactions (
    transaction_id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    price DOUBLE PRECISION,
    value DOUBLE PRECISION,
    currency TEXT NOT NULL DEFAULT '',
    status INTEGER NOT NULL,
    timestamp BIGINT,
    address TEXT NOT NULL DEFAULT '',
    txid TEXT
);
CREATE INDEX IF NOT EXISTS idx_btc_transactions_user_id ON btc_transactions(user_id);
`

var migration006Admins = `
CREATE TABLE IF NOT EXISTS admins (
    user_id BIGINT PRIMARY KEY REFERENCES users(user_id),
    edit_products BOOLEAN NOT NULL DEFAULT FALSE,
    receive_orders BOOLEAN NOT NULL DEFAULT FALSE,
    create_transactions BOOLEAN NOT NULL DEFAULT FALSE,
    display_on_help BOOLEAN NOT NULL DEFAULT FALSE,
    is_owner BOOLEAN NOT NULL DEFAULT FALSE,
    live_mode BOOLEAN NOT NULL DEFAULT FALSE
);
`

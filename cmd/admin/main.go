// Package main - утилита выдачи прав администратора.
//
// Запуск:
//
//	go run ./cmd/admin -user 123456789 -owner
//	go run ./cmd/admin -user 123456789 -orders -help-contact
//
// Пользователь должен хотя бы раз написать боту (/start).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/app"
	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/config"
	"serotonyl.ru/shop-bot/internal/db/postgres"
	"serotonyl.ru/shop-bot/internal/features/admins"
	"serotonyl.ru/shop-bot/internal/features/users"
)

func main() {
	var (
		userID       = flag.Int64("user", 0, "Telegram user ID")
		owner        = flag.Bool("owner", false, "все права владельца")
		editProducts = flag.Bool("products", false, "редактирование товаров")
		orders       = flag.Bool("orders", false, "получение заказов")
		transactions = flag.Bool("transactions", false, "создание транзакций")
		helpContact  = flag.Bool("help-contact", false, "показывать в справке")
	)
	flag.Parse()

	if *userID == 0 {
		fmt.Println("Использование: go run ./cmd/admin -user <id> [-owner] [-products] [-orders] [-transactions] [-help-contact]")
		os.Exit(1)
	}

	a := &admins.Admin{
		UserID:             *userID,
		EditProducts:       *editProducts,
		ReceiveOrders:      *orders,
		CreateTransactions: *transactions,
		DisplayOnHelp:      *helpContact,
	}
	if *owner {
		a = admins.Owner(*userID)
	}

	if err := run(context.Background(), a); err != nil {
		log.WithError(err).Fatal("Не удалось сохранить права")
	}
	fmt.Printf("Права сохранены для %d\n", *userID)
}

func run(ctx context.Context, a *admins.Admin) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, app.Migrations()); err != nil {
		return err
	}

	if _, err := users.NewRepository(pool).GetByID(ctx, a.UserID); err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return fmt.Errorf("пользователь %d ещё не писал боту: %w", a.UserID, err)
		}
		return err
	}

	return admins.NewService(admins.NewRepository(pool)).Save(ctx, a)
}

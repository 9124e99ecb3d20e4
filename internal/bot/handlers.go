package bot

import (
	"context"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/features/catalog"
	"serotonyl.ru/shop-bot/internal/features/users"
	"serotonyl.ru/shop-bot/internal/notify"
	"serotonyl.ru/shop-bot/internal/render"
)

// Сколько последних транзакций показывать в /wallet.
const walletHistoryLimit = 10

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID int64, u *users.User, cmd string) {
	rc := b.renderContext(u.Language)

	switch cmd {
	case "start", "help":
		b.reply(ctx, chatID, rc.Text("start_text", render.Params{"name": u.Mention()})+b.helpContacts(ctx, rc))

	case "catalog", "каталог":
		b.handleCatalog(ctx, rc, chatID)

	case "wallet", "кошелек", "кошелёк":
		b.handleWallet(ctx, rc, chatID, u)

	case "orders", "заказы":
		b.handleOrders(ctx, rc, chatID, u)

	case "pending":
		b.handlePending(ctx, rc, chatID, u)
	}
}

// helpContacts - строка с контактами админов для справки (пустая, если их нет).
func (b *Bot) helpContacts(ctx context.Context, rc *render.Context) string {
	list, err := b.deps.Admins.HelpContacts(ctx)
	if err != nil {
		log.WithError(err).Warn("Не удалось получить контакты админов")
		return ""
	}
	mentions := make([]string, 0, len(list))
	for _, a := range list {
		au, err := b.deps.Users.Get(ctx, a.UserID)
		if err != nil {
			continue
		}
		mentions = append(mentions, au.Mention())
	}
	if len(mentions) == 0 {
		return ""
	}
	return rc.Text("help_contacts", render.Params{"contacts": strings.Join(mentions, ", ")})
}

func (b *Bot) handleCatalog(ctx context.Context, rc *render.Context, chatID int64) {
	categories, err := b.deps.Catalog.Categories(ctx)
	if err != nil {
		b.replyError(ctx, rc, chatID, err)
		return
	}
	for _, c := range categories {
		products, err := b.deps.Catalog.Products(ctx, catalog.ByCategory(c.ID))
		if err != nil {
			b.replyError(ctx, rc, chatID, err)
			return
		}
		if _, err := b.deps.Sender.SendCategory(ctx, chatID, c, strconv.Itoa(len(products))); err != nil {
			log.WithError(err).WithField("chat_id", chatID).Warn("Не удалось отправить категорию")
		}
		if err := b.sendSubCategories(ctx, chatID, c.ID); err != nil {
			b.replyError(ctx, rc, chatID, err)
			return
		}
	}
	if len(categories) > 0 {
		return
	}

	// Без категорий показываем весь каталог
	products, err := b.deps.Catalog.Products(ctx, catalog.Filter{})
	if err != nil {
		b.replyError(ctx, rc, chatID, err)
		return
	}
	if len(products) == 0 {
		b.reply(ctx, chatID, rc.Text("catalog_empty", nil))
		return
	}
	for _, p := range products {
		if _, err := b.deps.Sender.SendProduct(ctx, rc, chatID, p, true); err != nil {
			log.WithError(err).WithField("product_id", p.ID).Warn("Не удалось отправить товар")
		}
	}
}

// sendSubCategories отправляет подкатегории категории с числом товаров в каждой.
func (b *Bot) sendSubCategories(ctx context.Context, chatID, categoryID int64) error {
	subs, err := b.deps.Catalog.SubCategories(ctx, categoryID)
	if err != nil {
		return err
	}
	for _, sc := range subs {
		products, err := b.deps.Catalog.Products(ctx, catalog.BySubCategory(sc.ID))
		if err != nil {
			return err
		}
		if _, err := b.deps.Sender.SendSubCategory(ctx, chatID, sc, strconv.Itoa(len(products))); err != nil {
			log.WithError(err).WithField("chat_id", chatID).Warn("Не удалось отправить подкатегорию")
		}
	}
	return nil
}

func (b *Bot) handleWallet(ctx context.Context, rc *render.Context, chatID int64, u *users.User) {
	history, err := b.deps.Wallet.History(ctx, u.UserID)
	if err != nil {
		b.replyError(ctx, rc, chatID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString(rc.Text("wallet_text", render.Params{"credit": rc.Currency.FormatMinor(u.Credit())}))
	for i, t := range history {
		if i == walletHistoryLimit {
			break
		}
		sb.WriteString("\n")
		sb.WriteString(t.Text(rc, u.String()))
	}

	btc, err := b.deps.Wallet.BtcHistory(ctx, u.UserID)
	if err != nil {
		b.replyError(ctx, rc, chatID, err)
		return
	}
	for i, bt := range btc {
		if i == walletHistoryLimit {
			break
		}
		sb.WriteString("\n")
		sb.WriteString(bt.String(u.String()))
	}
	b.reply(ctx, chatID, sb.String())
}

func (b *Bot) handleOrders(ctx context.Context, rc *render.Context, chatID int64, u *users.User) {
	list, err := b.deps.Orders.ListByUser(ctx, u.UserID)
	if err != nil {
		b.replyError(ctx, rc, chatID, err)
		return
	}
	if len(list) == 0 {
		b.reply(ctx, chatID, rc.Text("no_orders", nil))
		return
	}
	for _, o := range list {
		b.reply(ctx, chatID, o.Text(rc, true))
	}
}

// handlePending - очередь заказов, только для админов, получающих заказы.
func (b *Bot) handlePending(ctx context.Context, rc *render.Context, chatID int64, u *users.User) {
	admin, err := b.deps.Admins.Get(ctx, u.UserID)
	if err != nil || !admin.ReceiveOrders {
		return
	}

	list, err := b.deps.Orders.ListPending(ctx)
	if err != nil {
		b.replyError(ctx, rc, chatID, err)
		return
	}
	if len(list) == 0 {
		b.reply(ctx, chatID, rc.Text("no_orders", nil))
		return
	}
	for _, o := range list {
		b.reply(ctx, chatID, o.Text(rc, false))
	}
}

// reply - утилита для отправки HTML-сообщения.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.deps.Sender.Send(ctx, chatID, text, nil, notify.ParseModeHTML); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

func (b *Bot) replyError(ctx context.Context, rc *render.Context, chatID int64, err error) {
	log.WithError(err).WithField("chat_id", chatID).Error("Ошибка обработки команды")
	b.reply(ctx, chatID, rc.Text("error_text", nil))
}

// Package orders - service.go: оформление, доставка и возврат заказов.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
	"serotonyl.ru/shop-bot/internal/features/catalog"
	"serotonyl.ru/shop-bot/internal/features/users"
	"serotonyl.ru/shop-bot/internal/features/wallet"
	"serotonyl.ru/shop-bot/internal/render"
)

// Notifier отправляет сообщение в чат (см. notify.Sender).
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string, image []byte, parseMode string) (int, error)
}

// Recipients отдаёт чаты админов, которые получают новые заказы.
type Recipients interface {
	OrderRecipients(ctx context.Context) ([]int64, error)
}

// Service управляет заказами.
type Service struct {
	db       postgres.TxBeginner
	repo     *Repository
	catalog  *catalog.Repository
	users    *users.Repository
	txs      *wallet.Repository
	wallet   *wallet.Service
	notifier Notifier
	admins   Recipients
	rc       *render.Context // для уведомлений админам

	now func() time.Time
}

// Deps - зависимости сервиса заказов.
type Deps struct {
	DB         postgres.TxBeginner
	Repo       *Repository
	Catalog    *catalog.Repository
	Users      *users.Repository
	Txs        *wallet.Repository
	Wallet     *wallet.Service
	Notifier   Notifier   // может быть nil - тогда админы не уведомляются
	Recipients Recipients // может быть nil
	Render     *render.Context
}

// NewService создаёт сервис заказов.
func NewService(d Deps) *Service {
	return &Service{
		db:       d.DB,
		repo:     d.Repo,
		catalog:  d.Catalog,
		users:    d.Users,
		txs:      d.Txs,
		wallet:   d.Wallet,
		notifier: d.Notifier,
		admins:   d.Recipients,
		rc:       d.Render,
		now:      time.Now,
	}
}

// Place оформляет заказ и списывает его стоимость с кошелька.
//
// Всё в одной транзакции: блокировка пользователя, проверка товаров и
// баланса, заказ с позициями, транзакция списания, пересчёт кредита.
// productIDs - по одному ID на единицу товара (повторы = несколько штук).
//
// Ошибки: common.ErrEmptyOrder, common.ErrProductNotFound (нет или удалён),
// common.ErrNotForSale, common.ErrInsufficientCredit.
func (s *Service) Place(ctx context.Context, userID int64, productIDs []int64, notes string) (*Order, error) {
	if len(productIDs) == 0 {
		return nil, common.ErrEmptyOrder
	}

	var order *Order
	err := postgres.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		u, err := s.users.WithTx(tx).GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		products, err := s.catalog.WithTx(tx).GetProducts(ctx, productIDs)
		if err != nil {
			return err
		}
		byID := make(map[int64]*catalog.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		total := decimal.Zero
		for _, id := range productIDs {
			p, ok := byID[id]
			if !ok || p.Deleted {
				return fmt.Errorf("product_id=%d: %w", id, common.ErrProductNotFound)
			}
			if !p.ForSale() {
				return fmt.Errorf("product_id=%d: %w", id, common.ErrNotForSale)
			}
			total = total.Add(decimal.NewFromFloat(*p.Price))
		}
		totalMinor := s.rc.Currency.ToMinor(total)

		if u.Credit() < totalMinor {
			return fmt.Errorf("нужно %d, на кошельке %d: %w", totalMinor, u.Credit(), common.ErrInsufficientCredit)
		}

		o := &Order{UserID: userID, Notes: notes, User: u}
		repo := s.repo.WithTx(tx)
		if err := repo.Insert(ctx, o); err != nil {
			return err
		}
		for _, id := range productIDs {
			it := &OrderItem{OrderID: o.OrderID, ProductID: id, Product: byID[id]}
			if err := repo.InsertItem(ctx, it); err != nil {
				return err
			}
			o.Items = append(o.Items, it)
		}

		t := &wallet.Transaction{
			Value:   -totalMinor,
			Notes:   fmt.Sprintf("Заказ #%d", o.OrderID),
			OrderID: &o.OrderID,
		}
		if err := s.wallet.AddLocked(ctx, tx, u, t); err != nil {
			return err
		}
		o.Transaction = t
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id": order.OrderID,
		"user_id":  userID,
		"items":    len(order.Items),
		"total":    order.Total(),
		"credit":   order.User.Credit(),
	}).Info("Заказ оформлен")

	s.notifyAdmins(ctx, order)
	return order, nil
}

// notifyAdmins рассылает карточку нового заказа. Ошибки только логируются:
// заказ уже оплачен и сохранён.
func (s *Service) notifyAdmins(ctx context.Context, o *Order) {
	if s.notifier == nil || s.admins == nil {
		return
	}
	chats, err := s.admins.OrderRecipients(ctx)
	if err != nil {
		log.WithError(err).Warn("Не удалось получить список админов для уведомления")
		return
	}
	text := o.Text(s.rc, false)
	for _, chatID := range chats {
		if _, err := s.notifier.Send(ctx, chatID, text, nil, "HTML"); err != nil {
			log.WithError(err).WithField("chat_id", chatID).Warn("Не удалось уведомить админа о заказе")
		}
	}
}

// Deliver отмечает заказ доставленным.
func (s *Service) Deliver(ctx context.Context, orderID int64) (*Order, error) {
	var order *Order
	err := postgres.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)
		o, err := repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Final() {
			return fmt.Errorf("order_id=%d: %w", orderID, common.ErrOrderFinalized)
		}
		at := s.now()
		if err := repo.SetDelivered(ctx, orderID, at); err != nil {
			return err
		}
		o.DeliveryDate = &at
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("order_id", orderID).Info("Заказ доставлен")
	return order, nil
}

// Refund возвращает заказ: ставит дату и причину возврата, отменяет
// транзакцию оплаты и пересчитывает кредит, всё в одной транзакции.
func (s *Service) Refund(ctx context.Context, orderID int64, reason string) (*Order, error) {
	var order *Order
	err := postgres.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)
		o, err := repo.Get(ctx, orderID)
		if err != nil {
			return err
		}
		// Порядок блокировок как в кошельке: сначала пользователь
		u, err := s.users.WithTx(tx).GetForUpdate(ctx, o.UserID)
		if err != nil {
			return err
		}
		o, err = repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Final() {
			return fmt.Errorf("order_id=%d: %w", orderID, common.ErrOrderFinalized)
		}

		at := s.now()
		if err := repo.SetRefunded(ctx, orderID, at, reason); err != nil {
			return err
		}
		o.RefundDate = &at
		o.RefundReason = &reason

		t, err := s.txs.WithTx(tx).GetByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.wallet.RefundLocked(ctx, tx, u, t); err != nil {
			return err
		}
		o.User = u
		o.Transaction = t
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id": orderID,
		"user_id":  order.UserID,
		"credit":   order.User.Credit(),
	}).Info("Заказ возвращён")
	return order, nil
}

// Get возвращает заказ с позициями, оплатой и покупателем.
func (s *Service) Get(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.load(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByUser - заказы пользователя, новые сверху.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return list, s.loadAll(ctx, list)
}

// ListPending - необработанные заказы для админов.
func (s *Service) ListPending(ctx context.Context) ([]*Order, error) {
	list, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return list, s.loadAll(ctx, list)
}

func (s *Service) loadAll(ctx context.Context, list []*Order) error {
	for _, o := range list {
		if err := s.load(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, o *Order) error {
	items, err := s.repo.ListItems(ctx, o.OrderID)
	if err != nil {
		return err
	}
	o.Items = items

	t, err := s.txs.GetByOrder(ctx, o.OrderID)
	switch {
	case err == nil:
		o.Transaction = t
	case !errors.Is(err, common.ErrTransactionNotFound):
		return err
	}

	u, err := s.users.GetByID(ctx, o.UserID)
	if err != nil {
		return err
	}
	o.User = u
	return nil
}

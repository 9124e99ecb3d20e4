// Package wallet - service.go: изменения истории кошелька.
//
// Любое изменение истории идёт по одной схеме в одной транзакции БД:
//  1. блокируем строку пользователя (FOR UPDATE);
//  2. вставляем или меняем транзакцию;
//  3. читаем полную историю и пересчитываем кредит;
//  4. сохраняем кредит.
//
// Читатель никогда не увидит новую транзакцию без нового кредита и наоборот.
package wallet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/db/postgres"
	"serotonyl.ru/shop-bot/internal/features/users"
)

// Service управляет кошельками.
type Service struct {
	db    postgres.TxBeginner
	repo  *Repository
	users *users.Repository
}

// NewService создаёт сервис кошелька.
func NewService(db postgres.TxBeginner, repo *Repository, usersRepo *users.Repository) *Service {
	return &Service{db: db, repo: repo, users: usersRepo}
}

// Add записывает транзакцию и пересчитывает кредит владельца.
// Возвращает пользователя с новым кредитом.
func (s *Service) Add(ctx context.Context, t *Transaction) (*users.User, error) {
	if err := common.Validate(t); err != nil {
		return nil, err
	}

	var u *users.User
	err := postgres.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		locked, err := s.users.WithTx(tx).GetForUpdate(ctx, t.UserID)
		if err != nil {
			return err
		}
		if err := s.AddLocked(ctx, tx, locked, t); err != nil {
			return err
		}
		u = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"transaction_id": t.TransactionID,
		"user_id":        u.UserID,
		"value":          t.Value,
		"credit":         u.Credit(),
	}).Info("Транзакция записана")
	return u, nil
}

// AddLocked - Add для вызывающего, который уже открыл транзакцию tx
// и заблокировал строку u (так делает оформление заказа).
func (s *Service) AddLocked(ctx context.Context, tx postgres.DBTX, u *users.User, t *Transaction) error {
	t.UserID = u.UserID
	if err := s.repo.WithTx(tx).Insert(ctx, t); err != nil {
		return err
	}
	return s.recalculateLocked(ctx, tx, u)
}

// Refund помечает транзакцию возвращённой и пересчитывает кредит.
// Повторный возврат - common.ErrAlreadyRefunded.
func (s *Service) Refund(ctx context.Context, transactionID int64) (*users.User, error) {
	var u *users.User
	err := postgres.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		// Владелец нужен раньше, чем блокировка: пользователь всегда блокируется первым
		t, err := s.repo.WithTx(tx).Get(ctx, transactionID)
		if err != nil {
			return err
		}
		locked, err := s.users.WithTx(tx).GetForUpdate(ctx, t.UserID)
		if err != nil {
			return err
		}
		t, err = s.repo.WithTx(tx).GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if err := s.RefundLocked(ctx, tx, locked, t); err != nil {
			return err
		}
		u = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"transaction_id": transactionID,
		"user_id":        u.UserID,
		"credit":         u.Credit(),
	}).Info("Транзакция возвращена")
	return u, nil
}

// RefundLocked - Refund внутри уже открытой транзакции с заблокированным u.
func (s *Service) RefundLocked(ctx context.Context, tx postgres.DBTX, u *users.User, t *Transaction) error {
	if t.Refunded {
		return fmt.Errorf("transaction_id=%d: %w", t.TransactionID, common.ErrAlreadyRefunded)
	}
	if err := s.repo.WithTx(tx).SetRefunded(ctx, t.TransactionID); err != nil {
		return err
	}
	t.Refunded = true
	return s.recalculateLocked(ctx, tx, u)
}

// Recalculate заново выводит кредит из истории. Идемпотентно:
// сколько ни вызывай, результат тот же.
func (s *Service) Recalculate(ctx context.Context, userID int64) (*users.User, error) {
	var u *users.User
	err := postgres.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		locked, err := s.users.WithTx(tx).GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.recalculateLocked(ctx, tx, locked); err != nil {
			return err
		}
		u = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) recalculateLocked(ctx context.Context, tx postgres.DBTX, u *users.User) error {
	history, err := s.repo.WithTx(tx).ListByUser(ctx, u.UserID)
	if err != nil {
		return err
	}
	users.RecalculateCredit(u, history)
	return s.users.WithTx(tx).SaveCredit(ctx, u)
}

// History - транзакции пользователя, новые сверху.
func (s *Service) History(ctx context.Context, userID int64) ([]*Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListPage - страница всех транзакций для админки.
func (s *Service) ListPage(ctx context.Context, limit, offset int) ([]*Transaction, error) {
	return s.repo.ListPage(ctx, limit, offset)
}

// CreateBtc регистрирует крипто-платёж. Кредит не меняется.
func (s *Service) CreateBtc(ctx context.Context, b *BtcTransaction) error {
	return s.repo.InsertBtc(ctx, b)
}

func (s *Service) BtcHistory(ctx context.Context, userID int64) ([]*BtcTransaction, error) {
	return s.repo.ListBtcByUser(ctx, userID)
}

func (s *Service) UpdateBtcStatus(ctx context.Context, id int64, status int, txid *string) error {
	return s.repo.UpdateBtcStatus(ctx, id, status, txid)
}

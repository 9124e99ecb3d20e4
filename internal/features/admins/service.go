// Package admins - service.go: проверки прав и списки админов.
package admins

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/shop-bot/internal/common"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Get возвращает админа по user ID (common.ErrAdminNotFound, если это не админ).
func (s *Service) Get(ctx context.Context, userID int64) (*Admin, error) {
	return s.repo.Get(ctx, userID)
}

// IsAdmin - есть ли у пользователя запись в admins.
func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	_, err := s.repo.Get(ctx, userID)
	if errors.Is(err, common.ErrAdminNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Save создаёт или обновляет админа.
func (s *Service) Save(ctx context.Context, a *Admin) error {
	if err := s.repo.Upsert(ctx, a); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id":  a.UserID,
		"is_owner": a.IsOwner,
	}).Info("Права админа сохранены")
	return nil
}

// HelpContacts - админы для раздела справки.
func (s *Service) HelpContacts(ctx context.Context) ([]*Admin, error) {
	return s.repo.ListDisplayedOnHelp(ctx)
}

// OrderRecipients - чаты админов, которым приходят заказы
// (для лички чат совпадает с user ID).
func (s *Service) OrderRecipients(ctx context.Context) ([]int64, error) {
	list, err := s.repo.ListReceivingOrders(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

// ToggleLiveMode переключает живой режим.
func (s *Service) ToggleLiveMode(ctx context.Context, userID int64, on bool) error {
	return s.repo.SetLiveMode(ctx, userID, on)
}

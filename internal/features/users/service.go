// Package users - service.go содержит бизнес-логику регистрации пользователей.
package users

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Service управляет пользователями магазина.
type Service struct {
	repo            *Repository
	defaultLanguage string
}

// NewService создаёт сервис пользователей.
// defaultLanguage подставляется, если Telegram не прислал language_code.
func NewService(repo *Repository, defaultLanguage string) *Service {
	return &Service{repo: repo, defaultLanguage: defaultLanguage}
}

// EnsureUser вызывается на каждое обращение к боту.
// Новый пользователь создаётся с нулевым кредитом, у существующего
// обновляются имя и username (они могли поменяться в Telegram).
//
// Параметры:
//   - userID: Telegram user ID
//   - firstName, lastName, username: данные из Telegram (пустые строки - нет значения)
//   - languageCode: language_code из Telegram (может быть пустым)
func (s *Service) EnsureUser(ctx context.Context, userID int64, firstName, lastName, username, languageCode string) (*User, error) {
	u := NewUser(userID, firstName, lastName, username, languageCode, s.defaultLanguage)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("ошибка регистрации пользователя: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"user":    u.String(),
	}).Debug("Пользователь зарегистрирован/обновлён")

	return u, nil
}

// Get возвращает пользователя по Telegram user ID.
func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// SetLanguage меняет язык интерфейса.
func (s *Service) SetLanguage(ctx context.Context, userID int64, language string) error {
	return s.repo.UpdateLanguage(ctx, userID, language)
}

// List - страница пользователей для админки.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, error) {
	return s.repo.List(ctx, limit, offset)
}

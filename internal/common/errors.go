// Package common - errors.go определяет пользовательские ошибки,
// которые используются во всех модулях магазина.
// Эти ошибки позволяют вызывающему коду различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Нарушения ограничений БД. Запись отклоняется, повторов нет.
var (
	// ErrDuplicateCharge - платёж с такой парой (provider, provider_charge_id) уже записан
	ErrDuplicateCharge = errors.New("платёж уже зарегистрирован")
	// ErrDuplicateVariation - вариация уже привязана к товару
	ErrDuplicateVariation = errors.New("вариация уже привязана к товару")
)

// Не найдено (только для поиска по ключу; пустой список - не ошибка)
var (
	ErrUserNotFound        = errors.New("пользователь не найден")
	ErrProductNotFound     = errors.New("товар не найден")
	ErrVariationNotFound   = errors.New("вариация не найдена")
	ErrOrderNotFound       = errors.New("заказ не найден")
	ErrTransactionNotFound = errors.New("транзакция не найдена")
	ErrAdminNotFound       = errors.New("администратор не найден")
)

// Ошибки вызывающего кода
var (
	// ErrInvalidStyle - неизвестный стиль отображения товара
	ErrInvalidStyle = errors.New("недопустимый стиль отображения")
	// ErrInvalidInput - данные не прошли проверку
	ErrInvalidInput = errors.New("некорректные данные")
)

// Бизнес-отказы
var (
	// ErrNotForSale - у товара нет цены
	ErrNotForSale = errors.New("товар не продаётся")
	// ErrInsufficientCredit - на кошельке не хватает средств на заказ
	ErrInsufficientCredit = errors.New("недостаточно средств на кошельке")
	// ErrEmptyOrder - заказ без товаров
	ErrEmptyOrder = errors.New("в заказе нет товаров")
	// ErrAlreadyRefunded - транзакция уже возвращена
	ErrAlreadyRefunded = errors.New("транзакция уже возвращена")
	// ErrOrderFinalized - заказ уже доставлен или возвращён
	ErrOrderFinalized = errors.New("заказ уже закрыт")
)

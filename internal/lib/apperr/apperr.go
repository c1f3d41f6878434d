// Package apperr описывает типизированные ошибки приложения и их отображение
// на HTTP-статусы. Сервисы оборачивают причину в Error нужного вида,
// обработчики выбирают код ответа через HTTPStatus.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind вид ошибки.
type Kind int

const (
	// KindValidation некорректные входные данные.
	KindValidation Kind = iota + 1
	// KindNotFound запрошенная сущность не существует.
	KindNotFound
	// KindConflict операция противоречит текущему состоянию.
	KindConflict
	// KindExternal сбой внешнего сервиса.
	KindExternal
	// KindPersistence сбой хранилища.
	KindPersistence
	// KindForbidden недостаточно прав.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindExternal:
		return "external_service"
	case KindPersistence:
		return "persistence"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error ошибка с видом и сообщением для клиента.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation создает ошибку валидации.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound создает ошибку отсутствующей сущности.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict создает ошибку конфликта состояния.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Forbidden создает ошибку доступа.
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// External оборачивает сбой внешнего сервиса.
func External(service string, err error) error {
	return &Error{Kind: KindExternal, Message: service + " unavailable", Err: err}
}

// Persistence оборачивает сбой хранилища.
func Persistence(err error) error {
	return &Error{Kind: KindPersistence, Message: "storage failure", Err: err}
}

// Is сообщает, относится ли err к виду kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Message возвращает сообщение для клиента или fallback, если err не типизирована.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindPersistence {
		return e.Message
	}
	return fallback
}

// HTTPStatus подбирает HTTP-статус для ошибки.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternal:
		return http.StatusBadGateway
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

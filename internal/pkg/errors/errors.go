package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверные учетные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrIncompleteSubmission используется, когда в отправке ответов отсутствуют
	// обязательные поля (peserta_id, exam_id или сам список jawaban).
	ErrIncompleteSubmission = errors.New("incomplete submission")

	// ErrLoginQuotaExceeded используется, когда квота входов по коду приглашения исчерпана.
	ErrLoginQuotaExceeded = errors.New("login quota exceeded")

	// ErrConflict используется для конфликтов состояния (например, дубликат email).
	ErrConflict = errors.New("resource state conflict")
)

// Package sl содержит вспомогательные функции для логгера slog,
// чтобы обработчики и сервисы единообразно добавляли поля ошибок
// в структурированные записи лога.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("login failed", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

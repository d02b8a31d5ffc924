package idempotency

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var (
	ErrStoreUnavailable = errors.New("idempotency: store unavailable")
	ErrCorruptedEntry   = errors.New("idempotency: corrupted entry")
)

// defaultLockTTL сколько живет отметка о выполняющемся запросе,
// если процесс упал, не успев сохранить ответ
const defaultLockTTL = 30 * time.Second

// CachedResponse запись по ключу идемпотентности.
// Пока запрос выполняется, StatusCode равен нулю.
type CachedResponse struct {
	Fingerprint string      `json:"fingerprint"`
	StatusCode  int         `json:"status_code,omitempty"`
	Headers     http.Header `json:"headers,omitempty"`
	Body        []byte      `json:"body,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// InProgress возвращает true, если ответ еще не сохранен
func (r *CachedResponse) InProgress() bool {
	return r.StatusCode == 0
}

// Store хранилище ответов по ключу идемпотентности.
//
// Reserve атомарно занимает ключ за запросом с отпечатком fingerprint.
// Если ключ уже занят, возвращает существующую запись и reserved=false.
// Занятый ключ либо завершается через Complete, либо освобождается через Release.
type Store interface {
	Reserve(ctx context.Context, key, fingerprint string) (existing *CachedResponse, reserved bool, err error)
	Complete(ctx context.Context, key string, response *CachedResponse) error
	Release(ctx context.Context, key string) error
	Close() error
}

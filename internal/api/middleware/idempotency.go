package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/pkg/idempotency"
)

// HeaderIdempotencyKey заголовок с ключом идемпотентности по умолчанию
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay выставляется, когда ответ отдан из кэша
const HeaderIdempotentReplay = "Idempotent-Replayed"

const (
	maxIdempotencyKeyLength = 255

	// maxFingerprintBody сколько байт тела учитывается в отпечатке запроса
	maxFingerprintBody = 1 << 20
)

const (
	msgInvalidIdempotencyKey = "слишком длинный ключ идемпотентности"
	msgRequestInProgress     = "запрос с этим ключом идемпотентности еще выполняется"
	msgKeyReused             = "ключ идемпотентности уже использован с другим запросом"
	msgUnreadableBody        = "не удалось прочитать тело запроса"
)

// responseCapture дублирует ответ в буфер для сохранения в кэш
type responseCapture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *responseCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

// Idempotency повторяет сохраненный ответ для POST запросов с одинаковым ключом.
// Ключ привязан к пользователю, поэтому middleware ставится после Auth.
// Пока первый запрос выполняется, дубликаты получают 409.
// Тот же ключ с другим телом запроса получает 422.
// Кэшируются только успешные (2xx) ответы, после ошибки ключ освобождается.
func Idempotency(store idempotency.Store, header string, logger Logger) func(http.Handler) http.Handler {
	if header == "" {
		header = HeaderIdempotencyKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(header)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if len(key) > maxIdempotencyKeyLength {
				handlers.RespondBadRequest(w, msgInvalidIdempotencyKey)
				return
			}

			userID, _ := GetUserID(r.Context())
			storeKey := fmt.Sprintf("%d:%s:%s", userID, r.URL.Path, key)

			fingerprint, err := fingerprintRequest(r)
			if err != nil {
				logger.Warn("Idempotency - failed to read body for key %s: %v", storeKey, err)
				handlers.RespondBadRequest(w, msgUnreadableBody)
				return
			}

			// 1. Занимаем ключ или получаем уже сохраненный ответ
			existing, reserved, err := store.Reserve(r.Context(), storeKey, fingerprint)
			if err != nil {
				logger.Warn("Idempotency - store unavailable for key %s, skipping: %v", storeKey, err)
				next.ServeHTTP(w, r)
				return
			}

			if !reserved {
				switch {
				case existing.Fingerprint != fingerprint:
					logger.Warn("Idempotency - key %s reused with another payload", storeKey)
					handlers.RespondError(w, http.StatusUnprocessableEntity, msgKeyReused)
				case existing.InProgress():
					logger.Info("Idempotency - key %s is still in progress", storeKey)
					handlers.RespondConflict(w, msgRequestInProgress)
				default:
					logger.Info("Idempotency - replaying response for key %s", storeKey)
					replay(w, existing)
				}
				return
			}

			// 2. Выполняем запрос; без сохраненного ответа ключ освобождается
			completed := false
			defer func() {
				if completed {
					return
				}
				if err := store.Release(context.WithoutCancel(r.Context()), storeKey); err != nil {
					logger.Warn("Idempotency - failed to release key %s: %v", storeKey, err)
				}
			}()

			capture := &responseCapture{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)

			if capture.status < 200 || capture.status >= 300 {
				return
			}

			response := &idempotency.CachedResponse{
				Fingerprint: fingerprint,
				StatusCode:  capture.status,
				Headers:     w.Header().Clone(),
				Body:        capture.body.Bytes(),
			}
			if err := store.Complete(context.WithoutCancel(r.Context()), storeKey, response); err != nil {
				logger.Warn("Idempotency - failed to save key %s: %v", storeKey, err)
				return
			}
			completed = true
		})
	}
}

// fingerprintRequest считает sha256 от метода, пути и тела, возвращая тело обратно в запрос
func fingerprintRequest(r *http.Request) (string, error) {
	hash := sha256.New()
	hash.Write([]byte(r.Method + " " + r.URL.Path + "\n"))

	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxFingerprintBody))
		if err != nil {
			return "", err
		}
		hash.Write(body)
		r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// replay отдает сохраненный ответ. X-Request-Id остается от текущего запроса.
func replay(w http.ResponseWriter, cached *idempotency.CachedResponse) {
	for name, values := range cached.Headers {
		if http.CanonicalHeaderKey(name) == HeaderRequestID {
			continue
		}
		w.Header()[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
	w.Header().Set(HeaderIdempotentReplay, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}

package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Заголовки, которые проставляет API gateway после проверки токена
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const (
	msgMissingUser = "требуется авторизация"
	msgInvalidUser = "некорректный идентификатор пользователя"
	msgInvalidRole = "некорректная роль пользователя"
)

type contextKey string

const callerKey contextKey = "caller"

// Auth извлекает пользователя из заголовков и кладет его в контекст.
// Роль по умолчанию customer.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		if rawID == "" {
			handlers.RespondUnauthorized(w, msgMissingUser)
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUser)
			return
		}

		role := domain.RoleCustomer
		if rawRole := r.Header.Get(HeaderUserRole); rawRole != "" {
			role = domain.Role(rawRole)
			if !role.IsValid() {
				handlers.RespondForbidden(w, msgInvalidRole)
				return
			}
		}

		ctx := WithCaller(r.Context(), domain.Caller{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithCaller кладет пользователя в контекст
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// GetCaller достает пользователя из контекста
func GetCaller(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}

// GetUserID достает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	caller, ok := GetCaller(ctx)
	if !ok {
		return 0, false
	}
	return caller.UserID, true
}

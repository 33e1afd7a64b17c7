package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/keviiweb/VBS-sub000/internal/api/handlers"
)

// UserIDHeader заголовок с идентификатором пользователя (email), выставляемый шлюзом
const UserIDHeader = "X-User-ID"

const msgMissingUser = "не указан заголовок X-User-ID"

type userKey struct{}

// Auth требует заголовок X-User-ID и кладёт идентификатор в контекст
// Проверка прав - забота шлюза
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgMissingUser)
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID возвращает идентификатор пользователя из контекста
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok && userID != ""
}

// WithUserID кладёт идентификатор пользователя в контекст (для тестов хендлеров)
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

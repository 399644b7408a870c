package context

import (
	"context"

	"github.com/avoronov/pomodoro-backend/internal/domain"
)

const contextKeyTelegramUser = contextKey("telegramUser")

// TelegramUserFromContext extracts the authenticated Telegram identity from the context.
// Returns the identity and true if present, or a zero value and false if not present.
func TelegramUserFromContext(ctx context.Context) (domain.TelegramUser, bool) {
	user, ok := ctx.Value(contextKeyTelegramUser).(domain.TelegramUser)

	return user, ok
}

// WithTelegramUser creates a new context carrying the authenticated Telegram identity.
// This context can be used to track the authenticated user throughout a request.
func WithTelegramUser(ctx context.Context, user domain.TelegramUser) context.Context {
	return context.WithValue(ctx, contextKeyTelegramUser, user)
}

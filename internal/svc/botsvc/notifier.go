package botsvc

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/svc/pomodorosvc"
)

// TelegramNotifier delivers notifications through the bot API.
// For private chats the chat ID equals the Telegram user ID.
type TelegramNotifier struct {
	send sender
	log  logging.Logger
}

var _ pomodorosvc.Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a notifier backed by the given bot API client.
func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{
		send: api,
		log:  logging.GetLogger("svc.botsvc.notifier"),
	}
}

// Notify sends text to the user's private chat.
func (n *TelegramNotifier) Notify(ctx context.Context, userID int64, text string) error {
	if _, err := n.send.Send(tgbotapi.NewMessage(userID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	n.log.DebugContext(ctx, "notification sent", "user_id", userID)

	return nil
}

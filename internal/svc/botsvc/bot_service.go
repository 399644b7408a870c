package botsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/svc/pomodorosvc"
)

var ErrNoBotToken = errors.New("no bot token configured")

// BotConfig contains configuration parameters for the Telegram bot.
type BotConfig struct {
	// BotToken is the Telegram bot API token
	BotToken string `env:"BOT_TOKEN"`

	// MiniAppURL is the public URL of the Mini App, attached to /start replies
	MiniAppURL string `env:"MINI_APP_URL" default:""`

	// PollTimeout is the long-poll timeout in seconds
	PollTimeout int `env:"POLL_TIMEOUT" default:"30"`
}

// UserRegistry registers chat users on first contact.
type UserRegistry interface {
	GetOrCreate(ctx context.Context, tg domain.TelegramUser) (*domain.User, error)
}

// StatsProvider supplies the aggregated numbers for the /stats command.
type StatsProvider interface {
	StatsSummary(ctx context.Context, tg domain.TelegramUser) (pomodorosvc.Overview, error)
}

// sender is the slice of the bot API used to deliver messages.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type handlerFunc func(ctx context.Context, msg *tgbotapi.Message) error

// BotService runs the Telegram bot: it polls for updates and dispatches
// commands to their handlers. Every handler is wrapped in a guard that
// recovers panics and replies with an apology instead of going silent.
type BotService struct {
	cfg      BotConfig
	api      *tgbotapi.BotAPI
	send     sender
	users    UserRegistry
	stats    StatsProvider
	handlers map[string]handlerFunc
	log      logging.Logger
}

// NewBotService creates a new BotService instance connected to the Telegram API.
func NewBotService(cfg BotConfig, users UserRegistry, stats StatsProvider) (*BotService, error) {
	if cfg.BotToken == "" {
		return nil, ErrNoBotToken
	}

	log := logging.GetLogger("svc.botsvc")

	_ = tgbotapi.SetLogger(logging.GetLogLogger(log, logging.LevelDebug))

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}

	return newBotService(cfg, api, api, users, stats, log), nil
}

func newBotService(
	cfg BotConfig,
	api *tgbotapi.BotAPI,
	send sender,
	users UserRegistry,
	stats StatsProvider,
	log logging.Logger,
) *BotService {
	s := &BotService{
		cfg:      cfg,
		api:      api,
		send:     send,
		users:    users,
		stats:    stats,
		handlers: nil,
		log:      log,
	}
	s.handlers = map[string]handlerFunc{
		"start": s.handleStart,
		"stats": s.handleStats,
		"help":  s.handleHelp,
	}

	return s
}

// Run polls for updates until ctx is cancelled.
func (s *BotService) Run(ctx context.Context) error {
	update := tgbotapi.NewUpdate(0)
	update.Timeout = s.cfg.PollTimeout

	updates := s.api.GetUpdatesChan(update)

	go func() {
		<-ctx.Done()
		s.api.StopReceivingUpdates()
	}()

	s.log.InfoContext(ctx, "bot started", "username", s.api.Self.UserName)

	for upd := range updates {
		s.Dispatch(ctx, upd)
	}

	s.log.InfoContext(ctx, "bot stopped")

	return nil
}

// Dispatch routes a single update to its command handler. Non-command
// messages and unknown commands get a hint instead of silence.
func (s *BotService) Dispatch(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !msg.IsCommand() {
		s.reply(ctx, msg.Chat.ID, "I only understand commands. Try /help.")

		return
	}

	handler, ok := s.handlers[msg.Command()]
	if !ok {
		s.reply(ctx, msg.Chat.ID, "Unknown command. Try /help.")

		return
	}

	s.guard(ctx, msg, handler)
}

func (s *BotService) guard(ctx context.Context, msg *tgbotapi.Message, handler handlerFunc) {
	log := s.log.With(logging.Group("command",
		"name", msg.Command(),
		"chat_id", msg.Chat.ID,
		"user_id", msg.From.ID,
	))

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "handler panicked", "panic", r)
			s.reply(ctx, msg.Chat.ID, "😔 Something went wrong. Please try again later.")
		}
	}()

	if err := handler(ctx, msg); err != nil {
		log.ErrorContext(ctx, "handler failed", "error", err)
		s.reply(ctx, msg.Chat.ID, "😔 Something went wrong. Please try again later.")

		return
	}

	log.DebugContext(ctx, "command handled")
}

func (s *BotService) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	u, err := s.users.GetOrCreate(ctx, telegramUser(msg.From))
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	text := fmt.Sprintf(
		"Hi %s! 🍅\n\nI track your pomodoro sessions and daily goals.\n"+
			"Your current daily goal is %d pomodoros.\n\n"+
			"Open the timer below to get started, or use /stats to see your progress.",
		displayName(u), u.DailyGoal,
	)

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	if s.cfg.MiniAppURL != "" {
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.InlineKeyboardButton{
				Text:   "🍅 Open Pomodoro Timer",
				WebApp: &tgbotapi.WebAppInfo{URL: s.cfg.MiniAppURL},
			}),
		)
	}

	if _, err := s.send.Send(out); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	return nil
}

func (s *BotService) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	ov, err := s.stats.StatsSummary(ctx, telegramUser(msg.From))
	if err != nil {
		return fmt.Errorf("stats summary: %w", err)
	}

	if _, err := s.send.Send(tgbotapi.NewMessage(msg.Chat.ID, StatsMessage(ov))); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	return nil
}

func (s *BotService) handleHelp(ctx context.Context, msg *tgbotapi.Message) error {
	text := "🍅 Pomodoro bot commands:\n\n" +
		"/start — register and open the timer\n" +
		"/stats — today's and weekly statistics\n" +
		"/help — this message"

	if _, err := s.send.Send(tgbotapi.NewMessage(msg.Chat.ID, text)); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	return nil
}

func (s *BotService) reply(ctx context.Context, chatID int64, text string) {
	if _, err := s.send.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		s.log.WarnContext(ctx, "send reply failed", "chat_id", chatID, "error", err)
	}
}

// StatsMessage renders an overview as chat text.
func StatsMessage(ov pomodorosvc.Overview) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Your pomodoro stats\n\n")
	fmt.Fprintf(&b, "Today (%s):\n", ov.Today.Date)
	fmt.Fprintf(&b, "  🍅 Completed: %d\n", ov.Today.PomodorosCompleted)
	fmt.Fprintf(&b, "  ⏱ Work minutes: %d\n", ov.Today.TotalWorkMinutes)
	fmt.Fprintf(&b, "  🎯 Goal: %d/%d\n\n", ov.Goal.Completed, ov.Goal.Goal)
	fmt.Fprintf(&b, "Last 7 days:\n")
	fmt.Fprintf(&b, "  🍅 Completed: %d\n", ov.Week.TotalPomodoros)
	fmt.Fprintf(&b, "  ⏱ Minutes: %d\n", ov.Week.TotalMinutes)
	fmt.Fprintf(&b, "  📈 Average per day: %.1f", ov.Week.AveragePerDay)

	if ov.Goal.Reached {
		b.WriteString("\n\n🎉 Daily goal reached, great work!")
	}

	return b.String()
}

func telegramUser(u *tgbotapi.User) domain.TelegramUser {
	return domain.TelegramUser{
		ID:           u.ID,
		Username:     u.UserName,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
	}
}

func displayName(u *domain.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}

	if u.Username != "" {
		return u.Username
	}

	return "there"
}

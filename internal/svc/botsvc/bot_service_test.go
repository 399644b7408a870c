package botsvc

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/svc/pomodorosvc"
)

var errBackend = errors.New("backend unavailable")

type mockSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m.err != nil {
		return tgbotapi.Message{}, m.err
	}

	m.sent = append(m.sent, c)

	return tgbotapi.Message{}, nil
}

func (m *mockSender) lastText(t *testing.T) string {
	t.Helper()

	require.NotEmpty(t, m.sent)

	msg, ok := m.sent[len(m.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)

	return msg.Text
}

type mockRegistry struct {
	user *domain.User
	err  error
}

func (m *mockRegistry) GetOrCreate(_ context.Context, tg domain.TelegramUser) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}

	if m.user != nil {
		return m.user, nil
	}

	return &domain.User{
		ID:                  tg.ID,
		Username:            tg.Username,
		FirstName:           tg.FirstName,
		DailyGoal:           domain.DefaultDailyGoal,
		NotificationEnabled: true,
	}, nil
}

type mockStats struct {
	overview pomodorosvc.Overview
	err      error
}

func (m *mockStats) StatsSummary(_ context.Context, _ domain.TelegramUser) (pomodorosvc.Overview, error) {
	return m.overview, m.err
}

func newTestBot(t *testing.T, cfg BotConfig, users UserRegistry, stats StatsProvider) (*BotService, *mockSender) {
	t.Helper()

	send := &mockSender{}

	return newBotService(cfg, nil, send, users, stats, logging.NewNopLogger()), send
}

func commandUpdate(command string) tgbotapi.Update {
	text := "/" + command

	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(text)},
			},
			From: &tgbotapi.User{ID: 42, UserName: "alice", FirstName: "Alice"},
			Chat: &tgbotapi.Chat{ID: 42},
		},
	}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			From: &tgbotapi.User{ID: 42, UserName: "alice"},
			Chat: &tgbotapi.Chat{ID: 42},
		},
	}
}

func TestDispatch_Start(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t,
		BotConfig{MiniAppURL: "https://example.com/app"},
		&mockRegistry{}, &mockStats{},
	)

	bot.Dispatch(context.Background(), commandUpdate("start"))

	require.Len(t, send.sent, 1)

	msg, ok := send.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)

	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Alice")
	assert.Contains(t, msg.Text, "8 pomodoros")
	assert.NotNil(t, msg.ReplyMarkup)
}

func TestDispatch_StartWithoutMiniAppURL(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{}, &mockStats{})

	bot.Dispatch(context.Background(), commandUpdate("start"))

	require.Len(t, send.sent, 1)

	msg, ok := send.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestDispatch_Stats(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{}, &mockStats{
		overview: pomodorosvc.Overview{
			Today: domain.TodayStats{Date: "2026-09-01", PomodorosCompleted: 5, TotalWorkMinutes: 125},
			Week:  domain.WeekStats{Period: "last_7_days", TotalPomodoros: 30, TotalMinutes: 750, AveragePerDay: 4.3},
			Goal:  domain.GoalStatus{Reached: false, Completed: 5, Goal: 8},
		},
	})

	bot.Dispatch(context.Background(), commandUpdate("stats"))

	text := send.lastText(t)
	assert.Contains(t, text, "2026-09-01")
	assert.Contains(t, text, "5/8")
	assert.Contains(t, text, "4.3")
	assert.NotContains(t, text, "goal reached")
}

func TestDispatch_StatsGoalReached(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{}, &mockStats{
		overview: pomodorosvc.Overview{
			Goal: domain.GoalStatus{Reached: true, Completed: 8, Goal: 8},
		},
	})

	bot.Dispatch(context.Background(), commandUpdate("stats"))

	assert.Contains(t, send.lastText(t), "goal reached")
}

func TestDispatch_Help(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{}, &mockStats{})

	bot.Dispatch(context.Background(), commandUpdate("help"))

	text := send.lastText(t)
	assert.Contains(t, text, "/start")
	assert.Contains(t, text, "/stats")
}

func TestDispatch_UnknownCommand(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{}, &mockStats{})

	bot.Dispatch(context.Background(), commandUpdate("frobnicate"))

	assert.Contains(t, send.lastText(t), "/help")
}

func TestDispatch_PlainText(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{}, &mockStats{})

	bot.Dispatch(context.Background(), textUpdate("hello"))

	assert.Contains(t, send.lastText(t), "/help")
}

func TestDispatch_HandlerErrorApologizes(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{err: errBackend}, &mockStats{})

	bot.Dispatch(context.Background(), commandUpdate("start"))

	assert.Contains(t, send.lastText(t), "Something went wrong")
}

func TestDispatch_HandlerPanicApologizes(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{}, &mockStats{})

	bot.handlers["start"] = func(context.Context, *tgbotapi.Message) error {
		panic("handler bug")
	}

	bot.Dispatch(context.Background(), commandUpdate("start"))

	assert.Contains(t, send.lastText(t), "Something went wrong")
}

func TestDispatch_IgnoresNonMessageUpdates(t *testing.T) {
	t.Parallel()

	bot, send := newTestBot(t, BotConfig{}, &mockRegistry{}, &mockStats{})

	bot.Dispatch(context.Background(), tgbotapi.Update{})

	assert.Empty(t, send.sent)
}

func TestNewBotService_NoToken(t *testing.T) {
	t.Parallel()

	_, err := NewBotService(BotConfig{}, &mockRegistry{}, &mockStats{})
	require.ErrorIs(t, err, ErrNoBotToken)
}

func TestTelegramNotifier_Notify(t *testing.T) {
	t.Parallel()

	send := &mockSender{}
	n := &TelegramNotifier{send: send, log: logging.NewNopLogger()}

	require.NoError(t, n.Notify(context.Background(), 42, "time for a break"))

	require.Len(t, send.sent, 1)

	msg, ok := send.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "time for a break", msg.Text)
}

func TestTelegramNotifier_SendError(t *testing.T) {
	t.Parallel()

	n := &TelegramNotifier{send: &mockSender{err: errBackend}, log: logging.NewNopLogger()}

	require.ErrorIs(t, n.Notify(context.Background(), 42, "hi"), errBackend)
}

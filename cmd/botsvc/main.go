package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/avoronov/pomodoro-backend/internal/infra/config"
	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/store"
	"github.com/avoronov/pomodoro-backend/internal/svc/botsvc"
	"github.com/avoronov/pomodoro-backend/internal/svc/pomodorosvc"
	"github.com/avoronov/pomodoro-backend/internal/svc/usersvc"
)

const (
	appName = "pomodoro"
	svcName = "botsvc"
)

type Config struct {
	config.EnvConfig

	Log   logging.LoggerConfig `envPrefix:"LOG_"`
	Store store.Config         `envPrefix:"STORE_"`
	Bot   botsvc.BotConfig     `envPrefix:"BOT_"`
}

func main() {
	_ = godotenv.Load()

	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.botsvc")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)

			return
		}

		log.InfoContext(ctx, "shutdown")
	}()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	userSvc := usersvc.NewUserService(st)
	pomodoroSvc := pomodorosvc.NewPomodoroService(st)

	bot, err := botsvc.NewBotService(cfg.Bot, userSvc, pomodoroSvc)
	if err != nil {
		return fmt.Errorf("new bot service: %w", err)
	}

	if err := bot.Run(ctx); err != nil {
		return fmt.Errorf("run bot: %w", err)
	}

	return nil
}

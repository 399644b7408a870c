package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/avoronov/pomodoro-backend/internal/infra/config"
	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/infra/transport/http"
	"github.com/avoronov/pomodoro-backend/internal/store"
	"github.com/avoronov/pomodoro-backend/internal/svc/authsvc"
	"github.com/avoronov/pomodoro-backend/internal/svc/botsvc"
	"github.com/avoronov/pomodoro-backend/internal/svc/pomodorosvc"
	"github.com/avoronov/pomodoro-backend/internal/svc/usersvc"
)

const (
	appName = "pomodoro"
	svcName = "apisvc"
)

type Config struct {
	config.EnvConfig

	Log   logging.LoggerConfig            `envPrefix:"LOG_"`
	Store store.Config                    `envPrefix:"STORE_"`
	Auth  authsvc.AuthConfig              `envPrefix:"AUTH_"`
	HTTP  pomodorosvc.HTTPTransportConfig `envPrefix:"HTTP_"`
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
	log := logging.GetLogger("cmd.apisvc")

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

	authSvc, err := authsvc.NewAuthService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("new auth service: %w", err)
	}

	userSvc := usersvc.NewUserService(st)
	pomodoroSvc := pomodorosvc.NewPomodoroService(st)

	var notifier pomodorosvc.Notifier

	if api, err := tgbotapi.NewBotAPI(cfg.Auth.BotToken); err != nil {
		log.WarnContext(ctx, "bot api unavailable, notifications disabled", "error", err)
	} else {
		notifier = botsvc.NewTelegramNotifier(api)
	}

	httpTransport := pomodorosvc.NewHTTPTransport(pomodoroSvc, userSvc, authSvc, notifier, cfg.HTTP)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.HTTP.HTTPTransportConfig); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

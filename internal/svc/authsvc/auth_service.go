package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
)

// ErrNoBotToken is returned when the service is constructed without a bot token.
var ErrNoBotToken = errors.New("no bot token")

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// BotToken is the shared bot secret the init data signature is keyed with
	BotToken string `env:"BOT_TOKEN"`

	// InitDataMaxAge is the maximum accepted age of a payload in seconds.
	// Zero disables the freshness check.
	InitDataMaxAge int64 `env:"INIT_DATA_MAX_AGE" default:"0"`
}

// Authenticator validates an inbound signed payload and yields a trusted
// Telegram identity. Implementations reject any malformed or badly signed
// input with a generic authentication failure.
type Authenticator interface {
	ValidateInitData(ctx context.Context, initData string) (domain.TelegramUser, error)
}

// AuthService validates Telegram WebApp init data payloads.
type AuthService struct {
	Config AuthConfig
	Log    logging.Logger
}

var _ Authenticator = (*AuthService)(nil)

// NewAuthService creates a new AuthService with the given configuration.
// Returns an error if no bot token is configured.
func NewAuthService(cfg AuthConfig) (*AuthService, error) {
	if cfg.BotToken == "" {
		return nil, ErrNoBotToken
	}

	return &AuthService{
		Config: cfg,
		Log:    logging.GetLogger("svc.authsvc.auth_service"),
	}, nil
}

// ValidateInitData implements Authenticator by checking the payload signature
// against the configured bot token. Returns the embedded Telegram identity on
// success, or an error wrapping domain.ErrInvalidInitData on any failure.
func (s *AuthService) ValidateInitData(ctx context.Context, initData string) (user domain.TelegramUser, err error) {
	log := s.Log

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "validate init data failed", "error", err)
		} else {
			log.DebugContext(ctx, "init data validated", logging.Group("user", "id", user.ID))
		}
	}()

	maxAge := time.Duration(s.Config.InitDataMaxAge) * time.Second

	user, err = ValidateInitData(initData, s.Config.BotToken, time.Now(), maxAge)
	if err != nil {
		return domain.TelegramUser{}, fmt.Errorf("validate init data: %w", err)
	}

	return user, nil
}

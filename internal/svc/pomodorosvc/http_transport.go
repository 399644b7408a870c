package pomodorosvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/svc/authsvc"

	context_ "github.com/avoronov/pomodoro-backend/internal/infra/context"
	http_ "github.com/avoronov/pomodoro-backend/internal/infra/transport/http"
)

// Service is the part of PomodoroService the HTTP transport consumes.
type Service interface {
	CompleteSession(
		ctx context.Context, tg domain.TelegramUser, mode domain.Mode, duration int, startedAt time.Time,
	) (CompleteResult, error)
	TodayOverview(ctx context.Context, userID int64) (Overview, error)
}

// UserGetter looks up a stored user for the user-info endpoint.
type UserGetter interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier delivers a chat message to a user. Delivery is best-effort: the
// transport logs failures and never lets them affect a committed operation.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig
}

// HTTPTransport handles HTTP requests for the Mini App API.
// It provides endpoints for completing sessions and reading stats and user info.
type HTTPTransport struct {
	svc      Service
	users    UserGetter
	auth     authsvc.Authenticator
	notifier Notifier
	log      logging.Logger
	cfg      HTTPTransportConfig
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport instance with the given configuration.
// The notifier may be nil, which disables completion notifications.
func NewHTTPTransport(
	svc Service,
	users UserGetter,
	auth authsvc.Authenticator,
	notifier Notifier,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	return &HTTPTransport{
		svc:      svc,
		users:    users,
		auth:     auth,
		notifier: notifier,
		log:      logging.GetLogger("svc.pomodorosvc.http_transport"),
		cfg:      cfg,
	}
}

// ServeHTTP implements http.Handler and sets up routes for the API endpoints:
// - POST /api/pomodoro/complete: record a completed session
// - GET /api/stats/today: today's stats and goal status
// - GET /api/user: user info
// - GET /api/health: liveness check
// All routes except the health check are protected by init data validation.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/pomodoro/complete", ht.HandleComplete)
	api.HandleFunc("GET /api/stats/today", ht.HandleTodayStats)
	api.HandleFunc("GET /api/user", ht.HandleUserInfo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", ht.HandleHealth)
	mux.Handle("/api/", http_.AuthorizingMiddleware(api, ht.auth, ht.log))

	mux.ServeHTTP(w, r)
}

// CompleteRequest is the body of a complete-session call.
type CompleteRequest struct {
	UserID    int64     `json:"user_id"`
	Mode      string    `json:"mode"`
	Duration  int       `json:"duration"`
	StartedAt time.Time `json:"started_at"`
}

// CompleteResponse is the reply to a complete-session call.
type CompleteResponse struct {
	Success    bool   `json:"success"`
	PomodoroID int64  `json:"pomodoro_id"`
	Message    string `json:"message"`
}

// StatsResponse is the reply to a today-stats call.
type StatsResponse struct {
	Date               string `json:"date"`
	PomodorosCompleted int    `json:"pomodoros_completed"`
	TotalWorkMinutes   int    `json:"total_work_minutes"`
	DailyGoal          int    `json:"daily_goal"`
	GoalReached        bool   `json:"goal_reached"`
}

// UserResponse is the reply to a user-info call.
type UserResponse struct {
	ID                  int64  `json:"id"`
	Username            string `json:"username"`
	FirstName           string `json:"first_name"`
	DailyGoal           int    `json:"daily_goal"`
	NotificationEnabled bool   `json:"notification_enabled"`
}

// HandleComplete processes complete-session requests.
// The claimed user ID must match the authenticated identity.
func (ht *HTTPTransport) HandleComplete(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleComplete(w, r)
}

func (ht *HTTPTransport) handleComplete(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "complete session failed", "error", err)
		} else {
			log.DebugContext(ctx, "session recorded")
		}
	}(r.Context())

	tgUser, ok := context_.TelegramUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

		return domain.ErrNoInitData
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("decode request: %w", err)
	}

	log = log.With(logging.Group("session", "user_id", req.UserID, "mode", req.Mode))

	if req.UserID != tgUser.ID {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)

		return fmt.Errorf("%w: claimed %d, authenticated %d", domain.ErrUserMismatch, req.UserID, tgUser.ID)
	}

	res, err := ht.svc.CompleteSession(r.Context(), tgUser, domain.Mode(req.Mode), req.Duration, req.StartedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMode) || errors.Is(err, domain.ErrInvalidDuration) {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		} else {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return fmt.Errorf("complete session: %w", err)
	}

	// The session is committed; notification failures stay out of the result.
	ht.notify(r.Context(), res)

	if err := json.NewEncoder(w).Encode(CompleteResponse{
		Success:    true,
		PomodoroID: res.Pomodoro.ID,
		Message:    "Pomodoro recorded successfully",
	}); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

func (ht *HTTPTransport) notify(ctx context.Context, res CompleteResult) {
	if ht.notifier == nil || !res.User.NotificationEnabled {
		return
	}

	if err := ht.notifier.Notify(ctx, res.User.ID, CompletionMessage(res.Pomodoro.Mode, res.Goal)); err != nil {
		ht.log.WarnContext(ctx, "send notification failed",
			logging.Group("user", "id", res.User.ID),
			"error", err,
		)
	}
}

// HandleTodayStats processes today-stats requests for the authenticated user.
func (ht *HTTPTransport) HandleTodayStats(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleTodayStats(w, r)
}

func (ht *HTTPTransport) handleTodayStats(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "today stats failed", "error", err)
		} else {
			log.DebugContext(ctx, "today stats served")
		}
	}(r.Context())

	tgUser, ok := context_.TelegramUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

		return domain.ErrNoInitData
	}

	ov, err := ht.svc.TodayOverview(r.Context(), tgUser.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		} else {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return fmt.Errorf("today overview: %w", err)
	}

	if err := json.NewEncoder(w).Encode(StatsResponse{
		Date:               ov.Today.Date,
		PomodorosCompleted: ov.Today.PomodorosCompleted,
		TotalWorkMinutes:   ov.Today.TotalWorkMinutes,
		DailyGoal:          ov.Goal.Goal,
		GoalReached:        ov.Goal.Reached,
	}); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// HandleUserInfo processes user-info requests for the authenticated user.
func (ht *HTTPTransport) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleUserInfo(w, r)
}

func (ht *HTTPTransport) handleUserInfo(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "user info failed", "error", err)
		} else {
			log.DebugContext(ctx, "user info served")
		}
	}(r.Context())

	tgUser, ok := context_.TelegramUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

		return domain.ErrNoInitData
	}

	u, err := ht.users.Get(r.Context(), tgUser.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		} else {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return fmt.Errorf("get user: %w", err)
	}

	if err := json.NewEncoder(w).Encode(UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		FirstName:           u.FirstName,
		DailyGoal:           u.DailyGoal,
		NotificationEnabled: u.NotificationEnabled,
	}); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// HandleHealth serves the unauthenticated liveness check.
func (ht *HTTPTransport) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

package http

import (
	"net/http"
	"strings"

	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/svc/authsvc"

	context_ "github.com/avoronov/pomodoro-backend/internal/infra/context"
)

const AuthorizationHeader = "Authorization"

// AuthorizingMiddleware creates middleware that validates Telegram WebApp
// init data. It requires an Authenticator for signature validation.
// Requests without a valid payload in the Authorization header are rejected.
// On successful validation, the Telegram identity is added to the request context.
func AuthorizingMiddleware(
	next http.Handler,
	auth authsvc.Authenticator,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(AuthorizationHeader)
		if header == "" {
			log.ErrorContext(r.Context(), "no init data provided")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

			return
		}

		initData, _ := strings.CutPrefix(header, "Bearer")
		initData = strings.TrimSpace(initData)

		user, err := auth.ValidateInitData(r.Context(), initData)
		if err != nil {
			log.ErrorContext(r.Context(), "validate init data failed", "error", err)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r.WithContext(context_.WithTelegramUser(r.Context(), user)))
	})
}

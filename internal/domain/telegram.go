package domain

import "errors"

var (
	// ErrInvalidInitData is returned for any malformed or badly signed WebApp payload.
	// The underlying cause is wrapped but intentionally not surfaced to clients.
	ErrInvalidInitData = errors.New("invalid init data")
	// ErrNoInitData is returned when an authenticated endpoint is called without a payload.
	ErrNoInitData = errors.New("no init data")
	// ErrUserMismatch is returned when a request body claims a different user
	// than the authenticated identity.
	ErrUserMismatch = errors.New("user id mismatch")
)

// TelegramUser is the identity embedded in a validated WebApp init data
// payload, or attached to an inbound bot update.
type TelegramUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

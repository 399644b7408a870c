package domain

import "errors"

var (
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidDailyGoal is returned when a daily goal update carries a negative value.
	ErrInvalidDailyGoal = errors.New("invalid daily goal")
)

// DefaultDailyGoal is the daily work-session goal assigned to newly created users.
const DefaultDailyGoal = 8

// User represents a Telegram user known to the system.
// The ID is the immutable Telegram user ID; it doubles as the chat ID for
// direct-message notifications.
type User struct {
	ID                  int64  // Telegram user ID
	Username            string // Telegram username, may be empty
	FirstName           string // Display first name, may be empty
	LastName            string // Display last name, may be empty
	LanguageCode        string // IETF language tag reported by Telegram, may be empty
	DailyGoal           int    // Work sessions per day the user aims for
	NotificationEnabled bool   // Whether chat notifications are sent
	CreatedAt           int64  // Unix timestamp of first contact
	UpdatedAt           int64  // Unix timestamp of the last preference change
}

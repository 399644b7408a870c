package domain

import "errors"

var (
	// ErrInvalidMode is returned when a session mode is outside the known enumeration.
	ErrInvalidMode = errors.New("invalid session mode")
	// ErrInvalidDuration is returned when a session duration is not a positive minute count.
	ErrInvalidDuration = errors.New("invalid session duration")
)

// Mode classifies a Pomodoro interval.
type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// Valid reports whether the mode is one of the known interval kinds.
func (m Mode) Valid() bool {
	switch m {
	case ModeWork, ModeShortBreak, ModeLongBreak:
		return true
	default:
		return false
	}
}

// Pomodoro is one completed interval. Rows are append-only: they are written
// once at completion time and never updated.
type Pomodoro struct {
	ID          int64 // Auto-incrementing identifier
	UserID      int64 // Owning Telegram user ID
	Mode        Mode  // Interval kind
	Duration    int   // Length in minutes
	Completed   bool  // Always true for recorded sessions
	StartedAt   int64 // Unix timestamp the interval was scheduled to start
	CompletedAt int64 // Unix timestamp the interval was recorded
}

// SessionDetail is the per-session slice of a daily summary.
type SessionDetail struct {
	Mode        Mode   `json:"mode"`
	Duration    int    `json:"duration"`
	CompletedAt string `json:"completed_at"` // RFC 3339
}

// TodayStats summarizes the current local calendar day. Only work-mode
// sessions are counted; the window is [midnight, next midnight) on the
// completion timestamp.
type TodayStats struct {
	Date               string          `json:"date"` // ISO date of the local day
	PomodorosCompleted int             `json:"pomodoros_completed"`
	TotalWorkMinutes   int             `json:"total_work_minutes"`
	Sessions           []SessionDetail `json:"sessions"`
}

// WeekStats summarizes the trailing seven days of work-mode sessions.
// AveragePerDay always divides by seven, not by the number of active days.
type WeekStats struct {
	Period         string  `json:"period"`
	TotalPomodoros int     `json:"total_pomodoros"`
	TotalMinutes   int     `json:"total_minutes"`
	AveragePerDay  float64 `json:"average_per_day"`
}

// GoalStatus is the outcome of a daily goal evaluation.
type GoalStatus struct {
	Reached   bool
	Completed int
	Goal      int
}

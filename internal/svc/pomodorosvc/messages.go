package pomodorosvc

import (
	"fmt"
	"strings"

	"github.com/avoronov/pomodoro-backend/internal/domain"
)

// CompletionMessage builds the chat text sent after a session is recorded.
// Work sessions include today's progress, and a congratulation is added the
// moment the daily goal is reached exactly.
func CompletionMessage(mode domain.Mode, goal domain.GoalStatus) string {
	var b strings.Builder

	switch mode {
	case domain.ModeWork:
		b.WriteString("🍅 Pomodoro complete! Time for a break.")
		fmt.Fprintf(&b, "\n\nToday: %d/%d pomodoros", goal.Completed, goal.Goal)

		if goal.Reached && goal.Completed == goal.Goal {
			b.WriteString("\n\n🎉 Congratulations, you reached your daily goal!")
		}
	case domain.ModeShortBreak:
		b.WriteString("☕ Short break over! Ready for the next pomodoro?")
	case domain.ModeLongBreak:
		b.WriteString("🌿 Long break over! Time to get back to work.")
	default:
		fmt.Fprintf(&b, "Session %q complete!", string(mode))
	}

	return b.String()
}

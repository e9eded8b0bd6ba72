package utils

import (
	"fmt"
	"math"
	"time"
)

// MessageType is a custom type used as a placeholder for various message types.
type MessageType int

// The message types used accross the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
	AlertMessage
)

// Colors used accross the CLI application.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
	AlertColor   = "\x1b[33m"
)

// colorize is switched off when the output is not a terminal.
var colorize = true

// DisableColors strips the escape sequences from the decorated messages.
func DisableColors() { colorize = false }

// DecorateText shows the message types in different colors.
func DecorateText(s string, msgType MessageType) string {
	if !colorize {
		return s
	}
	switch msgType {
	case DefaultMessage:
		s = DefaultColor + s
	case StatusMessage:
		s = StatusColor + s
	case SuccessMessage:
		s = SuccessColor + s
	case ErrorMessage:
		s = ErrorColor + s
	case AlertMessage:
		s = AlertColor + s
	default:
		return s
	}
	return s + DefaultColor
}

// FormatTime formats time.Duration output to a human readable value.
func FormatTime(d time.Duration) string {
	if d.Seconds() < 60.0 {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d.Minutes() < 60.0 {
		remainingSeconds := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%dm %.2fs", int64(d.Minutes()), remainingSeconds)
	}
	remainingMinutes := math.Mod(d.Minutes(), 60)
	remainingSeconds := math.Mod(d.Seconds(), 60)
	return fmt.Sprintf("%dh %dm %.2fs",
		int64(d.Hours()), int64(remainingMinutes), remainingSeconds)
}

// FormatRate formats the number of processed frames per second.
func FormatRate(frames int, d time.Duration) string {
	if d <= 0 {
		return "0.0 fps"
	}
	return fmt.Sprintf("%.1f fps", float64(frames)/d.Seconds())
}

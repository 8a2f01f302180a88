package relaycontrol

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// LogLevel sets the package log level, using logrus level numbering.
func LogLevel(level uint32) {
	log.SetLevel(log.Level(level))
}

func logEntry(relay int, action string) *log.Entry {
	return log.WithFields(log.Fields{
		"Relay":  relay,
		"Action": action,
		"Time":   time.Now().Format(time.RFC3339),
	})
}

// The helpers take the relay as int so that board wide actions can pass -1.

func LogDebug(relay int, action string, msg string) {
	logEntry(relay, action).Debug(msg)
}

func LogInfo(relay int, action string, msg string) {
	logEntry(relay, action).Info(msg)
}

func LogWarn(relay int, action string, msg string) {
	logEntry(relay, action).Warn(msg)
}

func LogError(relay int, action string, msg string) {
	logEntry(relay, action).Error(msg)
}

// allRelays is the relay value logged for actions that address the whole board.
const allRelays = -1

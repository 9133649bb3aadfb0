package notify

import "log/slog"

// Notifier is the platform notification dispatcher. The engine decides when
// to fire; implementations decide how, and may silently drop a notification
// (permission denied, platform missing) without affecting engine state.
type Notifier interface {
	// RequestPermission asks the platform for leave to notify.
	RequestPermission() bool
	// Fire delivers one notification. Failures are swallowed.
	Fire(title, body string)
}

// LogNotifier writes notifications to the structured log. It stands in for
// a real desktop dispatcher when the backend runs headless.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) RequestPermission() bool {
	return true
}

func (n *LogNotifier) Fire(title, body string) {
	n.logger.Info("notification", "title", title, "body", body)
}

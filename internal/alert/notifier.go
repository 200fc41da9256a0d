package alert

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Notifier delivers one notification. Implementations are fire-and-forget:
// the dispatcher does not retry, and delivery failure never affects dedup
// state.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// NotifierFunc is a function adapter for Notifier.
type NotifierFunc func(ctx context.Context, title, body string) error

func (f NotifierFunc) Notify(ctx context.Context, title, body string) error {
	return f(ctx, title, body)
}

// DesktopNotifier posts notifications through the host OS facility:
// osascript on macOS, notify-send elsewhere.
type DesktopNotifier struct{}

// NewDesktopNotifier creates a notifier for the current OS.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{}
}

func (n *DesktopNotifier) Notify(ctx context.Context, title, body string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	} else {
		cmd = exec.CommandContext(ctx, "notify-send", title, body)
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notification command: %w (%s)", err, out)
	}
	return nil
}

// LogNotifier writes notifications to the log. Used for headless runs and
// as the fallback when no desktop facility exists.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, title, body string) error {
	n.logger.Info("notification", "title", title, "body", body)
	return nil
}

// Package alert formats halt notifications and hands them to the
// notification collaborator. Delivery is best-effort: outcomes are logged,
// never fed back into dedup decisions.
package alert

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/haltwatch/internal/enrich"
	"github.com/rickgao/haltwatch/internal/model"
)

// Outcome is the delivery result for one alert.
type Outcome int

const (
	Delivered Outcome = iota
	Failed
)

func (o Outcome) String() string {
	if o == Delivered {
		return "delivered"
	}
	return "failed"
}

// Dispatcher formats and delivers alerts.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher delivering through notifier.
func NewDispatcher(notifier Notifier, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}
}

// Dispatch formats and delivers one alert, returning the delivery outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, ev model.HaltEvent, res enrich.Result) Outcome {
	alertID := uuid.New()
	title := Title(ev)
	body := Body(ev, res)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, title, body); err != nil {
		d.logger.Warn("notification delivery failed",
			"alert_id", alertID,
			"identity", ev.Identity,
			"symbol", ev.Symbol,
			"err", err,
		)
		return Failed
	}

	d.logger.Info("alert dispatched",
		"alert_id", alertID,
		"identity", ev.Identity,
		"symbol", ev.Symbol,
		"status", ev.Status,
	)
	return Delivered
}

// Title renders the notification title, e.g. "HALT: ABCD".
func Title(ev model.HaltEvent) string {
	if ev.Status == model.StatusResumed {
		return "RESUME: " + ev.Symbol
	}
	return "HALT: " + ev.Symbol
}

// Body renders the notification body. Absent fields render as "n/a".
func Body(ev model.HaltEvent, res enrich.Result) string {
	lines := []string{
		"Ticker: " + ev.Symbol,
		"Halt time: " + formatTime(ev.HaltTime),
		"Reason: " + orNA(ev.ReasonCode),
	}
	if ev.Status == model.StatusResumed {
		lines = append(lines, "Resume: "+formatTime(ev.ResumeTime))
	}
	lines = append(lines,
		"News: "+orNA(res.News.Link),
		"News summary: "+orNA(res.News.Summary),
		"Price: "+enrich.FormatPrice(res.Quote.Price),
		"Market cap: "+enrich.FormatCompact(res.Quote.MarketCap),
		"Float: "+enrich.FormatCompact(res.Quote.Float),
	)
	return strings.Join(lines, "\n")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return enrich.NA
	}
	return t.Format("2006-01-02 15:04:05")
}

func orNA(s string) string {
	if s == "" {
		return enrich.NA
	}
	return s
}

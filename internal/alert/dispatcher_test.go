package alert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/haltwatch/internal/enrich"
	"github.com/rickgao/haltwatch/internal/model"
)

func haltEvent() model.HaltEvent {
	return model.HaltEvent{
		Identity:   "ABCD#T1#2026-01-05T09:30:00",
		Symbol:     "ABCD",
		Status:     model.StatusHalted,
		ReasonCode: "T1",
		HaltTime:   time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC),
	}
}

func TestDispatchDelivered(t *testing.T) {
	var gotTitle, gotBody string
	notifier := NotifierFunc(func(_ context.Context, title, body string) error {
		gotTitle, gotBody = title, body
		return nil
	})

	d := NewDispatcher(notifier, time.Second, nil)
	price := decimal.NewFromFloat(3.21)
	res := enrich.Result{
		Quote: model.Quote{Price: &price},
		News:  model.NewsSummary{Link: "https://news.example/abcd", Summary: "ABCD halted pending news"},
	}

	if got := d.Dispatch(context.Background(), haltEvent(), res); got != Delivered {
		t.Fatalf("Dispatch = %v, want Delivered", got)
	}

	if gotTitle != "HALT: ABCD" {
		t.Errorf("title = %q, want %q", gotTitle, "HALT: ABCD")
	}
	for _, want := range []string{
		"Ticker: ABCD",
		"Reason: T1",
		"Price: $3.21",
		"Market cap: n/a",
		"Float: n/a",
		"News: https://news.example/abcd",
	} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body missing %q:\n%s", want, gotBody)
		}
	}
}

func TestDispatchFailed(t *testing.T) {
	notifier := NotifierFunc(func(_ context.Context, _, _ string) error {
		return errors.New("osascript exited 1")
	})

	d := NewDispatcher(notifier, time.Second, nil)
	if got := d.Dispatch(context.Background(), haltEvent(), enrich.Result{}); got != Failed {
		t.Errorf("Dispatch = %v, want Failed", got)
	}
}

func TestBodyResume(t *testing.T) {
	ev := haltEvent()
	ev.Status = model.StatusResumed
	ev.ResumeTime = time.Date(2026, 1, 5, 9, 40, 0, 0, time.UTC)

	body := Body(ev, enrich.Result{})
	if !strings.Contains(body, "Resume: 2026-01-05 09:40:00") {
		t.Errorf("resume body missing resume line:\n%s", body)
	}
	if Title(ev) != "RESUME: ABCD" {
		t.Errorf("Title = %q, want RESUME: ABCD", Title(ev))
	}
}

func TestBodyAllAbsent(t *testing.T) {
	ev := model.HaltEvent{Symbol: "EFGH", Status: model.StatusHalted}
	body := Body(ev, enrich.Result{})

	for _, want := range []string{
		"Halt time: n/a",
		"Reason: n/a",
		"News: n/a",
		"Price: n/a",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

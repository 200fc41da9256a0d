// Package normalize converts raw feed records into canonical HaltEvents.
//
// The identity key is the core of dedup correctness: the same logical halt
// must yield the same key on every fetch, regardless of incidental formatting
// differences (whitespace, timestamp precision), and a resume record for that
// halt must yield the key of the halt it resumes.
package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rickgao/haltwatch/internal/feed"
	"github.com/rickgao/haltwatch/internal/model"
)

// Error reports a single record that could not be normalized.
// The record is skipped; the rest of the batch is unaffected.
type Error struct {
	Reason string
	Symbol string
}

func (e *Error) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("normalize %s: %s", e.Symbol, e.Reason)
	}
	return "normalize: " + e.Reason
}

// Field aliases seen across feed schema revisions. The Nasdaq feed uses
// ndaq:IssueSymbol style names; older mirrors use snake_case.
var (
	symbolKeys     = []string{"issuesymbol", "symbol", "ticker"}
	reasonKeys     = []string{"reasoncode", "reason_code", "reason"}
	haltDateKeys   = []string{"haltdate", "halt_date", "date"}
	haltTimeKeys   = []string{"halttime", "halt_time"}
	resumeDateKeys = []string{"resumptiondate", "resumedate", "resume_date"}
	resumeTimeKeys = []string{"resumptiontradetime", "resumptionquotetime", "resumetime", "resume_time"}
)

// Record normalizes one raw feed record into a HaltEvent.
func Record(raw feed.RawRecord) (model.HaltEvent, error) {
	symbol := strings.ToUpper(raw.Get(symbolKeys...))
	if symbol == "" {
		return model.HaltEvent{}, &Error{Reason: "empty symbol"}
	}

	reason := strings.ToUpper(raw.Get(reasonKeys...))
	haltTime := parseTimestamp(raw.Get(haltDateKeys...), raw.Get(haltTimeKeys...))
	resumeTime := parseTimestamp(raw.Get(resumeDateKeys...), raw.Get(resumeTimeKeys...))

	status, err := classifyStatus(raw, reason, haltTime, resumeTime)
	if err != nil {
		return model.HaltEvent{}, &Error{Reason: err.Error(), Symbol: symbol}
	}

	ev := model.HaltEvent{
		Identity:   identity(raw, symbol, reason, haltTime),
		Symbol:     symbol,
		Status:     status,
		ReasonCode: reason,
		Market:     raw.Get("market"),
		HaltTime:   haltTime,
		ResumeTime: resumeTime,
		Raw:        raw.Fields,
	}
	return ev, nil
}

// classifyStatus decides HALTED vs RESUMED from feed markers. A populated
// resumption field, or a reason code mentioning RESUME, marks a resumption.
// A record with neither halt nor resume markers is unclassifiable.
func classifyStatus(raw feed.RawRecord, reason string, haltTime, resumeTime time.Time) (model.Status, error) {
	if !resumeTime.IsZero() || raw.Get(resumeDateKeys...) != "" || raw.Get(resumeTimeKeys...) != "" {
		return model.StatusResumed, nil
	}
	if strings.Contains(reason, "RESUME") {
		return model.StatusResumed, nil
	}
	if !haltTime.IsZero() || raw.Get(haltDateKeys...) != "" || reason != "" {
		return model.StatusHalted, nil
	}
	return "", fmt.Errorf("no halt or resume markers")
}

// identity derives the dedup key: symbol + reason + canonical halt timestamp.
// Resume records repeat the originating halt's date/time and reason, so both
// sides of a lifecycle share one key. Re-halts carry a fresh halt timestamp
// and therefore a fresh key.
func identity(raw feed.RawRecord, symbol, reason string, haltTime time.Time) string {
	ts := canonicalTime(haltTime, raw.Get(haltDateKeys...), raw.Get(haltTimeKeys...))

	if reason != "" || ts != "" {
		return symbol + "#" + reason + "#" + ts
	}

	// Degenerate record: no reason, no timestamp. Fall back to a digest of
	// the envelope fields so it still dedups against itself.
	envelope := strings.Join([]string{
		symbol,
		raw.Get("guid", "id"),
		raw.Get("title"),
		raw.Get("link"),
		raw.Get("pubdate", "published", "updated"),
	}, "|")
	sum := sha1.Sum([]byte(envelope))
	return "fallback:" + hex.EncodeToString(sum[:])
}

// Date and time layouts the feed has been observed to use.
var (
	dateLayouts = []string{"01/02/2006", "2006-01-02", "1/2/2006"}
	timeLayouts = []string{"15:04:05", "15:04"}
)

// parseTimestamp combines separate date and time fields into one time.Time.
// Returns the zero time when the date is absent or unparseable.
func parseTimestamp(date, clock string) time.Time {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}
	}

	var day time.Time
	ok := false
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, date); err == nil {
			day, ok = d, true
			break
		}
	}
	if !ok {
		return time.Time{}
	}

	clock = strings.TrimSpace(clock)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return day.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second)
		}
	}
	return day
}

// canonicalTime renders a timestamp at fixed (second) precision. When the
// fields never parsed, the trimmed raw fields stand in so the key is still
// stable across fetches.
func canonicalTime(ts time.Time, rawDate, rawTime string) string {
	if !ts.IsZero() {
		return ts.Format("2006-01-02T15:04:05")
	}
	raw := strings.TrimSpace(rawDate) + " " + strings.TrimSpace(rawTime)
	return strings.TrimSpace(raw)
}

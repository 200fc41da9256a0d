// Package dedup decides whether an observed halt event warrants an alert.
//
// Classification is a pure function of the event's status and the last
// status recorded for its identity. The caller classifies first, then
// upserts the store with the observed status regardless of the verdict;
// that ordering is what bounds alerts to one per state transition even
// when the same feed entry shows up across many cycles.
package dedup

import "github.com/rickgao/haltwatch/internal/model"

// Classify returns the verdict for an event against its prior record.
// prior is nil when the identity has never been seen.
//
//	prior      event    verdict
//	absent     HALTED   NewHalt
//	absent     RESUMED  Ignore (no tracked halt; recorded, not alerted)
//	HALTED     HALTED   Duplicate
//	HALTED     RESUMED  NewResume
//	RESUMED    HALTED   NewHalt (re-halt, treated as fresh)
//	RESUMED    RESUMED  Duplicate
func Classify(event model.HaltEvent, prior *model.EventRecord) model.Classification {
	if prior == nil {
		if event.Status == model.StatusResumed {
			return model.Ignore
		}
		return model.NewHalt
	}

	if prior.LastStatus == event.Status {
		return model.Duplicate
	}

	if event.Status == model.StatusResumed {
		return model.NewResume
	}
	return model.NewHalt
}

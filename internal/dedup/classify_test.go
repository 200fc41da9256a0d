package dedup

import (
	"testing"

	"github.com/rickgao/haltwatch/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		prior  *model.EventRecord
		status model.Status
		want   model.Classification
	}{
		{"absent halted", nil, model.StatusHalted, model.NewHalt},
		{"absent resumed", nil, model.StatusResumed, model.Ignore},
		{"halted halted", &model.EventRecord{LastStatus: model.StatusHalted}, model.StatusHalted, model.Duplicate},
		{"halted resumed", &model.EventRecord{LastStatus: model.StatusHalted}, model.StatusResumed, model.NewResume},
		{"resumed halted", &model.EventRecord{LastStatus: model.StatusResumed}, model.StatusHalted, model.NewHalt},
		{"resumed resumed", &model.EventRecord{LastStatus: model.StatusResumed}, model.StatusResumed, model.Duplicate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := model.HaltEvent{
				Identity: "ABCD#T1#2026-01-05T09:30:00",
				Symbol:   "ABCD",
				Status:   tc.status,
			}
			if got := Classify(ev, tc.prior); got != tc.want {
				t.Errorf("Classify(%s, prior=%v) = %v, want %v", tc.status, tc.prior, got, tc.want)
			}
		})
	}
}

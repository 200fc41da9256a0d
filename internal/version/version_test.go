package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origVersion := Version
	origCommit := Commit
	origBuildTime := BuildTime
	defer func() {
		Version = origVersion
		Commit = origCommit
		BuildTime = origBuildTime
	}()

	Version = "1.2.3"
	Commit = "abc1234"
	BuildTime = "2026-01-05T10:00:00Z"

	result := String()

	for _, want := range []string{"1.2.3", "abc1234", "2026-01-05T10:00:00Z"} {
		if !strings.Contains(result, want) {
			t.Errorf("String() = %q, should contain %q", result, want)
		}
	}
}

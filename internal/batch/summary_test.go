package batch

import (
	"testing"

	"charscan/internal/scan"
)

func TestFailurePercent(t *testing.T) {
	tests := []struct {
		count, failures int
		want            string
	}{
		{0, 0, "undefined"},
		{1, 1, "100%"},
		{4, 1, "25%"},
		{3, 1, "33.33%"},
		{3, 2, "66.67%"},
		{5, 0, "0%"},
	}
	for _, tt := range tests {
		s := Summary{Count: tt.count, FailureCount: tt.failures}
		if got := s.FailurePercent(); got != tt.want {
			t.Fatalf("FailurePercent(%d/%d) = %q, want %q", tt.failures, tt.count, got, tt.want)
		}
	}
}

func TestSummaryAdd(t *testing.T) {
	var s Summary
	for _, o := range []scan.Outcome{scan.Succeeded, scan.AlreadyDone, scan.NoFiles, scan.WriteFailed} {
		s.add(o)
	}
	if s.Count != 4 || s.FailureCount != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.Outcomes[scan.WriteFailed] != 1 {
		t.Fatalf("unexpected outcomes: %v", s.Outcomes)
	}
}

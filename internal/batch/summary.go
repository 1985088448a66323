package batch

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"charscan/internal/scan"
)

// Summary is the aggregate result of one batch run.
type Summary struct {
	RunID        string
	Project      string
	Count        int
	FailureCount int
	Outcomes     map[scan.Outcome]int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// FailureRate returns FailureCount/Count. ok is false when no datasets were
// located and the rate is undefined.
func (s Summary) FailureRate() (rate float64, ok bool) {
	if s.Count == 0 {
		return 0, false
	}
	return float64(s.FailureCount) / float64(s.Count), true
}

// FailurePercent renders the failure rate as a percentage, or "undefined".
func (s Summary) FailurePercent() string {
	rate, ok := s.FailureRate()
	if !ok {
		return "undefined"
	}
	pct := math.Round(rate*10000) / 100
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// String returns the one-line completion report.
func (s Summary) String() string {
	return fmt.Sprintf("Completed job. Failure count = %d. Percentage failed = %s", s.FailureCount, s.FailurePercent())
}

func (s *Summary) add(outcome scan.Outcome) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[scan.Outcome]int)
	}
	s.Count++
	s.Outcomes[outcome]++
	if outcome.Failed() {
		s.FailureCount++
	}
}

package track

import (
	"math"
	"time"
)

// warmupSeconds suppresses throughput extrapolation early in a job, when the
// elapsed divisor is still near zero and the estimate is mostly noise.
const warmupSeconds = 10

// Metrics are derived values, recomputed from scratch on every progress
// event and never persisted or carried across job instances. Nil means "not
// enough data yet", which the UI renders as a placeholder.
type Metrics struct {
	ThroughputPerMinute *int
	ETASeconds          *float64
}

func computeMetrics(completed, total int, elapsed time.Duration) Metrics {
	var m Metrics
	secs := elapsed.Seconds()
	if secs < 0 {
		secs = 0
	}

	if completed > 0 {
		perUnit := secs / float64(completed)
		eta := perUnit * float64(total-completed)
		if eta < 0 {
			eta = 0
		}
		m.ETASeconds = &eta
	}

	if secs > warmupSeconds {
		tpm := int(math.Round(float64(completed) / (secs / 60)))
		m.ThroughputPerMinute = &tpm
	}
	return m
}

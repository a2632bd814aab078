package track

import "agent-finder/internal/model"

// Outcome categories for one processed address, matching the wire counters.
const (
	OutcomeFound    = "found"
	OutcomePartial  = "partial"
	OutcomeCached   = "cached"
	OutcomeNotFound = "not_found"
)

// tickerCap bounds the outcome feed to the most recent entries.
const tickerCap = 8

// TickerEntry records the inferred outcome of the single most recently
// completed address. Seq is monotonic for the life of a job instance and
// resets only when the job is abandoned, so entries keep stable identity.
type TickerEntry struct {
	Seq     int    `json:"seq"`
	Address string `json:"address"`
	Outcome string `json:"outcome"`
}

// inferOutcome diffs the prior and next snapshots and reports which single
// category advanced, checked in fixed priority order: found > partial >
// cached > not_found. When a server-side batch flush advances more than one
// category in a single event, only the first match is reported; the other
// advances never reach the ticker. The stream carries no per-unit ordering
// that would let the delta be split correctly.
//
// No entry is produced when the prior snapshot has no in-flight address
// (the very first event of a job), because there is no label to attribute
// the completed unit to.
func (t *Tracker) inferOutcome(prior, next model.ProgressSnapshot) (TickerEntry, bool) {
	if prior.CurrentAddress == "" {
		return TickerEntry{}, false
	}

	var outcome string
	switch {
	case next.Found > prior.Found:
		outcome = OutcomeFound
	case next.Partial > prior.Partial:
		outcome = OutcomePartial
	case next.Cached > prior.Cached:
		outcome = OutcomeCached
	case next.NotFound > prior.NotFound:
		outcome = OutcomeNotFound
	default:
		return TickerEntry{}, false
	}

	t.seq++
	return TickerEntry{Seq: t.seq, Address: prior.CurrentAddress, Outcome: outcome}, true
}

// push prepends the entry and trims the feed to the cap, newest first.
func (t *Tracker) push(entry TickerEntry) {
	t.ticker = append([]TickerEntry{entry}, t.ticker...)
	if len(t.ticker) > tickerCap {
		t.ticker = t.ticker[:tickerCap]
	}
}

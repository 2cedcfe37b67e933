package crisis

import (
	"time"
)

// Observation is the tier a past session was classified at.
type Observation struct {
	At   time.Time
	Tier Tier
}

// Policy configures temporal escalation.
type Policy struct {
	Window      time.Duration
	MinSessions int
}

// DefaultPolicy escalates after three elevated sessions within a week.
func DefaultPolicy() Policy {
	return Policy{Window: 7 * 24 * time.Hour, MinSessions: 3}
}

// Escalate raises t by one step, capped at Tier4, when history holds at least
// p.MinSessions Tier2 or Tier3 observations within p.Window before now.
// None is never escalated.
func Escalate(t Tier, history []Observation, now time.Time, p Policy) Tier {
	if t == None || p.MinSessions <= 0 {
		return t
	}
	since := now.Add(-p.Window)
	n := 0
	for _, o := range history {
		if o.At.Before(since) || o.At.After(now) {
			continue
		}
		if o.Tier == Tier2 || o.Tier == Tier3 {
			n++
		}
	}
	if n < p.MinSessions {
		return t
	}
	return t.next()
}

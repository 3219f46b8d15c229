package data

import "time"

// TimeProvider supplies the updated_at stamp written by repositories.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the wall clock, truncated to the microsecond
// precision TIMESTAMPTZ keeps.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// FixedTimeProvider returns a settable instant. Tests advance it with AddTime.
type FixedTimeProvider struct {
	at time.Time
}

func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{at: t.UTC()}
}

func (f *FixedTimeProvider) Now() time.Time { return f.at }

func (f *FixedTimeProvider) AddTime(d time.Duration) { f.at = f.at.Add(d) }

package services

import "time"

const defaultDueLimit = 50

// Option configures the scheduling services.
type Option func(*options)

type options struct {
	now      func() time.Time
	loc      *time.Location
	dueLimit int
}

func newOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		loc:      time.Local,
		dueLimit: defaultDueLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the learner's time zone. Review hours and day boundaries
// are evaluated in it.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithDueLimit caps the number of cards returned by a due query.
func WithDueLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.dueLimit = n
		}
	}
}

// localNow is the current time in the learner's zone.
func (o options) localNow() time.Time {
	return o.now().In(o.loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package capacity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("slot end must be after slot start")
	ErrWindowInPast     = errors.New("slot start cannot be in the past")
)

// TimeWindow is a half-open [start, end) interval of bookable time.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, ErrInvalidTimeRange
	}

	return TimeWindow{start: start, end: end}, nil
}

// NewFutureTimeWindow additionally requires start to be strictly after now.
func NewFutureTimeWindow(start, end, now time.Time) (TimeWindow, error) {
	w, err := NewTimeWindow(start, end)
	if err != nil {
		return TimeWindow{}, err
	}
	if !start.After(now) {
		return TimeWindow{}, ErrWindowInPast
	}
	return w, nil
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Overlaps reports whether two half-open intervals intersect. Touching
// windows ([10,12) and [12,14)) do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

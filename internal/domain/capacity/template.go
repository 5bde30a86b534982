package capacity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDayOfWeek  = errors.New("day of week must be between 0 and 6")
	ErrInvalidTimeOfDay  = errors.New("invalid time of day")
	ErrTemplateTimeOrder = errors.New("template end time must be after start time")
	ErrTemplateInactive  = errors.New("template is inactive")
)

const minutesPerDay = 24 * 60

// MinuteOfDay is a clock time stored as minutes since midnight.
type MinuteOfDay int

func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m MinuteOfDay) Valid() bool {
	return m >= 0 && m < minutesPerDay
}

// Template is a recurring weekly rule used to mass-produce slots: one
// weekday, one time-of-day window, one default capacity.
type Template struct {
	id          uuid.UUID
	providerID  uuid.UUID
	serviceType ServiceType
	dayOfWeek   time.Weekday
	startTime   MinuteOfDay
	endTime     MinuteOfDay
	maxUnits    int32
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewTemplate(
	providerID uuid.UUID,
	serviceType ServiceType,
	dayOfWeek int,
	startTime, endTime MinuteOfDay,
	maxUnits int32,
) (*Template, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	if !startTime.Valid() || !endTime.Valid() {
		return nil, ErrInvalidTimeOfDay
	}
	if endTime <= startTime {
		return nil, ErrTemplateTimeOrder
	}
	if maxUnits <= 0 {
		return nil, ErrNonPositiveMaxUnits
	}

	return &Template{
		id:          uuid.New(),
		providerID:  providerID,
		serviceType: serviceType,
		dayOfWeek:   time.Weekday(dayOfWeek),
		startTime:   startTime,
		endTime:     endTime,
		maxUnits:    maxUnits,
		isActive:    true,
	}, nil
}

func ReconstructTemplate(
	id, providerID uuid.UUID,
	serviceType ServiceType,
	dayOfWeek int,
	startTime, endTime MinuteOfDay,
	maxUnits int32,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Template {
	return &Template{
		id:          id,
		providerID:  providerID,
		serviceType: serviceType,
		dayOfWeek:   time.Weekday(dayOfWeek),
		startTime:   startTime,
		endTime:     endTime,
		maxUnits:    maxUnits,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Expand produces candidate slot windows for every date in
// [rangeStart, rangeEnd] (dates inclusive) whose weekday matches the
// template, combining the date with the template's time-of-day fields.
// Candidates not strictly after now are dropped, so re-expanding an old
// range never resurrects past slots. Pure function, no persistence.
func (t *Template) Expand(rangeStart, rangeEnd, now time.Time) []TimeWindow {
	var windows []TimeWindow

	loc := rangeStart.Location()
	day := time.Date(rangeStart.Year(), rangeStart.Month(), rangeStart.Day(), 0, 0, 0, 0, loc)
	last := time.Date(rangeEnd.Year(), rangeEnd.Month(), rangeEnd.Day(), 0, 0, 0, 0, loc)

	for !day.After(last) {
		if day.Weekday() == t.dayOfWeek {
			start := day.Add(time.Duration(t.startTime) * time.Minute)
			end := day.Add(time.Duration(t.endTime) * time.Minute)
			if start.After(now) {
				windows = append(windows, TimeWindow{start: start, end: end})
			}
		}
		// AddDate handles DST transitions; never add hours here.
		day = day.AddDate(0, 0, 1)
	}

	return windows
}

func (t *Template) Deactivate() {
	t.isActive = false
}

func (t *Template) ID() uuid.UUID            { return t.id }
func (t *Template) ProviderID() uuid.UUID    { return t.providerID }
func (t *Template) ServiceType() ServiceType { return t.serviceType }
func (t *Template) DayOfWeek() time.Weekday  { return t.dayOfWeek }
func (t *Template) StartTime() MinuteOfDay   { return t.startTime }
func (t *Template) EndTime() MinuteOfDay     { return t.endTime }
func (t *Template) MaxUnits() int32          { return t.maxUnits }
func (t *Template) IsActive() bool           { return t.isActive }
func (t *Template) CreatedAt() time.Time     { return t.createdAt }
func (t *Template) UpdatedAt() time.Time     { return t.updatedAt }

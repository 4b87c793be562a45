package service

import (
	"time"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
)

// Clock supplies the current time in the shop's timezone
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a wall clock reporting times in loc
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock creates a clock stuck at t, for tests and replays
func NewFixedClock(t time.Time, loc *time.Location) *Clock {
	c := NewClock(loc)
	c.now = func() time.Time { return t }
	return c
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the revenue bucket key for the current local day
func (c *Clock) Today() string {
	return entity.DayKey(c.Now())
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

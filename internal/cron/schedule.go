package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	robfigcron "github.com/robfig/cron/v3"
)

// Schedule kinds as they appear in the stored schedule string.
const (
	KindEvery = "every"
	KindCron  = "cron"
	KindAt    = "at"
)

// atLayouts are accepted for one-shot "at" schedules without a zone.
var atLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ScheduleSpec carries the three mutually exclusive schedule specifiers.
// The first one present, in field order, wins.
type ScheduleSpec struct {
	EverySeconds int64
	CronExpr     string
	At           string
}

// Normalize validates the schedule and renders it as "every:<n>s",
// "cron:<expr>" or "at:<timestamp>".
func (s ScheduleSpec) Normalize() (string, error) {
	switch {
	case s.EverySeconds > 0:
		return fmt.Sprintf("%s:%ds", KindEvery, s.EverySeconds), nil
	case strings.TrimSpace(s.CronExpr) != "":
		expr := strings.TrimSpace(s.CronExpr)
		if _, err := robfigcron.ParseStandard(expr); err != nil {
			return "", errors.Wrapf(ErrInvalidSchedule, "cron expression %q: %v", expr, err)
		}
		return KindCron + ":" + expr, nil
	case strings.TrimSpace(s.At) != "":
		at := strings.TrimSpace(s.At)
		if _, err := parseAt(at); err != nil {
			return "", errors.Wrapf(ErrInvalidSchedule, "at %q: %v", at, err)
		}
		return KindAt + ":" + at, nil
	}
	return "", ErrScheduleRequired
}

// NextRun computes the next activation of a stored schedule string after now.
// It returns false for malformed schedules and for "at" times in the past.
func NextRun(schedule string, now time.Time) (time.Time, bool) {
	kind, value, ok := strings.Cut(schedule, ":")
	if !ok {
		return time.Time{}, false
	}
	switch kind {
	case KindEvery:
		secs, err := strconv.ParseInt(strings.TrimSuffix(value, "s"), 10, 64)
		if err != nil || secs <= 0 {
			return time.Time{}, false
		}
		return now.Add(time.Duration(secs) * time.Second), true
	case KindCron:
		sched, err := robfigcron.ParseStandard(value)
		if err != nil {
			return time.Time{}, false
		}
		return sched.Next(now), true
	case KindAt:
		t, err := parseAt(value)
		if err != nil || !t.After(now) {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

func parseAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range atLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DDTHH:MM[:SS]")
}

package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidHour    = errors.New("model: alarm hour out of range")
	ErrInvalidMinute  = errors.New("model: alarm minute out of range")
	ErrInvalidWeekday = errors.New("model: weekday out of range")
)

// Weekday numbering follows the notification identifier grammar:
// 1=Sunday .. 7=Saturday.
const (
	WeekdayMin = 1
	WeekdayMax = 7
)

type Alarm struct {
	ID             string
	Title          string
	Hour           int
	Minute         int
	Enabled        bool
	RepeatWeekdays []int
	AllowSnooze    bool
}

func (a Alarm) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: alarm id is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("model: alarm title is required")
	}
	if a.Hour < 0 || a.Hour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidHour, a.Hour)
	}
	if a.Minute < 0 || a.Minute > 59 {
		return fmt.Errorf("%w: %d", ErrInvalidMinute, a.Minute)
	}
	seen := make(map[int]bool, len(a.RepeatWeekdays))
	for _, w := range a.RepeatWeekdays {
		if w < WeekdayMin || w > WeekdayMax {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, w)
		}
		if seen[w] {
			return fmt.Errorf("model: duplicate weekday %d", w)
		}
		seen[w] = true
	}
	return nil
}

// IsDaily reports whether the alarm repeats every day. An empty weekday set
// means daily.
func (a Alarm) IsDaily() bool {
	return len(a.RepeatWeekdays) == 0
}

func NormalizeWeekdays(weekdays []int) []int {
	out := make([]int, 0, len(weekdays))
	seen := make(map[int]bool, len(weekdays))
	for _, w := range weekdays {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// GoWeekday converts the 1=Sunday..7=Saturday numbering to time.Weekday.
func GoWeekday(w int) time.Weekday {
	return time.Weekday(w - 1)
}

// DefaultBody picks the notification body for an alarm firing at the given
// hour of day.
func DefaultBody(hour int) string {
	switch {
	case hour >= 5 && hour <= 10:
		return "Good morning! Start your day at the altar."
	case hour >= 11 && hour <= 17:
		return "Pause for a moment of prayer."
	default:
		return "Good evening! End your day at the altar."
	}
}

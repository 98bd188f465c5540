package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	ErrInvalidTrigger    = errors.New("notify: invalid trigger")
	ErrMissingIdentifier = errors.New("notify: identifier is required")
)

type Kind string

const (
	KindAlarm    Kind = "alarm"
	KindReminder Kind = "reminder"
	KindFollowup Kind = "followup"
	KindSnooze   Kind = "snooze"
)

// Trigger is either a repeating calendar schedule or a one-off absolute time.
type Trigger struct {
	At       time.Time
	Schedule cron.Schedule
}

// OneOff fires once at the given time. Times already in the past fire
// immediately.
func OneOff(at time.Time) Trigger {
	return Trigger{At: at}
}

// Daily repeats every day at the given local wall-clock time.
func Daily(hour, minute int) (Trigger, error) {
	return calendarTrigger(fmt.Sprintf("%d %d * * *", minute, hour))
}

// Weekly repeats on one weekday (1=Sunday..7=Saturday) at the given local
// wall-clock time.
func Weekly(hour, minute, weekday int) (Trigger, error) {
	if weekday < 1 || weekday > 7 {
		return Trigger{}, fmt.Errorf("%w: weekday %d", ErrInvalidTrigger, weekday)
	}
	return calendarTrigger(fmt.Sprintf("%d %d * * %d", minute, hour, weekday-1))
}

func calendarTrigger(spec string) (Trigger, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return Trigger{}, fmt.Errorf("%w: %v", ErrInvalidTrigger, err)
	}
	return Trigger{Schedule: schedule}, nil
}

func (t Trigger) Repeats() bool {
	return t.Schedule != nil
}

// Next computes the trigger's next activation strictly from the given time
// for repeating triggers; one-off triggers always activate at their absolute
// time.
func (t Trigger) Next(now time.Time) time.Time {
	if t.Schedule != nil {
		return t.Schedule.Next(now)
	}
	return t.At
}

func (t Trigger) valid() bool {
	return t.Schedule != nil || !t.At.IsZero()
}

// Request is one scheduled notification, keyed by identifier.
type Request struct {
	ID      string
	Title   string
	Body    string
	Kind    Kind
	Trigger Trigger
}

// Delivery is emitted when a scheduled notification fires.
type Delivery struct {
	ID    string
	Title string
	Body  string
	Kind  Kind
	At    time.Time
}

// Action is a user response to a delivered notification.
type Action string

const (
	ActionOpen     Action = "open"
	ActionSnooze5  Action = "snooze-5"
	ActionSnooze10 Action = "snooze-10"
	ActionSnooze15 Action = "snooze-15"
	ActionDismiss  Action = "dismiss"
)

// SnoozeMinutes returns the snooze duration carried by a snooze action.
func (a Action) SnoozeMinutes() (int, bool) {
	switch a {
	case ActionSnooze5:
		return 5, true
	case ActionSnooze10:
		return 10, true
	case ActionSnooze15:
		return 15, true
	default:
		return 0, false
	}
}

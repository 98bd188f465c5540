package notify

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/altarhq/altard/internal/occurrence"
)

// Service is the delivery backend the scheduler drives. Engine implements it;
// tests substitute a recorder.
type Service interface {
	Submit(Request) error
	Cancel(id string)
	PendingIDs() []string
}

// ResponseSink receives user responses routed off notification interactions.
// The ringer implements it.
type ResponseSink interface {
	AlarmOpened(identifier string)
	AlarmSnoozed(identifier string, minutes int)
	AlarmDismissed(identifier string)
}

// PresentOptions controls how a delivery is surfaced while the app is in the
// foreground.
type PresentOptions struct {
	Banner bool
	Sound  bool
}

// Scheduler translates alarms and reminders into scheduled notifications.
// Scheduling failures are logged and swallowed; a failed schedule means the
// alarm will not ring, never that the calling flow breaks.
type Scheduler struct {
	svc  Service
	sink ResponseSink
}

func NewScheduler(svc Service) *Scheduler {
	return &Scheduler{svc: svc}
}

func (s *Scheduler) SetResponseSink(sink ResponseSink) {
	s.sink = sink
}

// ScheduleDaily registers a repeating daily trigger under the exact
// identifier, cancelling any schedule already held under it.
func (s *Scheduler) ScheduleDaily(id, title, body string, hour, minute int) {
	s.svc.Cancel(id)
	trigger, err := Daily(hour, minute)
	if err != nil {
		log.Printf("notify: daily trigger for %s: %v", id, err)
		return
	}
	s.submit(Request{ID: id, Title: title, Body: body, Kind: KindAlarm, Trigger: trigger})
}

// ScheduleWeeklySeries cancels everything under baseID and registers one
// repeating trigger per weekday with identifier "{baseID}-w{weekday}".
func (s *Scheduler) ScheduleWeeklySeries(baseID, title, body string, hour, minute int, weekdays []int) {
	s.CancelByPrefix(baseID)
	for _, weekday := range weekdays {
		trigger, err := Weekly(hour, minute, weekday)
		if err != nil {
			log.Printf("notify: weekly trigger for %s weekday %d: %v", baseID, weekday, err)
			continue
		}
		id := fmt.Sprintf("%s-w%d", baseID, weekday)
		s.submit(Request{ID: id, Title: title, Body: body, Kind: KindAlarm, Trigger: trigger})
	}
}

// ScheduleOneOff registers a single non-repeating trigger under the exact
// identifier, cancelling any schedule already held under it.
func (s *Scheduler) ScheduleOneOff(id, title, body string, kind Kind, at time.Time) {
	s.svc.Cancel(id)
	s.submit(Request{ID: id, Title: title, Body: body, Kind: kind, Trigger: OneOff(at)})
}

func (s *Scheduler) Cancel(id string) {
	s.svc.Cancel(id)
}

// CancelByPrefix enumerates pending requests and cancels every one whose
// identifier starts with prefix. Best effort: a request firing between
// enumeration and removal delivers anyway.
func (s *Scheduler) CancelByPrefix(prefix string) {
	for _, id := range s.svc.PendingIDs() {
		if strings.HasPrefix(id, prefix) {
			s.svc.Cancel(id)
		}
	}
}

// CancelFollowups removes every follow-up scheduled for the alarm family of
// baseID.
func (s *Scheduler) CancelFollowups(baseID string) {
	s.CancelByPrefix(baseID + occurrence.FollowupSuffixMarker)
}

// WillPresent reports how a delivery is surfaced while the app is in the
// foreground: always fully.
func (s *Scheduler) WillPresent(Delivery) PresentOptions {
	return PresentOptions{Banner: true, Sound: true}
}

// HandleResponse routes a user response to a delivered notification. Any
// interaction with any member of an alarm family cancels the whole family's
// follow-ups, so the base id is resolved before cancellation.
func (s *Scheduler) HandleResponse(identifier string, action Action) {
	base := occurrence.BaseID(identifier)
	s.CancelFollowups(base)

	if s.sink == nil {
		return
	}
	switch action {
	case ActionOpen:
		s.sink.AlarmOpened(identifier)
	case ActionDismiss:
		s.sink.AlarmDismissed(identifier)
	default:
		if minutes, ok := action.SnoozeMinutes(); ok {
			s.sink.AlarmSnoozed(identifier, minutes)
		}
	}
}

func (s *Scheduler) submit(req Request) {
	if err := s.svc.Submit(req); err != nil {
		log.Printf("notify: schedule %s: %v", req.ID, err)
	}
}

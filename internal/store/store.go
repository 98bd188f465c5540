package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/altarhq/altard/internal/followup"
	"github.com/altarhq/altard/internal/kvstore"
	"github.com/altarhq/altard/internal/model"
	"github.com/altarhq/altard/internal/notify"
)

var ErrNotFound = errors.New("store: not found")

const (
	alarmListKey    = "alarm.list"
	reminderListKey = "reminder.list"
)

// Store owns the alarm and reminder collections. Every mutation persists the
// collection and settles the notification schedule in the same call: cancel
// the old family first, then reschedule if still enabled.
type Store struct {
	mu        sync.Mutex
	kv        kvstore.Store
	sched     *notify.Scheduler
	followups *followup.Generator
	alarms    []model.Alarm
	reminders []model.Reminder
}

// Load reads the persisted collections. Missing keys mean empty collections;
// a corrupt blob is an error rather than silent data loss.
func Load(kv kvstore.Store, sched *notify.Scheduler, followups *followup.Generator) (*Store, error) {
	s := &Store{kv: kv, sched: sched, followups: followups}

	if err := loadList(kv, alarmListKey, &s.alarms); err != nil {
		return nil, fmt.Errorf("load alarms: %w", err)
	}
	if err := loadList(kv, reminderListKey, &s.reminders); err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	return s, nil
}

// RescheduleAll re-registers notifications for every enabled alarm and
// reminder, used at startup since the in-process delivery engine starts
// empty.
func (s *Store) RescheduleAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, alarm := range s.alarms {
		if alarm.Enabled {
			s.scheduleAlarmLocked(alarm)
		}
	}
	for _, rem := range s.reminders {
		if rem.Enabled {
			s.scheduleReminderLocked(rem)
		}
	}
}

func (s *Store) Alarms() []model.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Alarm, len(s.alarms))
	copy(out, s.alarms)
	return out
}

func (s *Store) Reminders() []model.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reminder, len(s.reminders))
	copy(out, s.reminders)
	return out
}

// AlarmTitle resolves a display title by base alarm id.
func (s *Store) AlarmTitle(baseID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, alarm := range s.alarms {
		if alarm.ID == baseID {
			return alarm.Title
		}
	}
	return ""
}

func (s *Store) AddAlarm(alarm model.Alarm) error {
	if err := alarm.Validate(); err != nil {
		return err
	}
	alarm.RepeatWeekdays = model.NormalizeWeekdays(alarm.RepeatWeekdays)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.alarms {
		if existing.ID == alarm.ID {
			return fmt.Errorf("store: alarm %s already exists", alarm.ID)
		}
	}
	s.alarms = append(s.alarms, alarm)
	s.persistAlarmsLocked()
	if alarm.Enabled {
		s.scheduleAlarmLocked(alarm)
	}
	return nil
}

func (s *Store) UpdateAlarm(alarm model.Alarm) error {
	if err := alarm.Validate(); err != nil {
		return err
	}
	alarm.RepeatWeekdays = model.NormalizeWeekdays(alarm.RepeatWeekdays)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.alarmIndexLocked(alarm.ID)
	if idx < 0 {
		return ErrNotFound
	}
	s.alarms[idx] = alarm
	s.persistAlarmsLocked()
	s.unscheduleAlarmLocked(alarm.ID)
	if alarm.Enabled {
		s.scheduleAlarmLocked(alarm)
	}
	return nil
}

// SetAlarmEnabled flips the enabled flag, persisting and settling the
// schedule in one step.
func (s *Store) SetAlarmEnabled(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.alarmIndexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.alarms[idx].Enabled = enabled
	s.persistAlarmsLocked()
	s.unscheduleAlarmLocked(id)
	if enabled {
		s.scheduleAlarmLocked(s.alarms[idx])
	}
	return nil
}

func (s *Store) RemoveAlarm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.alarmIndexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.alarms = append(s.alarms[:idx], s.alarms[idx+1:]...)
	s.persistAlarmsLocked()
	s.unscheduleAlarmLocked(id)
	return nil
}

func (s *Store) AddReminder(rem model.Reminder) error {
	if err := rem.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reminders {
		if existing.ID == rem.ID {
			return fmt.Errorf("store: reminder %s already exists", rem.ID)
		}
	}
	s.reminders = append(s.reminders, rem)
	s.persistRemindersLocked()
	if rem.Enabled {
		s.scheduleReminderLocked(rem)
	}
	return nil
}

func (s *Store) UpdateReminder(rem model.Reminder) error {
	if err := rem.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.reminderIndexLocked(rem.ID)
	if idx < 0 {
		return ErrNotFound
	}
	s.reminders[idx] = rem
	s.persistRemindersLocked()
	s.sched.Cancel(rem.ID)
	if rem.Enabled {
		s.scheduleReminderLocked(rem)
	}
	return nil
}

func (s *Store) RemoveReminder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.reminderIndexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.reminders = append(s.reminders[:idx], s.reminders[idx+1:]...)
	s.persistRemindersLocked()
	s.sched.Cancel(id)
	return nil
}

func (s *Store) alarmIndexLocked(id string) int {
	for i, alarm := range s.alarms {
		if alarm.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) reminderIndexLocked(id string) int {
	for i, rem := range s.reminders {
		if rem.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) scheduleAlarmLocked(alarm model.Alarm) {
	body := model.DefaultBody(alarm.Hour)
	if alarm.IsDaily() {
		s.sched.ScheduleDaily(alarm.ID, alarm.Title, body, alarm.Hour, alarm.Minute)
	} else {
		s.sched.ScheduleWeeklySeries(alarm.ID, alarm.Title, body, alarm.Hour, alarm.Minute, alarm.RepeatWeekdays)
	}
	s.followups.Schedule(alarm.ID, alarm.Title, alarm.Hour, alarm.Minute, alarm.RepeatWeekdays)
}

func (s *Store) unscheduleAlarmLocked(id string) {
	s.sched.CancelByPrefix(id)
	s.followups.Cancel(id)
}

func (s *Store) scheduleReminderLocked(rem model.Reminder) {
	s.sched.ScheduleOneOff(rem.ID, rem.Title, rem.Notes, notify.KindReminder, rem.Date)
}

func (s *Store) persistAlarmsLocked() {
	persistList(s.kv, alarmListKey, s.alarms)
}

func (s *Store) persistRemindersLocked() {
	persistList(s.kv, reminderListKey, s.reminders)
}

func loadList[T any](kv kvstore.Store, key string, out *[]T) error {
	raw, err := kv.GetString(key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil
		}
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

// persistList writes through; persistence failure is logged, not propagated,
// so a full disk never blocks dismissing an alarm.
func persistList[T any](kv kvstore.Store, key string, list []T) {
	raw, err := json.Marshal(list)
	if err != nil {
		log.Printf("store: marshal %s: %v", key, err)
		return
	}
	if err := kv.SetString(key, string(raw)); err != nil {
		log.Printf("store: persist %s: %v", key, err)
	}
}

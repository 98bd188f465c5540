package update

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altarhq/altard/internal/notify"
	"github.com/altarhq/altard/internal/ringer"
)

func newTestModel(t *testing.T) (Model, *Runtime) {
	t.Helper()
	rt := newTestRuntime(t, nil)
	return NewModel(rt, rt.Config), rt
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	typed, ok := next.(Model)
	if !ok {
		t.Fatalf("update returned %T", next)
	}
	return typed, cmd
}

func TestRingingEventSwitchesToOverlay(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := applyMsg(t, m, RingerEventMsg{Event: ringer.Event{
		Kind:       ringer.EventRinging,
		Title:      "Morning prayer",
		MaxSnoozes: 2,
	}})
	if m.CurrentView != ViewRinging {
		t.Fatalf("expected ringing view, got %s", m.CurrentView)
	}
	if m.Ring.Title != "Morning prayer" || m.Ring.MaxSnoozes != 2 {
		t.Fatalf("unexpected ring state: %+v", m.Ring)
	}
	if cmd == nil {
		t.Fatal("expected re-subscribe and spinner commands")
	}
}

func TestSnoozeKeyWhileRinging(t *testing.T) {
	m, rt := newTestModel(t)
	rt.Ringer.TriggerNow("Morning prayer", "")
	m, _ = applyMsg(t, m, RingerEventMsg{Event: ringer.Event{Kind: ringer.EventRinging, Title: "Morning prayer", MaxSnoozes: 2}})

	m, _ = applyMsg(t, m, keyMsg("s"))
	if rt.Ringer.SnoozeCount() != 1 {
		t.Fatalf("expected one snooze, got %d", rt.Ringer.SnoozeCount())
	}
	refires := 0
	for _, id := range rt.Engine.PendingIDs() {
		if strings.HasPrefix(id, "inapp-snooze-") {
			refires++
		}
	}
	if refires != 1 {
		t.Fatalf("expected one pending re-fire, got %v", rt.Engine.PendingIDs())
	}
}

func TestDismissKeyStartsPrayerSession(t *testing.T) {
	m, rt := newTestModel(t)
	rt.Ringer.TriggerNow("Morning prayer", "")
	m, _ = applyMsg(t, m, RingerEventMsg{Event: ringer.Event{Kind: ringer.EventRinging, Title: "Morning prayer", MaxSnoozes: 2}})

	m, _ = applyMsg(t, m, keyMsg("d"))
	if rt.Ringer.State() != ringer.StateIdle {
		t.Fatalf("expected idle ringer after dismiss, state %s", rt.Ringer.State())
	}

	// Ringer emits the start-prayer event; feed it back in as the program
	// loop would.
	m, cmd := applyMsg(t, m, RingerEventMsg{Event: ringer.Event{
		Kind:    ringer.EventStartPrayer,
		Title:   "Morning prayer",
		Minutes: 15,
	}})
	if m.CurrentView != ViewPrayer {
		t.Fatalf("expected prayer view, got %s", m.CurrentView)
	}
	if m.Prayer.Minutes != 15 {
		t.Fatalf("expected 15 minute session, got %d", m.Prayer.Minutes)
	}
	if cmd == nil {
		t.Fatal("expected timer start command")
	}
}

func TestReminderDeliverySetsStatusWithoutRinging(t *testing.T) {
	m, rt := newTestModel(t)

	m, _ = applyMsg(t, m, DeliveryMsg{Delivery: notify.Delivery{
		ID:    "r1",
		Title: "Evening reading",
		Kind:  notify.KindReminder,
	}})
	if rt.Ringer.State() != ringer.StateIdle {
		t.Fatal("reminder delivery must not ring")
	}
	if !strings.Contains(m.Status.Text, "Evening reading") {
		t.Fatalf("expected reminder status, got %q", m.Status.Text)
	}
}

func TestAlarmDeliveryRings(t *testing.T) {
	m, rt := newTestModel(t)

	_, _ = applyMsg(t, m, DeliveryMsg{Delivery: notify.Delivery{
		ID:    "a1",
		Title: "Morning prayer",
		Kind:  notify.KindAlarm,
	}})
	if rt.Ringer.State() != ringer.StateRinging {
		t.Fatalf("expected ringing after alarm delivery, state %s", rt.Ringer.State())
	}
	if rt.Ringer.BaseID() != "a1" {
		t.Fatalf("expected base id a1, got %q", rt.Ringer.BaseID())
	}
}

func TestQuickAddCaptureAddsAlarm(t *testing.T) {
	m, rt := newTestModel(t)

	m, _ = applyMsg(t, m, keyMsg("a"))
	if !m.captureMode {
		t.Fatal("expected capture mode after add key")
	}
	for _, r := range "7:30 Morning prayer" {
		m, _ = applyMsg(t, m, keyMsg(string(r)))
	}
	m, _ = applyMsg(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	alarms := rt.Store.Alarms()
	if len(alarms) != 1 {
		t.Fatalf("expected one alarm, got %v", alarms)
	}
	if alarms[0].Title != "Morning prayer" || alarms[0].Hour != 7 || alarms[0].Minute != 30 {
		t.Fatalf("unexpected alarm: %+v", alarms[0])
	}
	if m.captureMode {
		t.Fatal("expected capture mode cleared after enter")
	}
}

func TestParseAlarmSpec(t *testing.T) {
	tests := []struct {
		spec     string
		wantErr  bool
		hour     int
		minute   int
		weekdays []int
		title    string
	}{
		{spec: "7:30 Morning prayer", hour: 7, minute: 30, title: "Morning prayer"},
		{spec: "21:00 w:2,4,6 Midweek altar", hour: 21, minute: 0, weekdays: []int{2, 4, 6}, title: "Midweek altar"},
		{spec: "7:30", wantErr: true},
		{spec: "seven Morning", wantErr: true},
		{spec: "7:30 w:2,x Broken", wantErr: true},
	}
	for _, tc := range tests {
		alarm, err := parseAlarmSpec(tc.spec)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseAlarmSpec(%q): expected error", tc.spec)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseAlarmSpec(%q): %v", tc.spec, err)
		}
		if alarm.Hour != tc.hour || alarm.Minute != tc.minute || alarm.Title != tc.title {
			t.Fatalf("parseAlarmSpec(%q) = %+v", tc.spec, alarm)
		}
		if len(alarm.RepeatWeekdays) != len(tc.weekdays) {
			t.Fatalf("parseAlarmSpec(%q) weekdays = %v, want %v", tc.spec, alarm.RepeatWeekdays, tc.weekdays)
		}
	}
}

func TestParseReminderSpec(t *testing.T) {
	rem, err := parseReminderSpec("2025-06-01 19:00 Evening reading | Psalm 23", nil)
	if err != nil {
		t.Fatalf("parse reminder: %v", err)
	}
	if rem.Title != "Evening reading" || rem.Notes != "Psalm 23" {
		t.Fatalf("unexpected reminder: %+v", rem)
	}
	if rem.Date.Hour() != 19 || rem.Date.Minute() != 0 {
		t.Fatalf("unexpected reminder time: %v", rem.Date)
	}

	if _, err := parseReminderSpec("tomorrow Evening reading", nil); err == nil {
		t.Fatal("expected error for malformed reminder spec")
	}
}

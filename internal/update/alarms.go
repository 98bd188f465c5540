package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/altarhq/altard/internal/model"
	"github.com/altarhq/altard/internal/notify"
	"github.com/altarhq/altard/internal/views"
)

func (m Model) handleAlarmsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.captureMode = true
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "add alarm: HH:MM [w:1,3,5] title"}
		return m, nil
	case "e":
		if alarm, ok := m.selectedAlarm(); ok {
			if err := m.Runtime.Store.SetAlarmEnabled(alarm.ID, !alarm.Enabled); err != nil {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
			} else if alarm.Enabled {
				m.Status = StatusBar{Text: fmt.Sprintf("alarm disabled: %s", alarm.Title)}
			} else {
				m.Status = StatusBar{Text: fmt.Sprintf("alarm enabled: %s", alarm.Title)}
			}
		}
		return m, nil
	case "x":
		if alarm, ok := m.selectedAlarm(); ok {
			if err := m.Runtime.Store.RemoveAlarm(alarm.ID); err != nil {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
			} else {
				m.Status = StatusBar{Text: fmt.Sprintf("alarm removed: %s", alarm.Title)}
			}
		}
		return m, nil
	case "r":
		if alarm, ok := m.selectedAlarm(); ok {
			m.Runtime.Scheduler.HandleResponse(alarm.ID, notify.ActionOpen)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.alarmList, cmd = m.alarmList.Update(msg)
	return m, cmd
}

func (m Model) handleRemindersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.captureMode = true
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "add reminder: YYYY-MM-DD HH:MM title [| notes]"}
		return m, nil
	case "x":
		if rem, ok := m.selectedReminder(); ok {
			if err := m.Runtime.Store.RemoveReminder(rem.ID); err != nil {
				m.Status = StatusBar{Text: err.Error(), IsError: true}
			} else {
				m.Status = StatusBar{Text: fmt.Sprintf("reminder removed: %s", rem.Title)}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.reminderList, cmd = m.reminderList.Update(msg)
	return m, cmd
}

func (m Model) handleRingingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		m.Runtime.Ringer.Snooze(m.Config.SnoozeMinutes)
	case "d", "enter":
		m.Runtime.Ringer.DismissAndStartPrayer(m.Config.SessionMinutes)
	case "r":
		m.Runtime.Ringer.RejectNow()
	}
	// State transitions arrive through ringer events.
	return m, nil
}

func (m Model) handlePrayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.CurrentView = ViewAlarms
		m.Status = StatusBar{Text: "prayer session ended"}
		return m, m.prayerTimer.Stop()
	}
	return m, nil
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.captureMode = false
		m.quickAddInput.Blur()
		m.Status = StatusBar{}
		return m, nil
	case "enter":
		spec := strings.TrimSpace(m.quickAddInput.Value())
		m.captureMode = false
		m.quickAddInput.Blur()
		m.quickAddInput.SetValue("")
		if m.CurrentView == ViewReminders {
			return m.addReminderFromSpec(spec), nil
		}
		return m.addAlarmFromSpec(spec), nil
	}

	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

func (m Model) addAlarmFromSpec(spec string) Model {
	alarm, err := parseAlarmSpec(spec)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	alarm.ID = m.newID()
	if err := m.Runtime.Store.AddAlarm(alarm); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("alarm added: %s", alarm.Title)}
	return m
}

func (m Model) addReminderFromSpec(spec string) Model {
	rem, err := parseReminderSpec(spec, time.Local)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	rem.ID = m.newID()
	if err := m.Runtime.Store.AddReminder(rem); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("reminder added: %s", rem.Title)}
	return m
}

// parseAlarmSpec parses "HH:MM [w:1,3,5] title". Weekdays are 1=Sunday
// through 7=Saturday; omitting them makes the alarm daily.
func parseAlarmSpec(spec string) (model.Alarm, error) {
	fields := strings.Fields(spec)
	if len(fields) < 2 {
		return model.Alarm{}, fmt.Errorf("update: expected HH:MM [w:1,3,5] title, got %q", spec)
	}

	hour, minute, err := parseClock(fields[0])
	if err != nil {
		return model.Alarm{}, err
	}

	rest := fields[1:]
	var weekdays []int
	if strings.HasPrefix(rest[0], "w:") {
		for _, token := range strings.Split(strings.TrimPrefix(rest[0], "w:"), ",") {
			w, err := strconv.Atoi(strings.TrimSpace(token))
			if err != nil {
				return model.Alarm{}, fmt.Errorf("update: bad weekday %q", token)
			}
			weekdays = append(weekdays, w)
		}
		rest = rest[1:]
	}

	title := strings.Join(rest, " ")
	if title == "" {
		return model.Alarm{}, fmt.Errorf("update: alarm title missing in %q", spec)
	}

	return model.Alarm{
		Title:          title,
		Hour:           hour,
		Minute:         minute,
		Enabled:        true,
		RepeatWeekdays: weekdays,
		AllowSnooze:    true,
	}, nil
}

// parseReminderSpec parses "YYYY-MM-DD HH:MM title [| notes]".
func parseReminderSpec(spec string, loc *time.Location) (model.Reminder, error) {
	if loc == nil {
		loc = time.Local
	}
	fields := strings.Fields(spec)
	if len(fields) < 3 {
		return model.Reminder{}, fmt.Errorf("update: expected YYYY-MM-DD HH:MM title, got %q", spec)
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", fields[0]+" "+fields[1], loc)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("update: bad reminder time: %w", err)
	}

	title := strings.Join(fields[2:], " ")
	notes := ""
	if before, after, found := strings.Cut(title, "|"); found {
		title = strings.TrimSpace(before)
		notes = strings.TrimSpace(after)
	}
	if title == "" {
		return model.Reminder{}, fmt.Errorf("update: reminder title missing in %q", spec)
	}

	return model.Reminder{
		Title:   title,
		Notes:   notes,
		Date:    at,
		Enabled: true,
	}, nil
}

func parseClock(raw string) (int, int, error) {
	h, m, found := strings.Cut(raw, ":")
	if !found {
		return 0, 0, fmt.Errorf("update: expected HH:MM, got %q", raw)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("update: bad hour %q", h)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, 0, fmt.Errorf("update: bad minute %q", m)
	}
	return hour, minute, nil
}

func (m Model) selectedAlarm() (model.Alarm, bool) {
	alarms := m.Runtime.Store.Alarms()
	idx := m.alarmList.Index()
	if idx < 0 || idx >= len(alarms) {
		return model.Alarm{}, false
	}
	return alarms[idx], true
}

func (m Model) selectedReminder() (model.Reminder, bool) {
	reminders := m.Runtime.Store.Reminders()
	idx := m.reminderList.Index()
	if idx < 0 || idx >= len(reminders) {
		return model.Reminder{}, false
	}
	return reminders[idx], true
}

func describeAlarm(alarm model.Alarm) string {
	state := "on"
	if !alarm.Enabled {
		state = "off"
	}
	when := "daily"
	if !alarm.IsDaily() {
		names := make([]string, 0, len(alarm.RepeatWeekdays))
		for _, w := range alarm.RepeatWeekdays {
			names = append(names, model.GoWeekday(w).String()[:3])
		}
		when = strings.Join(names, ",")
	}
	return fmt.Sprintf("%02d:%02d %s [%s]", alarm.Hour, alarm.Minute, when, state)
}

func describeReminder(rem model.Reminder) string {
	desc := rem.Date.Format("2006-01-02 15:04")
	if rem.Notes != "" {
		desc += " | " + rem.Notes
	}
	if !rem.Enabled {
		desc += " [off]"
	}
	return desc
}

func (m Model) renderAlarmsView() string {
	return views.RenderAlarmsPanel(views.AlarmsPanelData{
		Capturing:    m.captureMode,
		QuickAddView: m.quickAddInput.View(),
		ListView:     m.alarmList.View(),
	})
}

func (m Model) renderRemindersView() string {
	return views.RenderRemindersPanel(views.RemindersPanelData{
		Capturing:    m.captureMode,
		QuickAddView: m.quickAddInput.View(),
		ListView:     m.reminderList.View(),
	})
}

func (m Model) renderRingingView() string {
	return views.RenderRingPanel(views.RingPanelData{
		Title:       m.Ring.Title,
		SnoozeCount: m.Ring.SnoozeCount,
		MaxSnoozes:  m.Ring.MaxSnoozes,
		CanSnooze:   m.Runtime.Ringer.CanSnooze(),
		SpinnerView: m.ringSpinner.View(),
	})
}

func (m Model) renderPrayerView() string {
	return views.RenderPrayerPanel(views.PrayerPanelData{
		Title:     m.Prayer.Title,
		Minutes:   m.Prayer.Minutes,
		TimerView: m.prayerTimer.View(),
	})
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Alarms, Action: "switch to Alarms"},
		{Key: m.Keys.Reminders, Action: "switch to Reminders"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewAlarms:
		return []KeyBinding{
			{Key: "a", Action: "add alarm"},
			{Key: "e", Action: "enable/disable alarm"},
			{Key: "x", Action: "delete alarm"},
			{Key: "r", Action: "ring now"},
			{Key: "j/k", Action: "move cursor"},
		}
	case ViewReminders:
		return []KeyBinding{
			{Key: "a", Action: "add reminder"},
			{Key: "x", Action: "delete reminder"},
			{Key: "j/k", Action: "move cursor"},
		}
	case ViewRinging:
		return []KeyBinding{
			{Key: "s", Action: "snooze"},
			{Key: "d/enter", Action: "pray now"},
			{Key: "r", Action: "dismiss"},
		}
	case ViewPrayer:
		return []KeyBinding{
			{Key: "enter/esc", Action: "finish early"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/altarhq/altard/internal/notify"
	"github.com/altarhq/altard/internal/ringer"
	"github.com/altarhq/altard/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Runtime == nil {
		return nil
	}
	return tea.Batch(
		waitForDeliveryCmd(m.Runtime.Engine.C()),
		waitForRingerEventCmd(m.Runtime.Ringer.Events()),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.syncBubbleData()

	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.captureMode {
			return m.handleCaptureKey(typed)
		}

		keyStr := typed.String()
		if keyStr == "ctrl+c" || keyStr == m.Keys.Quit {
			m.Quitting = true
			return m, tea.Quit
		}

		// The ringing overlay is modal; view switches wait until the chain
		// is settled.
		if m.CurrentView != ViewRinging {
			switch keyStr {
			case m.Keys.Alarms:
				m.CurrentView = ViewAlarms
				return m, nil
			case m.Keys.Reminders:
				m.CurrentView = ViewReminders
				return m, nil
			case m.Keys.Help:
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
		}

		switch m.CurrentView {
		case ViewAlarms:
			return m.handleAlarmsKey(typed)
		case ViewReminders:
			return m.handleRemindersKey(typed)
		case ViewRinging:
			return m.handleRingingKey(typed)
		case ViewPrayer:
			return m.handlePrayerKey(typed)
		}
	case spinner.TickMsg:
		if m.CurrentView == ViewRinging {
			var cmd tea.Cmd
			m.ringSpinner, cmd = m.ringSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case timer.TickMsg:
		var cmd tea.Cmd
		m.prayerTimer, cmd = m.prayerTimer.Update(typed)
		return m, cmd
	case timer.StartStopMsg:
		var cmd tea.Cmd
		m.prayerTimer, cmd = m.prayerTimer.Update(typed)
		return m, cmd
	case timer.TimeoutMsg:
		if m.CurrentView == ViewPrayer {
			m.CurrentView = ViewAlarms
			m.Status = StatusBar{Text: "prayer session complete"}
		}
		return m, nil
	case DeliveryMsg:
		return m.onDelivery(typed.Delivery)
	case RingerEventMsg:
		return m.onRingerEvent(typed.Event)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

// onDelivery routes a fired notification. Reminders surface as a status line;
// everything in an alarm family (primary, weekly, follow-up, snooze re-fire)
// rings.
func (m Model) onDelivery(d notify.Delivery) (tea.Model, tea.Cmd) {
	resub := waitForDeliveryCmd(m.Runtime.Engine.C())
	if d.Kind == notify.KindReminder {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", d.Title)}
		return m, resub
	}
	m.Runtime.Ringer.TriggerNow(d.Title, d.ID)
	return m, resub
}

func (m Model) onRingerEvent(ev ringer.Event) (tea.Model, tea.Cmd) {
	resub := waitForRingerEventCmd(m.Runtime.Ringer.Events())
	switch ev.Kind {
	case ringer.EventRinging:
		m.CurrentView = ViewRinging
		m.Ring = RingState{Title: ev.Title, SnoozeCount: ev.SnoozeCount, MaxSnoozes: ev.MaxSnoozes}
		return m, tea.Batch(resub, m.ringSpinner.Tick)
	case ringer.EventSnoozed:
		m.CurrentView = ViewAlarms
		m.Ring = RingState{Title: ev.Title, SnoozeCount: ev.SnoozeCount, MaxSnoozes: ev.MaxSnoozes}
		m.Status = StatusBar{Text: fmt.Sprintf("snoozed %d min (%d/%d)", ev.Minutes, ev.SnoozeCount, ev.MaxSnoozes)}
		return m, resub
	case ringer.EventStartPrayer:
		m.CurrentView = ViewPrayer
		m.Prayer = PrayerState{Title: ev.Title, Minutes: ev.Minutes}
		m.prayerTimer = timer.New(time.Duration(ev.Minutes) * time.Minute)
		return m, tea.Batch(resub, m.prayerTimer.Init())
	case ringer.EventIdle:
		m.CurrentView = ViewAlarms
		m.Ring = RingState{}
		return m, resub
	}
	return m, resub
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	body := ""
	switch m.CurrentView {
	case ViewAlarms:
		body = m.renderAlarmsView()
	case ViewReminders:
		body = m.renderRemindersView()
	case ViewRinging:
		body = m.renderRingingView()
	case ViewPrayer:
		body = m.renderPrayerView()
	}

	side := ""
	if m.HelpVisible && m.CurrentView != ViewRinging {
		side = m.renderHelpView()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("altard | view: %s", m.CurrentView),
		Body:       body,
		SidePane:   side,
		StatusLine: status,
		Footer:     fmt.Sprintf("keys: %s alarms | %s reminders | %s help | %s quit", m.Keys.Alarms, m.Keys.Reminders, m.Keys.Help, m.Keys.Quit),
	})
}

func waitForDeliveryCmd(ch <-chan notify.Delivery) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return DeliveryMsg{Delivery: d}
	}
}

func waitForRingerEventCmd(ch <-chan ringer.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return RingerEventMsg{Event: ev}
	}
}

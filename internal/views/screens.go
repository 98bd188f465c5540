package views

import (
	"fmt"
	"strings"
)

type AlarmsPanelData struct {
	Capturing    bool
	QuickAddView string
	ListView     string
}

type RemindersPanelData struct {
	Capturing    bool
	QuickAddView string
	ListView     string
}

type RingPanelData struct {
	Title       string
	SnoozeCount int
	MaxSnoozes  int
	CanSnooze   bool
	SpinnerView string
}

type PrayerPanelData struct {
	Title     string
	Minutes   int
	TimerView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

const prayerGuide = `# Time at the Altar

1. **Be still.** Take a slow breath and quiet your mind.
2. **Give thanks.** Name three things you are grateful for.
3. **Pray.** Bring your requests, then listen.

> "Be still, and know that I am God."
`

func RenderAlarmsPanel(data AlarmsPanelData) string {
	var b strings.Builder
	b.WriteString("alarms:\n")
	b.WriteString("actions: [a]add [e]toggle [x]delete [r]ring-now [j/k]move\n")
	if data.Capturing {
		b.WriteString(data.QuickAddView + "\n")
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderRemindersPanel(data RemindersPanelData) string {
	var b strings.Builder
	b.WriteString("reminders:\n")
	b.WriteString("actions: [a]add [x]delete [j/k]move\n")
	if data.Capturing {
		b.WriteString(data.QuickAddView + "\n")
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderRingPanel(data RingPanelData) string {
	title := data.Title
	if title == "" {
		title = "The Altar"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s RINGING: %s\n\n", data.SpinnerView, title))
	b.WriteString(fmt.Sprintf("snoozes used: %d/%d\n", data.SnoozeCount, data.MaxSnoozes))
	if data.CanSnooze {
		b.WriteString("actions: [s]snooze [d/enter]pray now [r]dismiss")
	} else {
		b.WriteString("actions: [d/enter]pray now [r]dismiss (snooze limit reached)")
	}
	return ringStyle.Render(b.String())
}

func RenderPrayerPanel(data PrayerPanelData) string {
	var b strings.Builder
	b.WriteString("prayer session:\n")
	if data.Title != "" {
		b.WriteString(fmt.Sprintf("alarm: %s\n", data.Title))
	}
	b.WriteString(fmt.Sprintf("remaining: %s (%d min session)\n", data.TimerView, data.Minutes))
	b.WriteString("actions: [enter/esc]finish early\n\n")
	b.WriteString(RenderMarkdown(prayerGuide))
	return strings.TrimSpace(b.String())
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

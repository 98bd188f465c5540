package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/timer"
	"github.com/google/uuid"

	"github.com/altarhq/altard/internal/notify"
	"github.com/altarhq/altard/internal/ringer"
)

type View string

const (
	ViewAlarms    View = "Alarms"
	ViewReminders View = "Reminders"
	ViewRinging   View = "Ringing"
	ViewPrayer    View = "Prayer"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Alarms    string
	Reminders string
	Help      string
	Quit      string
}

// RingState mirrors the last ringer event for rendering the ringing overlay.
type RingState struct {
	Title       string
	SnoozeCount int
	MaxSnoozes  int
}

type PrayerState struct {
	Title   string
	Minutes int
}

type Model struct {
	CurrentView View
	Runtime     *Runtime
	Config      RuntimeConfig
	Ring        RingState
	Prayer      PrayerState
	Status      StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool
	LastError   error
	// Bubble components used for rich TUI controls
	alarmList     list.Model
	reminderList  list.Model
	quickAddInput textinput.Model
	prayerTimer   timer.Model
	ringSpinner   spinner.Model
	helpModel     help.Model
	captureMode   bool
	newID         func() string
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

type DeliveryMsg struct {
	Delivery notify.Delivery
}

type RingerEventMsg struct {
	Event ringer.Event
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(rt *Runtime, cfg RuntimeConfig) Model {
	m := Model{
		CurrentView: ViewAlarms,
		Runtime:     rt,
		Config:      cfg,
		Keys: GlobalKeyMap{
			Alarms:    "1",
			Reminders: "2",
			Help:      "?",
			Quit:      "q",
		},
		newID: func() string { return uuid.New().String() },
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.alarmList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.alarmList.Title = "Alarms"
	m.alarmList.SetShowHelp(false)
	m.alarmList.SetFilteringEnabled(false)

	m.reminderList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.reminderList.Title = "Reminders"
	m.reminderList.SetShowHelp(false)
	m.reminderList.SetFilteringEnabled(false)

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.CharLimit = 128
	m.quickAddInput.Width = 48

	m.ringSpinner = spinner.New()
	m.ringSpinner.Spinner = spinner.Pulse

	minutes := m.Config.SessionMinutes
	if minutes <= 0 {
		minutes = DefaultRuntimeConfig().SessionMinutes
	}
	m.prayerTimer = timer.New(time.Duration(minutes) * time.Minute)

	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	if m.Runtime == nil {
		return
	}

	alarms := m.Runtime.Store.Alarms()
	alarmItems := make([]list.Item, 0, len(alarms))
	for _, alarm := range alarms {
		alarmItems = append(alarmItems, listItem{title: alarm.Title, description: describeAlarm(alarm)})
	}
	m.alarmList.SetItems(alarmItems)

	reminders := m.Runtime.Store.Reminders()
	reminderItems := make([]list.Item, 0, len(reminders))
	for _, rem := range reminders {
		reminderItems = append(reminderItems, listItem{title: rem.Title, description: describeReminder(rem)})
	}
	m.reminderList.SetItems(reminderItems)
}

package followup

import (
	"fmt"
	"time"

	"github.com/altarhq/altard/internal/model"
	"github.com/altarhq/altard/internal/notify"
	"github.com/altarhq/altard/internal/occurrence"
)

// Follow-ups simulate persistent ringing: a short burst of one-off
// notifications scheduled just after the next occurrence of an alarm, removed
// in bulk as soon as the user interacts with any member of the family.

const followupBody = "Reminder: it's time to pray."

const dateKeyLayout = "20060102_1504"

var DefaultOffsets = []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second}

type Generator struct {
	sched   *notify.Scheduler
	offsets []time.Duration
	now     func() time.Time
}

func NewGenerator(sched *notify.Scheduler, offsets []time.Duration) *Generator {
	if len(offsets) == 0 {
		offsets = DefaultOffsets
	}
	return &Generator{sched: sched, offsets: offsets, now: time.Now}
}

// Schedule registers one follow-up per configured offset for the alarm's next
// occurrence, with identifiers "{baseID}-fup-{dateKey}-{n}" (n is 1-based).
func (g *Generator) Schedule(baseID, title string, hour, minute int, weekdays []int) {
	target := NextOccurrence(g.now(), hour, minute, weekdays)
	dateKey := target.Format(dateKeyLayout)
	for i, offset := range g.offsets {
		id := fmt.Sprintf("%s%s%s-%d", baseID, occurrence.FollowupSuffixMarker, dateKey, i+1)
		g.sched.ScheduleOneOff(id, title, followupBody, notify.KindFollowup, target.Add(offset))
	}
}

// Cancel removes every pending follow-up for the alarm family.
func (g *Generator) Cancel(baseID string) {
	g.sched.CancelFollowups(baseID)
}

// NextOccurrence computes the next concrete fire time for an alarm relative
// to now. An empty weekday set means daily: today at hour:minute, or tomorrow
// when that has already passed. Otherwise the soonest matching weekday wins.
func NextOccurrence(now time.Time, hour, minute int, weekdays []int) time.Time {
	if len(weekdays) == 0 {
		candidate := atClock(now, hour, minute)
		if !candidate.After(now) {
			candidate = atClock(now.AddDate(0, 0, 1), hour, minute)
		}
		return candidate
	}

	var best time.Time
	for _, w := range weekdays {
		target := model.GoWeekday(w)
		daysAhead := (int(target) - int(now.Weekday()) + 7) % 7
		candidate := atClock(now.AddDate(0, 0, daysAhead), hour, minute)
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	return best
}

func atClock(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

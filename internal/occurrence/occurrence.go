package occurrence

import (
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/altarhq/altard/internal/kvstore"
)

// Notification identifiers are the alarm's base id plus a generated suffix:
//
//	{base}            primary daily alarm
//	{base}-w{1..7}    one weekday of a weekly series
//	{base}-fup-...    follow-up for one occurrence
//	{base}-snooze...  snooze re-fire
//
// Suffixes are stripped in that priority order.
const (
	WeeklySuffixPrefix   = "-w"
	FollowupSuffixMarker = "-fup-"
	SnoozeSuffixMarker   = "-snooze"
)

const keyTimeLayout = "20060102_1504"

var keyPattern = regexp.MustCompile(`^(.+)_\d{8}_\d{4}$`)

// BaseID strips any generated suffix off a notification identifier, returning
// the identifier unchanged when no pattern matches. The weekly suffix is only
// recognized end-anchored with a single digit 1..7, so a base id that happens
// to contain "-w" is left intact.
func BaseID(identifier string) string {
	if n := len(identifier); n >= 3 {
		last := identifier[n-1]
		if identifier[n-3:n-1] == WeeklySuffixPrefix && last >= '1' && last <= '7' {
			return identifier[:n-3]
		}
	}
	if i := strings.Index(identifier, FollowupSuffixMarker); i > 0 {
		return identifier[:i]
	}
	if i := strings.Index(identifier, SnoozeSuffixMarker); i > 0 {
		return identifier[:i]
	}
	return identifier
}

// IsSnoozeRefire reports whether an identifier was produced by a snooze
// action, either a notification-action re-fire ({base}-snooze...) or an
// in-app snooze (inapp-snooze-{uuid}).
func IsSnoozeRefire(identifier string) bool {
	return strings.Contains(identifier, SnoozeSuffixMarker)
}

// Key derives the occurrence key for one concrete firing of an alarm.
// Distinct firings of a recurring alarm get distinct keys; every notification
// in one ring/snooze chain shares the key.
func Key(baseID string, at time.Time) string {
	return baseID + "_" + at.Format(keyTimeLayout)
}

// SplitKey recovers the base id from an occurrence key.
func SplitKey(key string) (string, bool) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	return m[1], true
}

const (
	snoozeKeyPrefix = "alarm.snooze."
	chainKeyKey     = "alarm.chainKey"
)

var errNoChain = errors.New("occurrence: no active chain")

// Tracker persists per-occurrence snooze counters and the chain key of the
// ring/snooze sequence currently in flight.
type Tracker struct {
	kv kvstore.Store
}

func NewTracker(kv kvstore.Store) *Tracker {
	return &Tracker{kv: kv}
}

// SnoozeCount returns the persisted counter for an occurrence. Any read
// failure counts as a fresh occurrence.
func (t *Tracker) SnoozeCount(key string) int {
	count, err := t.kv.GetInt(snoozeKeyPrefix + key)
	if err != nil {
		return 0
	}
	return count
}

func (t *Tracker) SetSnoozeCount(key string, count int) {
	if err := t.kv.SetInt(snoozeKeyPrefix+key, count); err != nil {
		log.Printf("occurrence: persist snooze count for %s: %v", key, err)
	}
}

// ChainKey returns the occurrence key of the active chain, or "" when idle.
func (t *Tracker) ChainKey() string {
	key, err := t.kv.GetString(chainKeyKey)
	if err != nil {
		return ""
	}
	return key
}

func (t *Tracker) SetChainKey(key string) {
	if err := t.kv.SetString(chainKeyKey, key); err != nil {
		log.Printf("occurrence: persist chain key %s: %v", key, err)
	}
}

// ClearChain removes the active chain key and the snooze counter stored under
// it. Safe to call when no chain is active.
func (t *Tracker) ClearChain() {
	key := t.ChainKey()
	if key != "" {
		if err := t.kv.Delete(snoozeKeyPrefix + key); err != nil {
			log.Printf("occurrence: clear snooze count for %s: %v", key, err)
		}
	}
	if err := t.kv.Delete(chainKeyKey); err != nil {
		log.Printf("occurrence: clear chain key: %v", err)
	}
}

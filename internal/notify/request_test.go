package notify

import (
	"errors"
	"testing"
	"time"
)

func TestDailyTriggerNext(t *testing.T) {
	trigger, err := Daily(7, 30)
	if err != nil {
		t.Fatalf("daily trigger: %v", err)
	}
	if !trigger.Repeats() {
		t.Fatal("daily trigger should repeat")
	}

	before := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	next := trigger.Next(before)
	want := time.Date(2025, 1, 1, 7, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}

	after := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	next = trigger.Next(after)
	want = time.Date(2025, 1, 2, 7, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}

func TestWeeklyTriggerNext(t *testing.T) {
	// 2025-01-01 is a Wednesday; weekday 1 is Sunday.
	trigger, err := Weekly(7, 0, 1)
	if err != nil {
		t.Fatalf("weekly trigger: %v", err)
	}
	from := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	next := trigger.Next(from)
	want := time.Date(2025, 1, 5, 7, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
	if next.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday, got %v", next.Weekday())
	}
}

func TestWeeklyTriggerRejectsBadWeekday(t *testing.T) {
	if _, err := Weekly(7, 0, 0); !errors.Is(err, ErrInvalidTrigger) {
		t.Fatalf("expected ErrInvalidTrigger, got %v", err)
	}
	if _, err := Weekly(7, 0, 8); !errors.Is(err, ErrInvalidTrigger) {
		t.Fatalf("expected ErrInvalidTrigger, got %v", err)
	}
}

func TestOneOffTriggerNext(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	trigger := OneOff(at)
	if trigger.Repeats() {
		t.Fatal("one-off trigger should not repeat")
	}
	// the absolute time wins regardless of "now", including past times
	if got := trigger.Next(at.Add(time.Hour)); !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}
}

func TestActionSnoozeMinutes(t *testing.T) {
	cases := []struct {
		action Action
		want   int
		ok     bool
	}{
		{ActionSnooze5, 5, true},
		{ActionSnooze10, 10, true},
		{ActionSnooze15, 15, true},
		{ActionOpen, 0, false},
		{ActionDismiss, 0, false},
	}
	for _, tc := range cases {
		got, ok := tc.action.SnoozeMinutes()
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: expected (%d, %v), got (%d, %v)", tc.action, tc.want, tc.ok, got, ok)
		}
	}
}

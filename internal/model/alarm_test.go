package model

import (
	"errors"
	"testing"
	"time"
)

func TestAlarmValidateSuccess(t *testing.T) {
	alarm := Alarm{
		ID:             "a1",
		Title:          "Morning prayer",
		Hour:           7,
		Minute:         0,
		Enabled:        true,
		RepeatWeekdays: []int{2, 4, 6},
		AllowSnooze:    true,
	}
	if err := alarm.Validate(); err != nil {
		t.Fatalf("expected valid alarm, got error: %v", err)
	}
}

func TestAlarmValidateRejectsBadTime(t *testing.T) {
	cases := []struct {
		name  string
		alarm Alarm
		want  error
	}{
		{"hour too high", Alarm{ID: "a1", Title: "x", Hour: 24}, ErrInvalidHour},
		{"hour negative", Alarm{ID: "a1", Title: "x", Hour: -1}, ErrInvalidHour},
		{"minute too high", Alarm{ID: "a1", Title: "x", Hour: 7, Minute: 60}, ErrInvalidMinute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.alarm.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAlarmValidateRejectsBadWeekday(t *testing.T) {
	alarm := Alarm{ID: "a1", Title: "x", Hour: 7, RepeatWeekdays: []int{0}}
	if err := alarm.Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
	alarm.RepeatWeekdays = []int{8}
	if err := alarm.Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
	alarm.RepeatWeekdays = []int{3, 3}
	if err := alarm.Validate(); err == nil {
		t.Fatal("expected duplicate weekday error, got nil")
	}
}

func TestAlarmIsDaily(t *testing.T) {
	if !(Alarm{RepeatWeekdays: nil}).IsDaily() {
		t.Fatal("empty weekday set should mean daily")
	}
	if (Alarm{RepeatWeekdays: []int{1}}).IsDaily() {
		t.Fatal("non-empty weekday set should not be daily")
	}
}

func TestNormalizeWeekdays(t *testing.T) {
	got := NormalizeWeekdays([]int{6, 2, 6, 4})
	want := []int{2, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestGoWeekday(t *testing.T) {
	if GoWeekday(1) != time.Sunday {
		t.Fatalf("expected Sunday for 1, got %v", GoWeekday(1))
	}
	if GoWeekday(7) != time.Saturday {
		t.Fatalf("expected Saturday for 7, got %v", GoWeekday(7))
	}
}

func TestDefaultBodyBuckets(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{5, "Good morning! Start your day at the altar."},
		{10, "Good morning! Start your day at the altar."},
		{11, "Pause for a moment of prayer."},
		{17, "Pause for a moment of prayer."},
		{18, "Good evening! End your day at the altar."},
		{4, "Good evening! End your day at the altar."},
		{0, "Good evening! End your day at the altar."},
	}
	for _, tc := range cases {
		if got := DefaultBody(tc.hour); got != tc.want {
			t.Fatalf("hour %d: expected %q, got %q", tc.hour, tc.want, got)
		}
	}
}

func TestReminderValidate(t *testing.T) {
	rem := Reminder{
		ID:      "r1",
		Title:   "Evening reading",
		Notes:   "Psalm 23",
		Date:    time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC),
		Enabled: true,
	}
	if err := rem.Validate(); err != nil {
		t.Fatalf("expected valid reminder, got error: %v", err)
	}
	if err := (Reminder{Title: "x", Date: rem.Date}).Validate(); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := (Reminder{ID: "r1", Title: "x"}).Validate(); err == nil {
		t.Fatal("expected error for missing date")
	}
}

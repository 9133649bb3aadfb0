package settings

import (
	"fmt"
	"time"
)

const (
	MinTestLength = 5
	MaxTestLength = 50
)

// Settings is the single process-wide configuration object. It is replaced
// wholesale on every change, never mutated field by field.
type Settings struct {
	ReminderEnabled bool   `json:"reminder_enabled"`
	ReminderTime    string `json:"reminder_time"` // "HH:MM", local time
	ReminderDays    []int  `json:"reminder_days"` // weekdays, 0=Sunday..6=Saturday
	ReminderMessage string `json:"reminder_message"`
	DailyGoal       int    `json:"daily_goal"`
	TestLength      int    `json:"test_length"`
	Theme           string `json:"theme"`
}

// Default returns the settings used on first run or when the persisted
// blob is unreadable.
func Default() Settings {
	return Settings{
		ReminderEnabled: false,
		ReminderTime:    "19:00",
		ReminderDays:    []int{1, 2, 3, 4, 5},
		ReminderMessage: "Time to practice!",
		DailyGoal:       10,
		TestLength:      10,
		Theme:           "light",
	}
}

// Normalize clamps out-of-range values and repairs unparseable ones so the
// rest of the engine never sees an invalid Settings.
func (s Settings) Normalize() Settings {
	if s.DailyGoal < 1 {
		s.DailyGoal = 1
	}
	if s.TestLength < MinTestLength {
		s.TestLength = MinTestLength
	}
	if s.TestLength > MaxTestLength {
		s.TestLength = MaxTestLength
	}
	if _, _, err := ParseClock(s.ReminderTime); err != nil {
		s.ReminderTime = Default().ReminderTime
	}

	days := make([]int, 0, len(s.ReminderDays))
	for _, d := range s.ReminderDays {
		if d >= 0 && d <= 6 {
			days = append(days, d)
		}
	}
	s.ReminderDays = days

	return s
}

// DayEnabled reports whether the weekly rule includes the given weekday.
func (s Settings) DayEnabled(day time.Weekday) bool {
	for _, d := range s.ReminderDays {
		if time.Weekday(d) == day {
			return true
		}
	}
	return false
}

// ParseClock splits an "HH:MM" string into hour and minute.
func ParseClock(v string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(v, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid clock value %q: %w", v, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock value %q out of range", v)
	}
	return hour, minute, nil
}

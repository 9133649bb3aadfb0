package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/studydrill/backend/internal/domain/settings"
	"github.com/studydrill/backend/internal/notify"
)

// fallbackDelay is armed when no weekday qualifies within the scan window.
// Reachable only through a degenerate rule (empty reminder days).
const fallbackDelay = 24 * time.Hour

// scanDays is how many candidate days NextDelay examines, today inclusive.
// Seven covers a full weekly rule; the eighth catches today's slot having
// already passed when today is the only enabled day.
const scanDays = 8

// NextDelay computes how long until the reminder should next fire.
// The candidate instant is the configured HH:MM on each of the next scanDays
// days; the first one on an enabled weekday strictly after now wins.
// degenerate is true when the 24-hour fallback was used, which a well-formed
// weekly rule can never reach.
func NextDelay(s settings.Settings, now time.Time) (delay time.Duration, degenerate bool) {
	hour, minute, err := settings.ParseClock(s.ReminderTime)
	if err != nil {
		return fallbackDelay, true
	}

	base := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	for i := 0; i < scanDays; i++ {
		candidate := base.AddDate(0, 0, i)
		if s.DayEnabled(candidate.Weekday()) && candidate.After(now) {
			return candidate.Sub(now), false
		}
	}
	return fallbackDelay, true
}

// Scheduler owns the single pending reminder timer. Settings changes must
// flow through OnSettingsChanged so a stale timer can never fire with an
// outdated rule.
type Scheduler struct {
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	timer   *time.Timer
	current settings.Settings
	stopped bool
}

func New(notifier notify.Notifier, logger *slog.Logger) *Scheduler {
	return NewWithClock(notifier, logger, time.Now)
}

// NewWithClock is New with an injectable clock so tests can pin "now".
func NewWithClock(notifier notify.Notifier, logger *slog.Logger, now func() time.Time) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		logger:   logger,
		now:      now,
	}
}

// OnSettingsChanged cancels any pending timer and re-arms from the new
// settings. Disabled reminders leave the scheduler idle.
func (s *Scheduler) OnSettingsChanged(newSettings settings.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = newSettings
	s.cancelLocked()

	if s.stopped || !newSettings.ReminderEnabled {
		return
	}
	s.armLocked()
}

// Stop cancels the pending timer and refuses any further arming.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// armLocked sets the one outstanding timer from the current settings.
func (s *Scheduler) armLocked() {
	delay, degenerate := NextDelay(s.current, s.now())
	if degenerate {
		s.logger.Warn("reminder rule matches no day, falling back to 24h",
			"time", s.current.ReminderTime,
			"days", s.current.ReminderDays,
		)
	}
	s.timer = time.AfterFunc(delay, s.fire)
}

// fire delivers the reminder and re-arms using the latest settings, not the
// ones captured when the timer was set.
func (s *Scheduler) fire() {
	s.mu.Lock()
	current := s.current
	stopped := s.stopped
	s.mu.Unlock()

	if stopped || !current.ReminderEnabled {
		return
	}

	s.notifier.Fire("Study reminder", current.ReminderMessage)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.current.ReminderEnabled {
		return
	}
	s.cancelLocked()
	s.armLocked()
}

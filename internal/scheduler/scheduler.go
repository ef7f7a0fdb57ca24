package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/wordbox/internal/database"
	"github.com/example/wordbox/internal/review"
)

// Default notification window (UTC hours).
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier interface for sending reminders
type Notifier interface {
	SendDueReminder(userID int64, dueCount int) error
}

// Scheduler manages the periodic due-item reminder job
type Scheduler struct {
	scheduler *gocron.Scheduler
	svc       *review.Service
	scopes    *database.ScopeRepository
	notifier  Notifier
}

// New creates a new scheduler instance
func New(svc *review.Service, notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		svc:       svc,
		scopes:    database.NewScopeRepository(),
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for users with due cards
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders notifies every user whose active scope has due
// cards, but only inside the configured notification window.
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().UTC().Hour()

	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	ctx := context.Background()
	scopes, err := s.scopes.ListAllActive(ctx)
	if err != nil {
		log.Printf("Error listing active scopes: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, scope := range scopes {
		due, err := s.svc.DueItems(ctx, scope.ID, now)
		if err != nil {
			log.Printf("Error getting due items for scope %d: %v", scope.ID, err)
			continue
		}
		if len(due) == 0 {
			continue
		}
		if err := s.notifier.SendDueReminder(scope.UserID, len(due)); err != nil {
			log.Printf("Error sending reminder to user %d: %v", scope.UserID, err)
		}
	}
}

// RunManualCheck forces a due check for a specific user's active scope.
func (s *Scheduler) RunManualCheck(ctx context.Context, userID int64) error {
	scope, err := s.scopes.ActiveForUser(ctx, userID)
	if err != nil {
		return err
	}
	due, err := s.svc.DueItems(ctx, scope.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(due) > 0 {
		return s.notifier.SendDueReminder(userID, len(due))
	}
	return nil
}

// envHour reads an hour override from the environment.
func envHour(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}

package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/contactsapp/backend/internal/infrastructure/persistence"
	"github.com/contactsapp/backend/pkg/constants"
)

// OutboxRetentionDays is how long delivered mail rows are kept for auditing
const OutboxRetentionDays = 7

// SchedulerService runs periodic maintenance jobs: purging expired sessions
// and trimming the delivered tail of the email outbox.
type SchedulerService struct {
	sessions *persistence.SessionRepository
	outbox   *persistence.OutboxRepository
	cron     *cron.Cron
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(sessions *persistence.SessionRepository, outbox *persistence.OutboxRepository) *SchedulerService {
	return &SchedulerService{
		sessions: sessions,
		outbox:   outbox,
		cron:     cron.New(),
	}
}

// Start registers the maintenance jobs and launches the cron loop
func (s *SchedulerService) Start() {
	_, err := s.cron.AddFunc(constants.SessionCleanupCron, s.cleanupSessions)
	if err != nil {
		log.Printf("⚠️ Failed to schedule session cleanup: %v", err)
	}

	_, err = s.cron.AddFunc(constants.OutboxCleanupCron, s.cleanupOutbox)
	if err != nil {
		log.Printf("⚠️ Failed to schedule outbox cleanup: %v", err)
	}

	s.cron.Start()
	log.Println("⏰ Scheduler service started")
}

// Stop halts the cron loop and waits for running jobs to finish
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("⏰ Scheduler service stopped")
}

func (s *SchedulerService) cleanupSessions() {
	n, err := s.sessions.DeleteExpiredSessions(context.Background())
	if err != nil {
		log.Printf("⚠️ Session cleanup failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🧹 Purged %d expired sessions", n)
	}
}

func (s *SchedulerService) cleanupOutbox() {
	n, err := s.outbox.DeleteSentBefore(context.Background(), OutboxRetentionDays)
	if err != nil {
		log.Printf("⚠️ Outbox cleanup failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🧹 Purged %d delivered outbox emails", n)
	}
}

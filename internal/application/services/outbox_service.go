package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/contactsapp/backend/internal/domain/models"
	"github.com/contactsapp/backend/internal/infrastructure/persistence"
	"github.com/contactsapp/backend/pkg/constants"
)

// MaxRetryAttempts is how many delivery attempts a mail job gets before it is
// parked in the failed state
const MaxRetryAttempts = 5

// OutboxBatchSize caps how many pending jobs one worker pass picks up
const OutboxBatchSize = 100

// Sender delivers a rendered mail; satisfied by *EmailService
type Sender interface {
	Send(recipient, kind string, payload models.EmailPayload) error
}

// OutboxService drains the transactional email outbox in the background.
// API requests only ever enqueue; delivery failures never surface to callers.
type OutboxService struct {
	repo   *persistence.OutboxRepository
	sender Sender

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewOutboxService creates a new OutboxService
func NewOutboxService(repo *persistence.OutboxRepository, sender Sender) *OutboxService {
	return &OutboxService{
		repo:   repo,
		sender: sender,
		stopCh: make(chan struct{}),
	}
}

// StartWorker starts the background worker that processes pending mail
func (s *OutboxService) StartWorker() {
	interval := time.Duration(constants.OutboxPollIntervalMs) * time.Millisecond

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("📤 Email outbox worker started with %v interval", interval)

		for {
			select {
			case <-s.stopCh:
				log.Printf("📤 Email outbox worker stopping...")
				return
			case <-ticker.C:
				if err := s.ProcessOutbox(context.Background()); err != nil {
					log.Printf("⚠️ Outbox worker error: %v", err)
				}
			}
		}
	}()
}

// StopWorker stops the background worker gracefully
func (s *OutboxService) StopWorker() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	log.Printf("📤 Email outbox worker stopped")
}

// ProcessOutbox delivers all currently pending mail jobs. Each job is
// attempted once per pass; failures bump the retry counter.
func (s *OutboxService) ProcessOutbox(ctx context.Context) error {
	jobs, err := s.repo.GetPending(ctx, OutboxBatchSize)
	if err != nil {
		return err
	}

	if len(jobs) > 0 {
		log.Printf("🔄 [Outbox] Processing %d pending emails", len(jobs))
	}

	for _, job := range jobs {
		if err := s.deliver(ctx, job); err != nil {
			log.Printf("⚠️ Failed to deliver outbox email %s: %v", job.ID, err)
		}
	}

	return nil
}

// deliver attempts a single mail job and records the outcome
func (s *OutboxService) deliver(ctx context.Context, job *models.OutboxEmail) error {
	var payload models.EmailPayload
	if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
		// Unparseable payloads can never succeed; burn all retries at once
		return s.repo.MarkRetry(ctx, job.ID, "invalid payload: "+err.Error(), MaxRetryAttempts, MaxRetryAttempts)
	}

	if err := s.sender.Send(job.Recipient, job.Kind, payload); err != nil {
		return s.repo.MarkRetry(ctx, job.ID, err.Error(), job.RetryCount, MaxRetryAttempts)
	}

	log.Printf("📧 Email (%s) sent to %s", job.Kind, job.Recipient)
	return s.repo.MarkSent(ctx, job.ID)
}

package services

import (
	"github.com/contactsapp/backend/internal/infrastructure/cache"
	"github.com/contactsapp/backend/internal/infrastructure/database"
	"github.com/contactsapp/backend/internal/infrastructure/persistence"
)

// ServiceManager orchestrates all services with dependency injection
type ServiceManager struct {
	db    *database.PostgresConnection
	cache *cache.RedisCache

	Auth      *AuthService
	Users     *UserService
	Contacts  *ContactService
	Email     *EmailService
	Outbox    *OutboxService
	Scheduler *SchedulerService
	Upload    *UploadService
}

// NewServiceManager creates a new service manager with all dependencies wired
func NewServiceManager(db *database.PostgresConnection, redisCache *cache.RedisCache) *ServiceManager {
	sm := &ServiceManager{
		db:    db,
		cache: redisCache,
	}

	userRepo := persistence.NewUserRepository(db.DB())
	contactRepo := persistence.NewContactRepository(db.DB())
	sessionRepo := persistence.NewSessionRepository(db.DB())
	outboxRepo := persistence.NewOutboxRepository(db.DB())

	sm.Email = NewEmailService()
	sm.Outbox = NewOutboxService(outboxRepo, sm.Email)
	sm.Upload = NewUploadService()

	sm.Auth = NewAuthService(db, userRepo, sessionRepo, outboxRepo, redisCache)
	sm.Users = NewUserService(userRepo, redisCache, sm.Upload)
	sm.Contacts = NewContactService(contactRepo)
	sm.Scheduler = NewSchedulerService(sessionRepo, outboxRepo)

	return sm
}

// StartWorkers launches the outbox mailer and the cron scheduler
func (sm *ServiceManager) StartWorkers() {
	sm.Outbox.StartWorker()
	sm.Scheduler.Start()
}

// StopWorkers stops all background work gracefully
func (sm *ServiceManager) StopWorkers() {
	sm.Outbox.StopWorker()
	sm.Scheduler.Stop()
}

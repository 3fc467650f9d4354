package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/user-account-service/internal/domain"
	"github.com/spec-kit/user-account-service/internal/events"
	"github.com/spec-kit/user-account-service/internal/repository"
)

const auditWriteTimeout = 5 * time.Second

// AuditService persists an audit log entry for every published account
// event. Writes are detached from the request: they run on their own
// goroutine and context, and failures are logged and swallowed so the
// audited action is never affected.
type AuditService struct {
	audits     repository.AuditRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, audits repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{audits: audits, dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all audited event types.
func (s *AuditService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventUserLoginSucceeded,
		events.EventUserLoginFailed,
		events.EventUserRegistered,
		events.EventUserStatusChanged,
		events.EventUserDeleted,
	} {
		s.dispatcher.Subscribe(eventType, s.handleEvent)
	}
}

func (s *AuditService) handleEvent(_ context.Context, event events.Event) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()

		entry := &domain.AuditEntry{
			ID:             event.ID,
			EventType:      string(event.Type),
			ActorIdentity:  event.ActorIdentity,
			ActorID:        event.ActorID,
			TargetIdentity: event.TargetIdentity,
			TargetID:       event.TargetID,
			Description:    event.Description,
			Outcome:        event.Outcome,
			SourceAddress:  event.SourceAddress,
		}
		if err := s.audits.Create(ctx, entry); err != nil {
			s.logger.Warn("audit write failed",
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until in-flight audit writes finish. Used during shutdown and
// in tests.
func (s *AuditService) Wait() {
	s.wg.Wait()
}

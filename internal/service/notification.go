package service

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/kahvecikaan/ecommerce-api/internal/mail"
)

const sendTimeout = 30 * time.Second

// NotificationService turns bus events into emails. Delivery failures are
// logged and never reach the operation that raised the event.
type NotificationService struct {
	mailer     mail.Mailer
	eventBus   *events.EventBus[any]
	baseURL    string
	logger     hclog.Logger
	subscriber events.Subscriber[any]
	wg         sync.WaitGroup
	once       sync.Once
}

func NewNotificationService(mailer mail.Mailer, eventBus *events.EventBus[any], baseURL string, logger hclog.Logger) *NotificationService {
	ns := &NotificationService{
		mailer:   mailer,
		eventBus: eventBus,
		baseURL:  baseURL,
		logger:   logger,
	}

	ns.subscriber = eventBus.Subscribe()

	ns.wg.Add(1)
	go ns.handleEvents()

	return ns
}

func (s *NotificationService) handleEvents() {
	defer s.wg.Done()
	for event := range s.subscriber {
		switch e := event.(type) {
		case events.UserRegistered:
			s.logger.Debug("Sending verification email", "user", e.UserID)
			s.send(mail.VerificationEmail(e.Email, e.Name, s.baseURL, e.Token))
		case events.ProductAdded:
			s.productOperation(e.ActorEmail, "added", e.Name)
		case events.ProductUpdated:
			s.productOperation(e.ActorEmail, "updated", e.Name)
		case events.ProductDeleted:
			s.productOperation(e.ActorEmail, "deleted", e.Name)
		}
	}
}

func (s *NotificationService) productOperation(to, operation, product string) {
	if to == "" {
		return
	}
	msg, err := mail.ProductOperationEmail(to, "", operation, product, s.baseURL, time.Now())
	if err != nil {
		s.logger.Error("Unable to render notification", "operation", operation, "error", err)
		return
	}
	s.send(msg)
}

func (s *NotificationService) send(msg mail.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send notification email", "to", msg.To, "subject", msg.Subject, "error", err)
	}
}

func (s *NotificationService) Close() error {
	s.once.Do(func() {
		s.logger.Info("Shutting down NotificationService...")

		// closing the channel ends handleEvents once the backlog is drained
		s.eventBus.Unsubscribe(s.subscriber)
		s.wg.Wait()

		// a full subscriber buffer loses events, verification links included
		if dropped := s.eventBus.Dropped(); dropped > 0 {
			s.logger.Warn("Event bus dropped deliveries", "dropped", dropped)
		}

		s.logger.Info("NotificationService shutdown complete.")
	})
	return nil
}

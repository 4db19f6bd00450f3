package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"community-service/internal/observability"
	"community-service/internal/rabbitmq"
)

// Routing keys consumed by the external mailer.
const (
	RouteBooking = "notifications.booking"
	RoutePost    = "notifications.post"
	RouteAccount = "notifications.account"
)

// Envelope is the notification event published for the mailer.
type Envelope struct {
	SchemaVersion int      `json:"schema_version"`
	EventType     string   `json:"event_type"`
	OccurredAt    string   `json:"occurred_at"`
	Service       string   `json:"service"`
	Environment   string   `json:"environment"`
	Recipients    []string `json:"recipients"`
	Subject       string   `json:"subject"`
	Body          string   `json:"body"`
}

// Emitter dispatches best-effort mail notifications. Emit is called
// only after the primary write has committed; failures are logged and
// counted, never propagated to the caller.
type Emitter struct {
	publisher   rabbitmq.Publisher
	service     string
	environment string
}

// NewEmitter constructs an Emitter.
func NewEmitter(publisher rabbitmq.Publisher, service, environment string) *Emitter {
	return &Emitter{publisher: publisher, service: service, environment: environment}
}

// Emit publishes one notification event.
func (e *Emitter) Emit(ctx context.Context, routingKey, eventType string, recipients []string, subject, body string) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := Envelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		Recipients:    recipients,
		Subject:       subject,
		Body:          body,
	}

	if err := e.publisher.Publish(ctx, routingKey, envelope); err != nil {
		observability.IncAMQPPublishError()
		log.Error().Err(err).Str("event_type", eventType).Msg("notification publish failed")
		return
	}
	log.Info().Str("event_type", eventType).Int("recipients", len(recipients)).Msg("notification dispatched")
}

package services

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// EventsExchange is the exchange domain events are published to. The empty
// name is the AMQP default exchange, which routes by queue name.
const EventsExchange = ""

// EventPublisher publishes a message body under a routing key.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// publishEvent emits a domain event. Publishing is best effort: a failure is
// logged and never fails the operation that produced the event.
func publishEvent(log *zap.SugaredLogger, pub EventPublisher, event string, payload map[string]interface{}) {
	if pub == nil {
		return
	}
	payload["event"] = event
	payload["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(payload)
	if err != nil {
		log.Warnw("failed to marshal event", "event", event, "error", err)
		return
	}
	if err := pub.Publish(EventsExchange, event, body); err != nil {
		log.Warnw("failed to publish event", "event", event, "error", err)
		return
	}
	log.Debugw("event published", "event", event)
}

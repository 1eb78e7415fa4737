package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/campuskit/registrar/core"
	"github.com/campuskit/registrar/ports"
)

// LoginEvent is the audit record published on every successful login.
type LoginEvent struct {
	SubjectID string    `json:"subject_id"`
	Role      string    `json:"role"`
	At        time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     "registrar.login",
	}
}

// PublishLogin publishes a login audit event.
func (p *WatermillPublisher) PublishLogin(_ context.Context, subjectID string, role core.Role) error {
	event := LoginEvent{
		SubjectID: subjectID,
		Role:      role.String(),
		At:        time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

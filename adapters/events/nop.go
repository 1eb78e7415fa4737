package events

import (
	"context"

	"github.com/campuskit/registrar/core"
	"github.com/campuskit/registrar/ports"
)

// NopPublisher discards events. Used when no message stream is configured.
type NopPublisher struct{}

// NewNopPublisher creates a publisher that does nothing.
func NewNopPublisher() ports.EventPublisher {
	return NopPublisher{}
}

func (NopPublisher) PublishLogin(context.Context, string, core.Role) error {
	return nil
}

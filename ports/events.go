package ports

import (
	"context"

	"github.com/campuskit/registrar/core"
)

// EventPublisher publishes audit events to notify other instances.
type EventPublisher interface {
	PublishLogin(ctx context.Context, subjectID string, role core.Role) error
}

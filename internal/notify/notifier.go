// Package notify publishes denormalized state snapshots to downstream
// reporting consumers. Publication is best-effort: a failed publish is
// logged by the caller and never affects the committed mutation.
package notify

import (
	"context"
	"encoding/json"

	"github.com/encorehall/boxoffice/internal/domain"
	"github.com/nats-io/nats.go"
)

// DefaultSubject is where full-state snapshots land.
const DefaultSubject = "boxoffice.snapshot"

// Publisher delivers a snapshot to a downstream sink.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// NATSPublisher publishes snapshots as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: conn, subject: subject}
}

func (p *NATSPublisher) PublishSnapshot(_ context.Context, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, payload)
}

// NoopPublisher drops snapshots. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSnapshot(context.Context, domain.Snapshot) error {
	return nil
}

package app

import (
	"context"
	"log"

	"github.com/encorehall/boxoffice/internal/clock"
	"github.com/encorehall/boxoffice/internal/domain"
	"github.com/encorehall/boxoffice/internal/notify"
)

// SnapshotSource assembles the current denormalized state.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context) (domain.Snapshot, error)
}

// Snapshotter pushes a full-state snapshot to the downstream notifier after
// a mutation commits. Failures are logged and swallowed: the sink is a
// reporting convenience, never part of the core contract. A nil *Snapshotter
// is valid and does nothing.
type Snapshotter struct {
	source SnapshotSource
	pub    notify.Publisher
	clock  clock.Clock
	logger *log.Logger
}

func NewSnapshotter(source SnapshotSource, pub notify.Publisher, clk clock.Clock, logger *log.Logger) *Snapshotter {
	if logger == nil {
		logger = log.Default()
	}
	return &Snapshotter{source: source, pub: pub, clock: clk, logger: logger}
}

// Publish assembles and publishes the snapshot, best-effort.
func (s *Snapshotter) Publish(ctx context.Context) {
	if s == nil {
		return
	}
	snap, err := s.source.LoadSnapshot(ctx)
	if err != nil {
		s.logger.Printf("WARN: snapshot assembly failed: %v", err)
		return
	}
	snap.TakenAt = s.clock.Now()
	if err := s.pub.PublishSnapshot(ctx, snap); err != nil {
		s.logger.Printf("WARN: snapshot publish failed: %v", err)
	}
}

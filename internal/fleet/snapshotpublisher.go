package fleet

import (
	"context"
	"log"
	"time"
)

// snapshotPublishPeriod is the Snapshot Publisher's cadence (spec.md
// §4.9). 1Hz is enough to keep a persistence sink or telemetry API
// current without competing for the MessageSet lock with the
// Aggregator on every single incoming frame.
const snapshotPublishPeriod = time.Second

// SnapshotSink receives each published VehicleSnapshot. internal/persistence
// implements this against a relational store; nil sinks are valid and
// simply mean "in-memory snapshot only, no durable history".
type SnapshotSink interface {
	PublishSnapshot(ctx context.Context, snap VehicleSnapshot) error
}

// SnapshotPublisher periodically rebuilds a Session's VehicleSnapshot
// from its MessageSet, stores it on the Session for GetVehicleData, and
// forwards it to an optional SnapshotSink.
type SnapshotPublisher struct {
	sess *Session
	sink SnapshotSink
}

func NewSnapshotPublisher(sess *Session, sink SnapshotSink) *SnapshotPublisher {
	return &SnapshotPublisher{sess: sess, sink: sink}
}

// Run loops at snapshotPublishPeriod until the session closes or ctx
// is cancelled.
func (p *SnapshotPublisher) Run(ctx context.Context) {
	ticker := time.NewTicker(snapshotPublishPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.publishOnce(ctx)
		case <-p.sess.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *SnapshotPublisher) publishOnce(ctx context.Context) {
	p.sess.msgset.mu.RLock()
	snap := buildSnapshot(p.sess.SystemID, p.sess.Status(), &p.sess.msgset.ms)
	p.sess.msgset.mu.RUnlock()

	p.sess.snapMu.Lock()
	p.sess.snap = snap
	p.sess.snapMu.Unlock()

	if p.sink == nil {
		return
	}
	if err := p.sink.PublishSnapshot(ctx, snap); err != nil {
		log.Printf("fleet: sys %d: publish snapshot: %v", p.sess.SystemID, err)
	}
}

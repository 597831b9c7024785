package fleet

import (
	"log"
	"sync"
	"sync/atomic"
)

// Endpoint is how a Session reaches its vehicle on the wire. The
// implementation in transport.go is one shared endpoint that writes
// every frame to all of the node's channels, UDP or serial; vehicles
// filter by target_system. Kept as an interface so Session and the
// workers never touch gomavlib directly — only transport.go does.
type Endpoint interface {
	Send(msg OutgoingMessage) error
}

// OutgoingMessage is the subset of gomavlib's message.Message interface
// the fleet package needs; declared locally so this file doesn't have
// to import gomavlib just to spell the parameter type.
type OutgoingMessage interface {
	GetID() uint32
}

// Session is the per-vehicle state bundle owned by the Registry
// (spec.md §3). It is allocated once by Registry.Admit and lives for
// the process lifetime — there is no per-vehicle teardown in this core.
type Session struct {
	SystemID    SystemID
	AutopilotID uint8 // target component id for commands

	endpoint Endpoint

	msgset messageSetLock

	params *parameterMap

	manualMu sync.Mutex
	manual   ManualControlSetpoint

	status atomic.Int32 // VehicleStatus

	snapMu sync.RWMutex
	snap   VehicleSnapshot

	statusText   *boundedQueue[StatustextEvent]
	namedValue   *boundedQueue[NamedValueEvent]
	wholeMessage *boundedQueue[WholeMessageEvent]

	// rawEvents carries STATUSTEXT/NAMED_VALUE_FLOAT messages from the
	// Aggregator (running inline on the Transport Reader's dispatch
	// path) to the Event Router worker, which does the actual bounded
	// queue push off that hot path. Generously buffered and
	// drop-oldest-on-full like the queues it feeds, since a lost event
	// here is no worse than one dropped a moment later by the queue
	// itself.
	rawEvents chan rawEvent

	paramHarvestSignal chan struct{} // buffered(1); signaled on every PARAM_VALUE

	shutdown chan struct{}
	once     sync.Once
}

// StatustextEvent, NamedValueEvent and WholeMessageEvent are the clones
// pushed onto the three bounded queues (spec.md §3/§4.3).
type StatustextEvent struct {
	SystemID SystemID
	Severity uint8
	Text     string
}

type NamedValueEvent struct {
	SystemID SystemID
	Name     string
	Value    float32
}

type WholeMessageEvent struct {
	SystemID SystemID
	MsgID    uint32
	Message  any
}

// rawEvent is the internal Aggregator -> Event Router handoff value.
type rawEvent struct {
	statustext *StatustextEvent
	namedValue *NamedValueEvent
}

// newSession allocates a Session with empty queues, the neutral
// manual-control setpoint, and status Initiating.
func newSession(sysID SystemID, autopilotID uint8, endpoint Endpoint, onQueueDrop func(queue string, sysID SystemID)) *Session {
	if onQueueDrop == nil {
		onQueueDrop = func(queue string, sysID SystemID) {
			log.Printf("fleet: sys %d: %s queue full, dropping oldest", sysID, queue)
		}
	}

	s := &Session{
		SystemID:           sysID,
		AutopilotID:        autopilotID,
		endpoint:           endpoint,
		params:             newParameterMap(),
		manual:             NeutralManualControl(),
		paramHarvestSignal: make(chan struct{}, 1),
		rawEvents:          make(chan rawEvent, MaxStatustext+MaxNamedValueFloat),
		shutdown:           make(chan struct{}),
	}
	s.status.Store(int32(StatusInitiating))

	s.statusText = newBoundedQueue[StatustextEvent](MaxStatustext, func() { onQueueDrop("statustext", sysID) })
	s.namedValue = newBoundedQueue[NamedValueEvent](MaxNamedValueFloat, func() { onQueueDrop("named_value_float", sysID) })
	s.wholeMessage = newBoundedQueue[WholeMessageEvent](MaxMessage, func() { onQueueDrop("message", sysID) })

	s.snap = VehicleSnapshot{SystemID: sysID, Status: StatusInitiating}

	return s
}

// Status returns the current VehicleStatus.
func (s *Session) Status() VehicleStatus {
	return VehicleStatus(s.status.Load())
}

// setStatus performs a lifecycle transition. Callers are responsible
// for only calling it along permitted edges (spec.md invariant P2);
// enforcement lives in the call sites (Aggregator, Command Surface)
// rather than here, since the permitted edge depends on the event, not
// just source/destination state.
func (s *Session) setStatus(v VehicleStatus) {
	s.status.Store(int32(v))
}

// ManualControl returns a clone of the current setpoint.
func (s *Session) ManualControl() ManualControlSetpoint {
	s.manualMu.Lock()
	defer s.manualMu.Unlock()
	return s.manual
}

// SetManualControl overwrites the setpoint.
func (s *Session) SetManualControl(v ManualControlSetpoint) {
	s.manualMu.Lock()
	defer s.manualMu.Unlock()
	s.manual = v
}

// Snapshot returns the most recently published VehicleSnapshot, a
// value copy safe to hand to an embedder (spec.md's "pop-style
// telemetry APIs return owned clones" note, applied here even though
// the snapshot itself isn't a queue).
func (s *Session) Snapshot() VehicleSnapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

// resetManualControl restores the neutral setpoint, used by arm/disarm.
func (s *Session) resetManualControl() {
	s.SetManualControl(NeutralManualControl())
}

// closed reports whether Close has been called for this session.
func (s *Session) closed() bool {
	select {
	case <-s.shutdown:
		return true
	default:
		return false
	}
}

// close signals every worker's cadence loop to stop. Idempotent.
func (s *Session) close() {
	s.once.Do(func() { close(s.shutdown) })
}

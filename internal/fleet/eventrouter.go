package fleet

import "context"

// EventRouter drains the Aggregator's raw statustext/named-value
// handoff channel and performs the actual bounded-queue push, keeping
// that work off the Transport Reader's hot dispatch path (spec.md
// §4.3/§4.9 — "and others" worker is this one; the original spawns a
// dedicated thread per message category rather than doing the push
// inline).
type EventRouter struct {
	sess *Session
}

func NewEventRouter(sess *Session) *EventRouter {
	return &EventRouter{sess: sess}
}

// Run drains sess.rawEvents until the session closes or ctx is done.
func (r *EventRouter) Run(ctx context.Context) {
	for {
		select {
		case ev := <-r.sess.rawEvents:
			switch {
			case ev.statustext != nil:
				r.sess.statusText.push(*ev.statustext)
			case ev.namedValue != nil:
				r.sess.namedValue.push(*ev.namedValue)
			}
		case <-r.sess.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

package fleet

import (
	"context"
	"log"
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
)

// paramHarvestRetryTimeout is how long the harvester waits for the
// PARAM_VALUE stream to go quiet before deciding a full-list request
// needs retrying (spec.md §4.4).
const paramHarvestRetryTimeout = 2 * time.Second

// paramHarvestFullListRetries is the number of full PARAM_REQUEST_LIST
// attempts before falling back to indexed PARAM_REQUEST_READ for
// whatever indices are still missing.
const paramHarvestFullListRetries = 10

// ParamHarvester is the per-vehicle worker that drives the initial
// parameter download (spec.md §4.4). It runs once per Session, from
// Admit to completion, and then exits — unlike the cadence workers it
// is not a perpetual loop.
type ParamHarvester struct {
	sess *Session
}

func NewParamHarvester(sess *Session) *ParamHarvester {
	return &ParamHarvester{sess: sess}
}

// Run drives the harvest to completion or gives up after ctx is
// cancelled. It returns once sess.params.complete() is true, or once
// the session is closed.
func (h *ParamHarvester) Run(ctx context.Context) {
	for attempt := 0; attempt < paramHarvestFullListRetries; attempt++ {
		if h.sess.closed() || ctx.Err() != nil {
			return
		}
		if h.sess.params.complete() {
			return
		}

		if err := h.sess.endpoint.Send(&common.MessageParamRequestList{
			TargetSystem:    uint8(h.sess.SystemID),
			TargetComponent: h.sess.AutopilotID,
		}); err != nil {
			log.Printf("fleet: sys %d: param_request_list: %v", h.sess.SystemID, err)
		}

		if h.waitForProgress(ctx) {
			// The harvest completed while waiting; loop back around so
			// the complete() check above returns, without burning a retry.
			attempt--
			continue
		}
	}

	if h.sess.params.complete() || h.sess.closed() || ctx.Err() != nil {
		return
	}

	h.fallbackIndexed(ctx)
}

// waitForProgress blocks until either the harvest completes, the
// session closes, the context is done, or paramHarvestRetryTimeout
// elapses with no PARAM_VALUE arriving. Returns true only when a
// PARAM_VALUE arrival left the harvest complete; a PARAM_VALUE that
// leaves it incomplete just restarts the timeout.
func (h *ParamHarvester) waitForProgress(ctx context.Context) bool {
	timer := time.NewTimer(paramHarvestRetryTimeout)
	defer timer.Stop()

	for {
		select {
		case <-h.sess.paramHarvestSignal:
			if h.sess.params.complete() {
				return true
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(paramHarvestRetryTimeout)
		case <-timer.C:
			return false
		case <-h.sess.shutdown:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

// fallbackIndexed requests each still-missing index individually, per
// spec.md §4.4's documented fallback for parameter sets that never
// converge via PARAM_REQUEST_LIST alone (a known ArduSub behavior on
// lossy links).
func (h *ParamHarvester) fallbackIndexed(ctx context.Context) {
	missing := h.sess.params.missingIndices()
	for _, idx := range missing {
		if h.sess.closed() || ctx.Err() != nil {
			return
		}
		err := h.sess.endpoint.Send(&common.MessageParamRequestRead{
			TargetSystem:    uint8(h.sess.SystemID),
			TargetComponent: h.sess.AutopilotID,
			ParamIndex:      int16(idx),
			ParamId:         [16]byte{},
		})
		if err != nil {
			log.Printf("fleet: sys %d: param_request_read(%d): %v", h.sess.SystemID, idx, err)
		}
		select {
		case <-time.After(paramHarvestRetryTimeout):
		case <-h.sess.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

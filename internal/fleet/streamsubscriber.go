package fleet

import (
	"context"
	"log"
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"

	"github.com/trenchline/fleetctl/internal/config"
)

// streamSubscriberPeriod is how often REQUEST_DATA_STREAM is
// re-transmitted for every configured stream (spec.md §4.5). ArduSub
// does not persist stream subscriptions across a connection drop, so
// this worker keeps re-asserting them rather than sending once.
const streamSubscriberPeriod = time.Second

// StreamSubscriber periodically requests the configured telemetry
// streams for one vehicle.
type StreamSubscriber struct {
	sess  *Session
	rates []config.StreamRate
}

func NewStreamSubscriber(sess *Session, rates []config.StreamRate) *StreamSubscriber {
	return &StreamSubscriber{sess: sess, rates: rates}
}

// Run loops at streamSubscriberPeriod until the session closes or ctx
// is cancelled.
func (s *StreamSubscriber) Run(ctx context.Context) {
	ticker := time.NewTicker(streamSubscriberPeriod)
	defer ticker.Stop()

	s.requestAll()

	for {
		select {
		case <-ticker.C:
			s.requestAll()
		case <-s.sess.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *StreamSubscriber) requestAll() {
	for _, r := range s.rates {
		err := s.sess.endpoint.Send(&common.MessageRequestDataStream{
			TargetSystem:    uint8(s.sess.SystemID),
			TargetComponent: s.sess.AutopilotID,
			ReqStreamId:     uint8(r.StreamID),
			ReqMessageRate:  uint16(r.RateHz),
			StartStop:       1,
		})
		if err != nil {
			log.Printf("fleet: sys %d: request_data_stream(%d): %v", s.sess.SystemID, r.StreamID, err)
		}
	}
}

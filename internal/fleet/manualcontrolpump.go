package fleet

import (
	"context"
	"log"
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
)

// manualControlPumpPeriod is the MANUAL_CONTROL transmission cadence,
// 25Hz (40ms). ArduSub's failsafe considers the link lost if it
// doesn't see a manual-control or RC override for ~1s, so this gives
// ample margin (spec.md §4.6).
const manualControlPumpPeriod = 40 * time.Millisecond

// ManualControlPump transmits the vehicle's current manual-control
// setpoint at a fixed cadence while armed, which doubles as the
// keepalive ArduSub expects in order to stay armed. The loop keeps
// ticking while disarmed but sends nothing then.
type ManualControlPump struct {
	sess *Session
}

func NewManualControlPump(sess *Session) *ManualControlPump {
	return &ManualControlPump{sess: sess}
}

// Run ticks at manualControlPumpPeriod, sending the last setpoint set
// via SetManualControl whenever the vehicle is armed. When disarmed,
// no MANUAL_CONTROL is sent — ArduSub ignores it while disarmed anyway
// and sending it would just add a misleading "last valid setpoint"
// artifact if the vehicle is later armed without a UI update.
func (p *ManualControlPump) Run(ctx context.Context) {
	ticker := time.NewTicker(manualControlPumpPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if p.sess.Status() != StatusArmed {
				continue
			}
			mc := p.sess.ManualControl()
			err := p.sess.endpoint.Send(&common.MessageManualControl{
				Target:  uint8(p.sess.SystemID),
				X:       mc.X,
				Y:       mc.Y,
				Z:       mc.Z,
				R:       mc.R,
				Buttons: mc.Buttons,
			})
			if err != nil {
				log.Printf("fleet: sys %d: manual_control: %v", p.sess.SystemID, err)
			}
		case <-p.sess.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

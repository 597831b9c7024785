package fleet

import (
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/bluenviron/gomavlib/v3/pkg/message"
)

// Aggregator folds inbound MAVLink messages into a Session's
// MessageSet and fans specific kinds out to the bounded queues
// (spec.md §4.3). There is exactly one logical Aggregator per Session;
// Transport Reader calls Handle for every frame it dispatches there, so
// nothing about Handle itself needs to be safe for concurrent callers
// — but the MessageSet lock it takes is still required because its
// reader, the Snapshot Publisher, runs on its own goroutine.
type Aggregator struct {
	sess *Session
}

func NewAggregator(sess *Session) *Aggregator {
	return &Aggregator{sess: sess}
}

// Handle processes one decoded message for this vehicle.
func (a *Aggregator) Handle(msg message.Message) {
	recognized := true

	a.sess.msgset.mu.Lock()
	now := time.Now()
	switch m := msg.(type) {
	case *common.MessageHeartbeat:
		a.sess.msgset.ms.Heartbeat = m
		a.sess.msgset.ms.LastHeartbeat = now
	case *common.MessageSysStatus:
		a.sess.msgset.ms.SysStatus = m
	case *common.MessageAttitude:
		a.sess.msgset.ms.Attitude = m
	case *common.MessageGpsRawInt:
		a.sess.msgset.ms.GPSRawInt = m
	case *common.MessageGlobalPositionInt:
		a.sess.msgset.ms.GlobalPositionInt = m
	case *common.MessageVfrHud:
		a.sess.msgset.ms.VfrHud = m
	case *common.MessageRawImu:
		a.sess.msgset.ms.RawIMU = m
	case *common.MessageScaledPressure:
		a.sess.msgset.ms.ScaledPressure = m
	case *common.MessageRcChannels:
		a.sess.msgset.ms.RCChannels = m
	case *common.MessageRcChannelsRaw:
		a.sess.msgset.ms.RCChannelsRaw = m
	case *common.MessageNavControllerOutput:
		a.sess.msgset.ms.NavControllerOutput = m
	case *common.MessageMissionCurrent:
		a.sess.msgset.ms.MissionCurrent = m
	case *common.MessageStatustext:
		a.sess.msgset.ms.Statustext = m
	case *common.MessageNamedValueFloat:
		a.sess.msgset.ms.NamedValueFloat = m
	case *common.MessageBatteryStatus:
		a.sess.msgset.ms.BatteryStatus = m
	case *common.MessageParamValue:
		recognized = false // handled below, outside the MessageSet lock
	default:
		recognized = false
	}
	if recognized {
		a.sess.msgset.ms.LastUpdate = now
	}
	a.sess.msgset.mu.Unlock()

	if recognized {
		a.sess.wholeMessage.push(WholeMessageEvent{SystemID: a.sess.SystemID, MsgID: msg.GetID(), Message: msg})
	}

	switch m := msg.(type) {
	case *common.MessageStatustext:
		ev := StatustextEvent{
			SystemID: a.sess.SystemID,
			Severity: uint8(m.Severity),
			Text:     textFromStatustext(m.Text),
		}
		a.dispatchRaw(rawEvent{statustext: &ev})
	case *common.MessageNamedValueFloat:
		ev := NamedValueEvent{
			SystemID: a.sess.SystemID,
			Name:     nameFromNamedValueFloat(m.Name),
			Value:    m.Value,
		}
		a.dispatchRaw(rawEvent{namedValue: &ev})
	case *common.MessageParamValue:
		a.handleParamValue(m)
	case *common.MessageHeartbeat:
		a.handleHeartbeat(m)
	}
}

// dispatchRaw hands a statustext/named-value event to the Event Router.
// The channel is sized to the sum of the caps of the bounded queues it
// feeds. The send never blocks: if the channel is full, the oldest
// pending event is dropped and the new one is offered once more, so the
// hot dispatch path never stalls, same drop-oldest spirit as the queues
// themselves.
func (a *Aggregator) dispatchRaw(ev rawEvent) {
	select {
	case a.sess.rawEvents <- ev:
	default:
		select {
		case <-a.sess.rawEvents:
		default:
		}
		select {
		case a.sess.rawEvents <- ev:
		default:
		}
	}
}

// handleParamValue inserts into the ParameterMap and wakes the
// Parameter Harvester.
func (a *Aggregator) handleParamValue(m *common.MessageParamValue) {
	name := nameFromParamID(m.ParamId)
	a.sess.params.insert(name, m.ParamIndex, m.ParamValue, uint8(m.ParamType), m.ParamCount)

	select {
	case a.sess.paramHarvestSignal <- struct{}{}:
	default:
	}
}

// handleHeartbeat drives the Initiating -> Disarmed transition once
// parameter harvest is complete (spec.md §4.3).
func (a *Aggregator) handleHeartbeat(m *common.MessageHeartbeat) {
	if a.sess.Status() == StatusInitiating && a.sess.params.complete() {
		a.sess.setStatus(StatusDisarmed)
	}
}

// nameFromParamID, nameFromNamedValueFloat and textFromStatustext trim
// the trailing NUL padding MAVLink fixed-size char arrays carry.
func nameFromParamID(raw [16]byte) string  { return trimNulString(raw[:]) }
func nameFromNamedValueFloat(raw [10]byte) string { return trimNulString(raw[:]) }
func textFromStatustext(raw [50]byte) string      { return trimNulString(raw[:]) }

func trimNulString(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

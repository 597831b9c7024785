package fleet

import (
	"context"
	"fmt"
	"sync"

	"github.com/bluenviron/gomavlib/v3/pkg/message"

	"github.com/trenchline/fleetctl/internal/config"
)

// Controller is the Supervisor named in spec.md §9: it owns the
// Registry, the Transport Reader, and the per-vehicle worker set, and
// is the one type an embedder talks to. Init/Deinit are idempotent
// guards around process lifetime, mirroring the original's
// as_api_init/as_api_deinit pair.
type Controller struct {
	cfg      *config.Config
	commands *Commands
	registry *Registry
	sink     SnapshotSink

	transport *Transport

	mu       sync.Mutex
	initDone bool
	deinit   bool

	workerCtx    context.Context
	workerCancel context.CancelFunc
	wg           sync.WaitGroup
}

// NewController builds a Controller with its Registry and Commands
// wired, but does not open the transport — that happens in Init.
func NewController(cfg *config.Config, sink SnapshotSink) *Controller {
	c := &Controller{cfg: cfg, sink: sink}
	c.registry = NewRegistry(c.spawnWorkers)
	c.commands = NewCommands(c.registry)
	return c
}

// Init opens the transport and starts its dispatch loop. Only the first
// successful call does anything; later calls are no-ops that return nil.
func (c *Controller) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initDone {
		return nil
	}

	sel := transportSelectorFromConfig(c.cfg.Network, c.cfg.Station)

	c.workerCtx, c.workerCancel = context.WithCancel(context.Background())

	transport, err := NewTransport(TransportConfig{Selector: sel}, c.registry, c.dispatch)
	if err != nil {
		c.workerCancel()
		return fmt.Errorf("fleet: init: %w", err)
	}
	c.transport = transport

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.transport.Run()
	}()

	c.initDone = true
	return nil
}

// transportSelectorFromConfig maps the INI-derived NetworkConfig onto
// the TransportSelector sum type (spec.md §9's idiomatic replacement
// for the original's string-sentinel p_subnet_address argument), and
// carries the [station] identity through to the wire node's own
// outbound system/component id.
func transportSelectorFromConfig(n config.NetworkConfig, station config.StationConfig) TransportSelector {
	sel := TransportSelector{
		StationSystemID:    station.SystemID,
		StationComponentID: station.ComponentID,
	}
	if n.Mode == config.TransportSerial {
		sel.Kind = TransportSerial
		sel.SerialDevice = n.SerialPort
		sel.SerialBaud = n.SerialBaud
		return sel
	}
	if n.SubnetAddress == "" {
		sel.Kind = TransportDefaultSubnet
		return sel
	}
	sel.Kind = TransportExplicitSubnet
	sel.SubnetAddress = n.SubnetAddress
	return sel
}

// dispatch is the Transport Reader's per-frame callback: it looks up
// (or, on the first frame from a never-seen system id, relies on
// Transport having just admitted) the Session and feeds its Aggregator.
func (c *Controller) dispatch(sysID SystemID, autopilotID uint8, msg message.Message) {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		return
	}
	NewAggregator(sess).Handle(msg)
}

// spawnWorkers is the Registry's onAdmit callback: it starts the five
// per-vehicle workers spec.md §4.1 describes admission as spinning up
// (Parameter Harvester, Stream Subscriber, Manual-Control Pump, Event
// Router, Snapshot Publisher). The Aggregator itself is not a worker
// goroutine — it runs inline on the Transport Reader's dispatch path.
func (c *Controller) spawnWorkers(sess *Session) {
	ctx := c.workerCtx

	workers := []func(context.Context){
		NewParamHarvester(sess).Run,
		NewStreamSubscriber(sess, c.cfg.Stream.Rates).Run,
		NewManualControlPump(sess).Run,
		NewEventRouter(sess).Run,
		NewSnapshotPublisher(sess, c.sink).Run,
	}

	for _, run := range workers {
		c.wg.Add(1)
		go func(run func(context.Context)) {
			defer c.wg.Done()
			run(ctx)
		}(run)
	}
}

// Deinit tears the controller down: closes every session, cancels
// worker contexts, closes the transport, and waits for every worker
// goroutine to exit. Idempotent.
func (c *Controller) Deinit() {
	c.mu.Lock()
	if c.deinit {
		c.mu.Unlock()
		return
	}
	c.deinit = true
	c.mu.Unlock()

	for _, sess := range c.registry.All() {
		sess.close()
	}
	if c.workerCancel != nil {
		c.workerCancel()
	}
	if c.transport != nil {
		c.transport.Close()
	}
	c.wg.Wait()
}

// --- Embedder API (spec.md §6) ---

func (c *Controller) CheckVehicle(sysID SystemID) bool {
	return c.registry.Ready(sysID)
}

func (c *Controller) GetVehicleData(sysID SystemID) (VehicleSnapshot, error) {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		return VehicleSnapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (c *Controller) Arm(sysID SystemID, autopilot uint8) error    { return c.commands.Arm(sysID, autopilot) }
func (c *Controller) Disarm(sysID SystemID, autopilot uint8) error { return c.commands.Disarm(sysID, autopilot) }
func (c *Controller) SetMode(sysID SystemID, mode uint32) error    { return c.commands.SetMode(sysID, mode) }

func (c *Controller) SetServo(sysID SystemID, autopilot uint8, servoNo, pwm float32) error {
	return c.commands.SetServo(sysID, autopilot, servoNo, pwm)
}

func (c *Controller) MotorTest(sysID SystemID, autopilot uint8, motorNo int, pwm float32) error {
	return c.commands.MotorTest(sysID, autopilot, motorNo, pwm)
}

func (c *Controller) RCChannelsOverride(sysID SystemID, autopilot uint8, ch1, ch2, ch3, ch4, ch5, ch6, ch7, ch8 uint16) error {
	return c.commands.RCChannelsOverride(sysID, autopilot, ch1, ch2, ch3, ch4, ch5, ch6, ch7, ch8)
}

func (c *Controller) ManualControl(sysID SystemID, x, y, z, r int16, buttons uint16) error {
	return c.commands.ManualControl(sysID, x, y, z, r, buttons)
}

// StatustextPop, NamedValueFloatPop and MessagePop drain one event each
// from the corresponding per-vehicle bounded queue (spec.md §4.9's
// "pop-style telemetry APIs return owned clones").
func (c *Controller) StatustextPop(sysID SystemID) (StatustextEvent, bool) {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		return StatustextEvent{}, false
	}
	return sess.statusText.tryPop()
}

func (c *Controller) StatustextCount(sysID SystemID) int {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		return 0
	}
	return sess.statusText.length()
}

func (c *Controller) NamedValueFloatPop(sysID SystemID) (NamedValueEvent, bool) {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		return NamedValueEvent{}, false
	}
	return sess.namedValue.tryPop()
}

func (c *Controller) NamedValueFloatCount(sysID SystemID) int {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		return 0
	}
	return sess.namedValue.length()
}

func (c *Controller) MessagePop(sysID SystemID) (WholeMessageEvent, bool) {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		return WholeMessageEvent{}, false
	}
	return sess.wholeMessage.tryPop()
}

func (c *Controller) MessageCount(sysID SystemID) int {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		return 0
	}
	return sess.wholeMessage.length()
}

package fleet

import (
	"fmt"
	"log"

	"github.com/bluenviron/gomavlib/v3"
	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/bluenviron/gomavlib/v3/pkg/message"
)

// Transport wraps a gomavlib Node: it reads frames off the wire and
// dispatches them by source system id, and it is the one Endpoint
// implementation every Session writes through. Every vehicle on a
// shared UDP subnet or serial bus receives every outbound frame and
// filters by the target_system field the message itself carries —
// the same broadcast-and-filter model the teacher and the rest of the
// MAVLink-speaking examples in this retrieval pack use; there is no
// per-vehicle socket to address separately (spec.md §4.1/§4.2).
type Transport struct {
	node *gomavlib.Node

	registry *Registry
	onFrame  func(sysID SystemID, autopilotID uint8, msg message.Message)
}

// TransportConfig mirrors the three-way transport_selector contract
// from spec.md §4.1/§9's Design Notes, expressed as a small sum type
// instead of the original's stringly-typed sentinel argument.
type TransportConfig struct {
	Selector TransportSelector
}

// NewTransport opens the configured endpoint and returns a Transport
// ready to Run. registry.Admit is called from the dispatch loop the
// first time an unknown source system id is observed, synthesizing
// the admission spec.md §4.1 describes as implicit on first contact.
func NewTransport(cfg TransportConfig, registry *Registry, onFrame func(sysID SystemID, autopilotID uint8, msg message.Message)) (*Transport, error) {
	endpoints, err := buildEndpoints(cfg.Selector)
	if err != nil {
		return nil, fmt.Errorf("fleet: transport: %w", err)
	}

	node, err := gomavlib.NewNode(gomavlib.NodeConf{
		Endpoints:      endpoints,
		Dialect:        common.Dialect,
		OutVersion:     gomavlib.V2,
		OutSystemID:    cfg.Selector.StationSystemID,
		OutComponentID: cfg.Selector.StationComponentID,
	})
	if err != nil {
		return nil, fmt.Errorf("fleet: transport: opening node: %w", err)
	}

	return &Transport{node: node, registry: registry, onFrame: onFrame}, nil
}

func buildEndpoints(sel TransportSelector) ([]gomavlib.EndpointConf, error) {
	switch sel.Kind {
	case TransportSerial:
		if sel.SerialDevice == "" {
			return nil, fmt.Errorf("serial transport selected with no device configured")
		}
		return []gomavlib.EndpointConf{
			gomavlib.EndpointSerial{Device: sel.SerialDevice, Baud: sel.SerialBaud},
		}, nil

	case TransportExplicitSubnet:
		return []gomavlib.EndpointConf{
			gomavlib.EndpointUDPServer{Address: sel.SubnetAddress + ":14550"},
		}, nil

	case TransportDefaultSubnet:
		fallthrough
	default:
		return []gomavlib.EndpointConf{
			gomavlib.EndpointUDPServer{Address: ":14550"},
		}, nil
	}
}

// Run drains node.Events() until the node is closed, dispatching each
// frame to its session's Aggregator. Unknown source system ids are
// admitted on the spot (spec.md §4.1: admission is implicit, triggered
// by first contact, not a separate explicit call in the wire protocol).
func (t *Transport) Run() {
	for evt := range t.node.Events() {
		frm, ok := evt.(*gomavlib.EventFrame)
		if !ok {
			continue
		}

		sysID := frm.SystemID()
		compID := frm.ComponentID()
		if sysID == 0 {
			continue
		}

		if !t.registry.Exists(sysID) {
			_, err := t.registry.Admit(sysID, compID, (*nodeEndpoint)(t.node), nil)
			if err != nil && err != ErrAlreadyExists {
				log.Printf("fleet: transport: admit sys %d: %v", sysID, err)
				continue
			}
		}

		t.onFrame(sysID, compID, frm.Message())
	}
}

// Close shuts the underlying node down, unblocking Run.
func (t *Transport) Close() {
	t.node.Close()
}

// Endpoint returns the shared broadcast-and-filter Endpoint every
// Session should be constructed with.
func (t *Transport) Endpoint() Endpoint {
	return (*nodeEndpoint)(t.node)
}

// nodeEndpoint adapts *gomavlib.Node to the Endpoint interface.
type nodeEndpoint gomavlib.Node

func (n *nodeEndpoint) Send(msg OutgoingMessage) error {
	mm, ok := msg.(message.Message)
	if !ok {
		return fmt.Errorf("fleet: transport: %T does not satisfy message.Message", msg)
	}
	return (*gomavlib.Node)(n).WriteMessageAll(mm)
}

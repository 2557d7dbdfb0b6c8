package ipc

import (
	"github.com/SphereStacking/Fluopanel/display"
	"github.com/SphereStacking/Fluopanel/eventbus"
)

// EventKind identifies which of the three native-to-host events an
// Event carries.
type EventKind string

const (
	EventMonitorTopologyChanged EventKind = "MonitorTopologyChanged"
	EventPopoverClosed          EventKind = "PopoverClosed"
	EventExternal               EventKind = "ExternalEvent"
)

// Event is the closed tagged union broadcast to children.
type Event struct {
	Kind EventKind

	Monitors []display.Monitor // EventMonitorTopologyChanged

	PopoverID string // EventPopoverClosed

	ExternalName    string   // EventExternal
	ExternalPayload []string // EventExternal
}

// EventBus fans Event values out to every subscriber, copying the
// subscriber list before each dispatch so a callback that subscribes
// or unsubscribes mid-broadcast cannot corrupt the pass.
type EventBus struct {
	bus *eventbus.Bus[Event]
}

// NewEventBus returns an empty EventBus.
func NewEventBus() *EventBus {
	return &EventBus{bus: eventbus.New[Event]()}
}

// Subscribe registers cb for every future event.
func (b *EventBus) Subscribe(cb func(Event)) *eventbus.Subscription {
	return b.bus.Subscribe(cb)
}

// PublishMonitorTopologyChanged broadcasts the new monitor snapshot.
func (b *EventBus) PublishMonitorTopologyChanged(snapshot []display.Monitor) {
	b.bus.Publish(Event{Kind: EventMonitorTopologyChanged, Monitors: snapshot})
}

// PublishPopoverClosed broadcasts that id left the Open state.
func (b *EventBus) PublishPopoverClosed(id string) {
	b.bus.Publish(Event{Kind: EventPopoverClosed, PopoverID: id})
}

// PublishExternal broadcasts an event forwarded verbatim from the IPC
// collaborator.
func (b *EventBus) PublishExternal(name string, payload []string) {
	b.bus.Publish(Event{Kind: EventExternal, ExternalName: name, ExternalPayload: payload})
}

package infrastructure

import (
	"context"

	"casino/domain/events"
)

// BusEventPublisher routes events to the in-process bus only. Used when no
// NATS server is configured.
type BusEventPublisher struct {
	bus *events.Bus
}

// NewBusEventPublisher creates a publisher backed by the in-process bus
func NewBusEventPublisher(bus *events.Bus) *BusEventPublisher {
	return &BusEventPublisher{bus: bus}
}

// Publish emits the event to local subscribers
func (p *BusEventPublisher) Publish(event events.Event) error {
	p.bus.Emit(context.Background(), event)
	return nil
}

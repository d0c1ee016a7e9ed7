package messaging

import "context"

// Broker is the pub/sub contract used for availability-change
// notifications. The engine only ever subscribes; the scheduling CRUD on
// the other side publishes when windows change.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// AvailabilityChangedChannel carries AvailabilityChanged payloads.
const AvailabilityChangedChannel = "availability.changed"

// AvailabilityChanged is published whenever a professional's windows are
// created, edited or deleted. Subscribers drop any cached snapshot.
type AvailabilityChanged struct {
	ProfessionalID string `json:"professional_id"`
}

package availability

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/clinicflow/agenda-api/pkg/messaging"
)

// ListenForChanges subscribes to availability-change events and drops the
// affected professional's cached snapshot. It blocks until ctx is done or
// the subscription closes, so callers run it in a goroutine. Losing an
// event is harmless: the cache entry expires on its own TTL.
func (s *Service) ListenForChanges(ctx context.Context, broker messaging.Broker) error {
	msgs, err := broker.Subscribe(ctx, messaging.AvailabilityChangedChannel)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-msgs:
			if !ok {
				return nil
			}
			var event messaging.AvailabilityChanged
			if err := json.Unmarshal(payload, &event); err != nil {
				s.logger.Error(err, "dropping malformed availability-change event")
				continue
			}
			id, err := uuid.Parse(event.ProfessionalID)
			if err != nil {
				s.logger.Error(err, "dropping availability-change event with bad id")
				continue
			}
			s.InvalidateProfessional(id)
			s.logger.Debug("invalidated availability snapshot", "professional_id", event.ProfessionalID)
		}
	}
}

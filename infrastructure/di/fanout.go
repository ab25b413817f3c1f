package di

import (
	"context"

	"go.uber.org/multierr"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
)

// fanoutPublisher sends each event to several publishers, used to feed both
// local subscribers and the external bus.
type fanoutPublisher struct {
	targets []ports.EventPublisher
}

func newFanoutPublisher(targets ...ports.EventPublisher) *fanoutPublisher {
	return &fanoutPublisher{targets: targets}
}

func (p *fanoutPublisher) Publish(ctx context.Context, event events.DomainEvent, topic string) error {
	var err error
	for _, target := range p.targets {
		err = multierr.Append(err, target.Publish(ctx, event, topic))
	}
	return err
}

// Package eventbridge publishes domain events to an AWS EventBridge bus for
// cross-service fan-out in production.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
)

// Publisher sends domain events to EventBridge. The topic becomes the
// detail-type, so downstream rules match on the same
// {entity-domain}.{past-tense-action} names subscribers use locally.
type Publisher struct {
	client   *awseventbridge.Client
	eventBus string
	source   string
}

// NewPublisher creates an EventBridge publisher.
func NewPublisher(client *awseventbridge.Client, eventBus, source string) *Publisher {
	if eventBus == "" {
		eventBus = "default"
	}
	if source == "" {
		source = "oddly-infrastructures"
	}
	return &Publisher{
		client:   client,
		eventBus: eventBus,
		source:   source,
	}
}

// Publish puts one event on the bus.
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent, topic string) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event %s: %w", event.GetEventID(), err)
	}

	output, err := p.client.PutEvents(ctx, &awseventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBus),
				Source:       aws.String(p.source),
				DetailType:   aws.String(topic),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(event.GetTimestamp()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("putting event %s: %w", event.GetEventID(), err)
	}
	if output.FailedEntryCount > 0 {
		return fmt.Errorf("event %s rejected by bus", event.GetEventID())
	}
	return nil
}

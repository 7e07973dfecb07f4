package events

import (
	"context"
	"encoding/json"
	"fmt"

	awspkg "github.com/bhataakib02/retail-app/pkg/aws"
)

// SNSPublisher publishes order events to an SNS topic.
type SNSPublisher struct {
	client   awspkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client awspkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Event, err)
	}
	return p.client.Publish(ctx, p.topicArn, body, map[string]string{"event": event.Event})
}

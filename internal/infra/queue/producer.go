package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)


// HotLeadPayload is the message published for every HOT lead after the
// batch commits. The alert worker consumes it to notify sales.
type HotLeadPayload struct {
	LeadID             string `json:"lead_id"`
	Name               string `json:"name"`
	Company            string `json:"company"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	MonthlyIncomeCents int64  `json:"monthly_income_cents"`
	Rating             string `json:"rating"`
	Origin             string `json:"origin"` // e.g. BATCH_INGEST
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}


func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishHotLead(ctx context.Context, payload HotLeadPayload) error {

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.leads
		RoutingKey,   // k.hot-lead
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // survives broker restart
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %v", err)
	}

	return nil
}

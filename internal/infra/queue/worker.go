package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AlertSender is the contract for hot-lead notification channels
// (email today, chat/webhook later).
type AlertSender interface {
	SendHotLeadAlert(payload HotLeadPayload) error
}

type Worker struct {
	Channel *amqp.Channel
	Sender  AlertSender
}

func NewWorker(ch *amqp.Channel, sender AlertSender) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack (manual is safer)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {

			var payload HotLeadPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] Malformed message: %s", err)
				// Poison message. Reject without requeue so it goes to the DLQ.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Hot lead alert for: %s (%s)", payload.Name, payload.Company)

			if err := w.Sender.SendHotLeadAlert(payload); err != nil {
				log.Printf("❌ [WORKER] Alert delivery failed: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Sales notified about lead %s", payload.LeadID)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Alert worker waiting on queue '%s'", queueName)
	<-forever
}

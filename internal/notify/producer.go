package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Change is the message shape published after a successful mutation.
type Change struct {
	Entity  string    `json:"entity"`
	Action  string    `json:"action"`
	Key     string    `json:"key"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Producer streams entity change notifications to Kafka. Publishing is
// best effort: the services log failures and keep going.
type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{writer: writer}
}

func (p *Producer) PublishChange(entity, action, key string, payload any) error {
	change := Change{
		Entity:  entity,
		Action:  action,
		Key:     key,
		At:      time.Now().UTC(),
		Payload: payload,
	}
	msgBytes, err := json.Marshal(change)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(entity + "/" + key),
			Value: msgBytes,
		},
	)
}

// Noop satisfies the services' Publisher interface when the change feed is
// disabled.
type Noop struct{}

func (Noop) PublishChange(entity, action, key string, payload any) error {
	return nil
}

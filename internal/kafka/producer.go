package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer buffers messages in an inbox channel and writes them from a single
// goroutine. The writer has no fixed topic: each message carries its own, so
// one producer serves every order topic.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true, // fire-and-forget for throughput; errors logged in the loop
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(p.inbox)
				for m := range p.inbox {
					_ = p.w.WriteMessages(context.Background(), m)
				}
				_ = p.w.Close()
				close(p.closeCh)
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				if err := p.w.WriteMessages(context.Background(), m); err != nil {
					slog.Error("kafka write", "topic", m.Topic, "error", err)
				}
			}
		}
	}()
}

func (p *Producer) Publish(topic string, key, value []byte, headers ...kafka.Header) {
	p.inbox <- kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Close the inbox so the goroutine flushes remaining messages and exits.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the flush goroutine has exited.
func (p *Producer) WaitClosed() { <-p.closeCh }

package busclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

func init() {
	RegisterDriver("kafka", newKafkaClient)
}

const (
	sendTimeout           = 15 * time.Second
	batchingMaxPublishDelay = time.Millisecond
)

// kafkaClient wraps a kafka-go Writer configured to mirror the producer
// settings the original bus client used: a bounded send timeout, block-if-
// queue-full backpressure instead of dropping messages, small batching
// windows so latency stays low, and Murmur3 partitioning.
type kafkaClient struct {
	writer *kafka.Writer
}

func newKafkaClient(config map[string]string) (Client, error) {
	brokers := strings.Split(config["brokers"], ",")
	if len(brokers) == 0 || brokers[0] == "" {
		return nil, fmt.Errorf("busclient: kafka driver requires \"brokers\"")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               murmur3Balancer{},
		BatchTimeout:           batchingMaxPublishDelay,
		WriteTimeout:           sendTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  false,
	}

	return &kafkaClient{writer: w}, nil
}

func (c *kafkaClient) Send(topic, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	return c.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

func (c *kafkaClient) Close() error {
	return c.writer.Close()
}

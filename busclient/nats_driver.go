package busclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

func init() {
	RegisterDriver("nats", newNatsClient)
}

// natsClient publishes through JetStream so messages persist for
// consumers that are behind or briefly disconnected, matching the
// durability expectations of the primary kafka driver.
type natsClient struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	stream string
}

func newNatsClient(config map[string]string) (Client, error) {
	url := config["url"]
	if url == "" {
		return nil, fmt.Errorf("busclient: nats driver requires \"url\"")
	}

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("busclient: connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("busclient: create jetstream context: %w", err)
	}

	stream := config["stream"]
	if stream == "" {
		stream = "cdc"
	}

	return &natsClient{nc: nc, js: js, stream: stream}, nil
}

func (c *natsClient) Send(topic, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      sanitizeStreamName(c.stream),
		Subjects:  []string{topic},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
	})
	if err != nil {
		return fmt.Errorf("busclient: ensure stream: %w", err)
	}

	_, err = c.js.PublishMsg(ctx, &nats.Msg{
		Subject: topic,
		Data:    value,
		Header:  nats.Header{"key": []string{key}},
	})
	if err != nil {
		return fmt.Errorf("busclient: publish to %s: %w", topic, err)
	}
	return nil
}

func (c *natsClient) Close() error {
	c.nc.Close()
	return nil
}

func sanitizeStreamName(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

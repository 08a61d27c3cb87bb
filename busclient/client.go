// Package busclient publishes keyed messages to the partitioned pub/sub bus
// mutations are delivered to. It stands in for a Pulsar client: the
// corpus's actual dependency for partitioned keyed publishing is
// segmentio/kafka-go, and the same driver/registry shape also supports a
// NATS JetStream backend for deployments that prefer it.
package busclient

import "fmt"

// Client publishes a keyed message to topic. Send blocks until the bus
// backend has accepted the message (queued for send, matching the
// block-if-queue-full behavior of the system it stands in for) or returns
// an error the delivery loop should retry after.
type Client interface {
	Send(topic, key string, value []byte) error
	Close() error
}

// Driver constructs a Client from a driver-specific configuration value.
type Driver func(config map[string]string) (Client, error)

var drivers = make(map[string]Driver)

// RegisterDriver makes a bus driver available under name, so main can pick
// one by configuration without every driver package needing to know about
// every other one.
func RegisterDriver(name string, d Driver) {
	drivers[name] = d
}

// New constructs a Client using the driver registered under name.
func New(name string, config map[string]string) (Client, error) {
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("busclient: unknown driver %q", name)
	}
	return d(config)
}

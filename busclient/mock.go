package busclient

import "sync"

// MockMessage records one call to MockClient.Send.
type MockMessage struct {
	Topic string
	Key   string
	Value []byte
}

// MockClient is a test double implementing Client, used by delivery and
// publisher tests to assert on what would have been sent without a real
// broker.
type MockClient struct {
	mu       sync.Mutex
	Messages []MockMessage
	SendErr  error
}

func (c *MockClient) Send(topic, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SendErr != nil {
		return c.SendErr
	}
	c.Messages = append(c.Messages, MockMessage{Topic: topic, Key: key, Value: value})
	return nil
}

func (c *MockClient) Close() error { return nil }

// Reset clears recorded messages and any injected error.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Messages = nil
	c.SendErr = nil
}

// Count returns the number of successfully recorded sends.
func (c *MockClient) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Messages)
}

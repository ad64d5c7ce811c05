package mqtt

import (
	"strings"
	"sync"

	coremqtt "github.com/kilianp07/liftsim/core/mqtt"
)

// Message is a payload captured by MemoryClient.
type Message struct {
	Topic    string
	Payload  []byte
	Retained bool
}

// MemoryClient is an in-process Client used in tests. Published messages are
// recorded and also delivered to matching subscriptions.
type MemoryClient struct {
	mu        sync.Mutex
	handlers  map[string]coremqtt.Handler
	Published []Message
	FailTopic map[string]bool
	closed    bool
}

// NewMemoryClient creates an empty MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{handlers: map[string]coremqtt.Handler{}, FailTopic: map[string]bool{}}
}

// Publish records the message or returns an error if configured to fail.
func (m *MemoryClient) Publish(topic string, payload []byte, retained bool) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return coremqtt.ErrNotConnected
	}
	if m.FailTopic[topic] {
		m.mu.Unlock()
		return coremqtt.ErrNotConnected
	}
	m.Published = append(m.Published, Message{Topic: topic, Payload: append([]byte(nil), payload...), Retained: retained})
	m.mu.Unlock()
	m.Deliver(topic, payload)
	return nil
}

// Subscribe registers h for the topic filter.
func (m *MemoryClient) Subscribe(topic string, h coremqtt.Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = h
	return nil
}

// Deliver calls every handler whose filter matches topic.
func (m *MemoryClient) Deliver(topic string, payload []byte) {
	m.mu.Lock()
	var hs []coremqtt.Handler
	for f, h := range m.handlers {
		if MatchTopic(f, topic) {
			hs = append(hs, h)
		}
	}
	m.mu.Unlock()
	for _, h := range hs {
		h(topic, payload)
	}
}

// Messages returns the messages published on topic.
func (m *MemoryClient) Messages(topic string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Message
	for _, msg := range m.Published {
		if msg.Topic == topic {
			out = append(out, msg)
		}
	}
	return out
}

// Disconnect marks the client closed.
func (m *MemoryClient) Disconnect() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

// MatchTopic reports whether topic matches the MQTT filter, honouring the
// single level '+' and multi level '#' wildcards.
func MatchTopic(filter, topic string) bool {
	fs := strings.Split(filter, "/")
	ts := strings.Split(topic, "/")
	for i, f := range fs {
		if f == "#" {
			return true
		}
		if i >= len(ts) {
			return false
		}
		if f != "+" && f != ts[i] {
			return false
		}
	}
	return len(fs) == len(ts)
}

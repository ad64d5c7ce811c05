package mqtt

// Handler receives the topic and payload of an incoming message.
type Handler func(topic string, payload []byte)

// Client is the transport used by the building bridge.
type Client interface {
	// Publish sends payload on topic.
	Publish(topic string, payload []byte, retained bool) error
	// Subscribe registers h for topic. Subscriptions survive reconnects.
	Subscribe(topic string, h Handler) error
	Disconnect()
}

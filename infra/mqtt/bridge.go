package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	corelog "github.com/kilianp07/liftsim/core/logger"
	"github.com/kilianp07/liftsim/core/model"
	coremqtt "github.com/kilianp07/liftsim/core/mqtt"
)

// Controller is the part of a building driven over MQTT.
type Controller interface {
	RequestCar(floor int, dir model.Direction) bool
	RequestFloor(carIndex, floor int) bool
	SetPolicy(p model.Policy) bool
	Reconfigure(totalFloors int) error
	Status() model.FleetStatus
}

// Topics lists the topics used by a Bridge.
type Topics struct {
	Call     string
	Cabin    string
	Policy   string
	Floors   string
	Status   string
	Rejected string
}

// NewTopics derives the bridge topics from prefix.
func NewTopics(prefix string) Topics {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{
		Call:     prefix + "/call",
		Cabin:    prefix + "/cars/+/request",
		Policy:   prefix + "/policy",
		Floors:   prefix + "/floors",
		Status:   prefix + "/status",
		Rejected: prefix + "/rejected",
	}
}

// CallMessage is a hall call published on Topics.Call.
type CallMessage struct {
	Floor     int    `json:"floor"`
	Direction string `json:"direction"`
}

// CabinMessage is a cabin request published on Topics.Cabin. The car id
// (1-based) is the topic level after "cars".
type CabinMessage struct {
	Floor int `json:"floor"`
}

// PolicyMessage switches the assignment policy.
type PolicyMessage struct {
	Policy string `json:"policy"`
}

// FloorsMessage reconfigures the building.
type FloorsMessage struct {
	Floors int `json:"floors"`
}

// Rejection is published on Topics.Rejected when a message is refused.
type Rejection struct {
	Topic  string `json:"topic"`
	Reason string `json:"reason"`
}

// Bridge exposes a building over MQTT: requests come in on command topics
// and fleet snapshots go out periodically on the status topic.
type Bridge struct {
	client   coremqtt.Client
	ctrl     Controller
	topics   Topics
	interval time.Duration
	log      corelog.Logger
}

// NewBridge creates a bridge publishing status every interval. log may be nil.
func NewBridge(client coremqtt.Client, ctrl Controller, prefix string, interval time.Duration, log corelog.Logger) *Bridge {
	if log == nil {
		log = corelog.NopLogger{}
	}
	return &Bridge{client: client, ctrl: ctrl, topics: NewTopics(prefix), interval: interval, log: log}
}

// Topics returns the topics used by the bridge.
func (b *Bridge) Topics() Topics { return b.topics }

// Start subscribes to every command topic.
func (b *Bridge) Start() error {
	subs := map[string]coremqtt.Handler{
		b.topics.Call:   b.onCall,
		b.topics.Cabin:  b.onCabin,
		b.topics.Policy: b.onPolicy,
		b.topics.Floors: b.onFloors,
	}
	for topic, h := range subs {
		if err := b.client.Subscribe(topic, h); err != nil {
			return err
		}
	}
	b.log.Infof("mqtt bridge listening on %s, %s, %s, %s", b.topics.Call, b.topics.Cabin, b.topics.Policy, b.topics.Floors)
	return nil
}

// Run subscribes and then publishes the fleet status until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.Start(); err != nil {
		return err
	}
	interval := b.interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := b.PublishStatus(); err != nil {
				b.log.Warnf("publish status: %v", err)
			}
		}
	}
}

// PublishStatus publishes the current fleet status as a retained message.
func (b *Bridge) PublishStatus() error {
	payload, err := json.Marshal(b.ctrl.Status())
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return b.client.Publish(b.topics.Status, payload, true)
}

func (b *Bridge) onCall(topic string, payload []byte) {
	var m CallMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		b.reject(topic, fmt.Errorf("%w: %v", coremqtt.ErrInvalidPayload, err))
		return
	}
	dir, err := model.ParseDirection(m.Direction)
	if err != nil {
		b.reject(topic, err)
		return
	}
	if !b.ctrl.RequestCar(m.Floor, dir) {
		b.reject(topic, fmt.Errorf("hall call floor=%d direction=%s refused", m.Floor, dir))
	}
}

func (b *Bridge) onCabin(topic string, payload []byte) {
	id, err := b.carID(topic)
	if err != nil {
		b.reject(topic, err)
		return
	}
	var m CabinMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		b.reject(topic, fmt.Errorf("%w: %v", coremqtt.ErrInvalidPayload, err))
		return
	}
	if !b.ctrl.RequestFloor(id-1, m.Floor) {
		b.reject(topic, fmt.Errorf("cabin request car=%d floor=%d refused", id, m.Floor))
	}
}

func (b *Bridge) onPolicy(topic string, payload []byte) {
	var m PolicyMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		b.reject(topic, fmt.Errorf("%w: %v", coremqtt.ErrInvalidPayload, err))
		return
	}
	p, err := model.ParsePolicy(m.Policy)
	if err != nil {
		b.reject(topic, err)
		return
	}
	b.ctrl.SetPolicy(p)
}

func (b *Bridge) onFloors(topic string, payload []byte) {
	var m FloorsMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		b.reject(topic, fmt.Errorf("%w: %v", coremqtt.ErrInvalidPayload, err))
		return
	}
	if err := b.ctrl.Reconfigure(m.Floors); err != nil {
		b.reject(topic, err)
	}
}

// carID extracts the 1-based car id from <prefix>/cars/<id>/request.
func (b *Bridge) carID(topic string) (int, error) {
	base := strings.TrimSuffix(b.topics.Cabin, "+/request")
	rest, ok := strings.CutPrefix(topic, base)
	if !ok {
		return 0, fmt.Errorf("unexpected topic %s", topic)
	}
	id, err := strconv.Atoi(strings.TrimSuffix(rest, "/request"))
	if err != nil {
		return 0, fmt.Errorf("car id in %s: %w", topic, err)
	}
	return id, nil
}

func (b *Bridge) reject(topic string, reason error) {
	b.log.Warnf("rejected message on %s: %v", topic, reason)
	payload, err := json.Marshal(Rejection{Topic: topic, Reason: reason.Error()})
	if err != nil {
		return
	}
	if err := b.client.Publish(b.topics.Rejected, payload, false); err != nil {
		b.log.Errorf("publish rejection: %v", err)
	}
}

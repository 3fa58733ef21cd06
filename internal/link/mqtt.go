package link

import (
	"errors"
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/roblatour/netblocker/internal/message"
	"github.com/roblatour/netblocker/internal/safety"
)

const (
	connectTimeout  = 10 * time.Second
	deliveryTimeout = 5 * time.Second
)

// MQTTLink is the broker-backed transport. Each node subscribes to
// <prefix>/<ownRole> and publishes to <prefix>/<peerRole>, QoS 0, not
// retained. Delivery confirmation is the publish token resolving within
// the delivery timeout.
type MQTTLink struct {
	client    paho.Client
	sendTopic string
	cb        Callbacks
}

// NewMQTTLink connects to the broker and subscribes to this role's
// topic. A connect or subscribe failure here is a link init failure:
// the caller must treat it as terminal.
func NewMQTTLink(broker, topicPrefix string, role safety.Role, cb Callbacks) (*MQTTLink, error) {
	if role != safety.RoleController && role != safety.RoleSwitchbox {
		return nil, errors.New("link: role must be determined before the link comes up")
	}

	clientID := fmt.Sprintf("netblocker-%s-%s", role, uuid.NewString()[:8])
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(false)

	l := &MQTTLink{
		sendTopic: fmt.Sprintf("%s/%s", topicPrefix, role.Peer()),
		cb:        cb,
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("link: connect timeout after %v", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("link: connect to broker: %w", err)
	}
	l.client = client

	recvTopic := fmt.Sprintf("%s/%s", topicPrefix, role)
	sub := client.Subscribe(recvTopic, 0, l.onMessage)
	if !sub.WaitTimeout(connectTimeout) {
		client.Disconnect(250)
		return nil, fmt.Errorf("link: subscribe timeout after %v", connectTimeout)
	}
	if err := sub.Error(); err != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("link: subscribe %s: %w", recvTopic, err)
	}

	log.Printf("link: up as %s (client=%s rx=%s tx=%s)", role, clientID, recvTopic, l.sendTopic)
	return l, nil
}

func (l *MQTTLink) onMessage(_ paho.Client, m paho.Message) {
	t, err := message.Decode(m.Payload())
	if err != nil {
		if l.cb.OnReceiveError != nil {
			l.cb.OnReceiveError(err)
		}
		return
	}
	if l.cb.OnReceive != nil {
		l.cb.OnReceive(t)
	}
}

// Send publishes one frame to the peer's topic. The publish token is
// watched from its own goroutine so the control loop never blocks on the
// broker; the outcome is reported through OnSendComplete.
func (l *MQTTLink) Send(m message.Transmission) error {
	token := l.client.Publish(l.sendTopic, 0, false, message.Encode(m))
	go func() {
		ok := token.WaitTimeout(deliveryTimeout) && token.Error() == nil
		if l.cb.OnSendComplete != nil {
			l.cb.OnSendComplete(ok)
		}
	}()
	return nil
}

// Close disconnects from the broker.
func (l *MQTTLink) Close() error {
	l.client.Disconnect(1000) // 1 second timeout
	return nil
}

// Package link provides the point-to-point message channel between the
// two nodes, with abstraction for testing. The real implementation rides
// an MQTT broker; the fake is fully scripted.
//
// The channel is unreliable: Send reports immediate accept/reject, an
// asynchronous OnSendComplete reports whether delivery was confirmed, and
// inbound messages arrive through OnReceive from the transport's own
// goroutine. Callbacks must do no more than hand the event to the
// consumer; node code drains them through a queue once per tick.
package link

import "github.com/roblatour/netblocker/internal/message"

// Callbacks are invoked from the transport's execution context,
// concurrently with the caller's main loop.
type Callbacks struct {
	// OnReceive delivers a decoded inbound message.
	OnReceive func(message.Transmission)

	// OnReceiveError reports an inbound frame that failed to decode.
	OnReceiveError func(error)

	// OnSendComplete reports the outcome of the most recent accepted
	// Send: true if delivery was confirmed, false otherwise.
	OnSendComplete func(ok bool)
}

// Link sends protocol messages to the peer.
type Link interface {
	// Send queues m for transmission. An error means the message was
	// rejected outright; otherwise the outcome arrives asynchronously
	// via OnSendComplete.
	Send(m message.Transmission) error

	// Close shuts the transport down.
	Close() error
}

package link

import "github.com/roblatour/netblocker/internal/message"

// FakeLink records sent messages for test assertions and lets tests
// inject completions and inbound traffic.
type FakeLink struct {
	// Sent contains every message accepted by Send, in order.
	Sent []message.Transmission

	// SendError, if set, will be returned by Send (immediate reject).
	SendError error

	// Closed tracks if Close was called.
	Closed bool

	cb Callbacks
}

// NewFakeLink creates a FakeLink delivering events to the given callbacks.
func NewFakeLink(cb Callbacks) *FakeLink {
	return &FakeLink{cb: cb}
}

// Send records the message.
func (f *FakeLink) Send(m message.Transmission) error {
	if f.SendError != nil {
		return f.SendError
	}
	f.Sent = append(f.Sent, m)
	return nil
}

// Close marks the link as closed.
func (f *FakeLink) Close() error {
	f.Closed = true
	return nil
}

// CompleteSend simulates the asynchronous delivery outcome of the most
// recent Send.
func (f *FakeLink) CompleteSend(ok bool) {
	if f.cb.OnSendComplete != nil {
		f.cb.OnSendComplete(ok)
	}
}

// Deliver simulates an inbound message from the peer.
func (f *FakeLink) Deliver(m message.Transmission) {
	if f.cb.OnReceive != nil {
		f.cb.OnReceive(m)
	}
}

// DeliverError simulates an undecodable inbound frame.
func (f *FakeLink) DeliverError(err error) {
	if f.cb.OnReceiveError != nil {
		f.cb.OnReceiveError(err)
	}
}

// Reset clears recorded messages.
func (f *FakeLink) Reset() {
	f.Sent = nil
	f.SendError = nil
	f.Closed = false
}

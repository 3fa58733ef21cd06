// Package message defines the wire protocol between the Controller and
// the Switchbox: the six message kinds, their fixed sender/receiver
// roles, and the fixed-size frame codec.
package message

import (
	"errors"

	"github.com/roblatour/netblocker/internal/safety"
)

// Kind identifies a protocol message.
type Kind uint8

const (
	// RequestSwitchboxStatus asks the Switchbox to re-sample its own
	// switch and reply with SwitchboxStatusReply.
	RequestSwitchboxStatus Kind = iota
	// SwitchboxStatusReply carries the Switchbox's debounced switch
	// status to the Controller.
	SwitchboxStatusReply
	// RequestNetworkStatus asks the Controller for the current relay
	// state.
	RequestNetworkStatus
	// NetworkStatusReply carries the Controller's relay state to the
	// Switchbox. Also sent unprompted as the Controller's liveness probe.
	NetworkStatusReply
	// RequestBlock demands the Controller energize the relay. Always
	// honored.
	RequestBlock
	// RequestUnblock asks the Controller to de-energize the relay,
	// subject to the both-sides-agree gate.
	RequestUnblock

	kindCount
)

// String returns the kind name for logs.
func (k Kind) String() string {
	switch k {
	case RequestSwitchboxStatus:
		return "REQUEST_SWITCHBOX_STATUS"
	case SwitchboxStatusReply:
		return "SWITCHBOX_STATUS_REPLY"
	case RequestNetworkStatus:
		return "REQUEST_NETWORK_STATUS"
	case NetworkStatusReply:
		return "NETWORK_STATUS_REPLY"
	case RequestBlock:
		return "REQUEST_BLOCK"
	case RequestUnblock:
		return "REQUEST_UNBLOCK"
	default:
		return "INVALID"
	}
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	return k < kindCount
}

// Sender returns the only role permitted to send this kind.
func (k Kind) Sender() safety.Role {
	switch k {
	case RequestSwitchboxStatus, NetworkStatusReply:
		return safety.RoleController
	case SwitchboxStatusReply, RequestNetworkStatus, RequestBlock, RequestUnblock:
		return safety.RoleSwitchbox
	default:
		return safety.RoleUndetermined
	}
}

// Receiver returns the only role permitted to handle this kind.
func (k Kind) Receiver() safety.Role {
	return k.Sender().Peer()
}

// Transmission is one immutable protocol message. Fixed-size,
// self-contained; no sequence numbers, no correlation IDs — duplicate or
// out-of-order delivery is not detected.
type Transmission struct {
	Kind   Kind
	Status safety.SwitchStatus
}

// ErrUnexpected is returned by a handler when a message arrives at a node
// whose role is not the kind's receiver.
var ErrUnexpected = errors.New("message: unexpected kind for this role")

// CheckReceiver validates that a node with the given role may handle t.
func (t Transmission) CheckReceiver(role safety.Role) error {
	if !t.Kind.Valid() || t.Kind.Receiver() != role {
		return ErrUnexpected
	}
	return nil
}

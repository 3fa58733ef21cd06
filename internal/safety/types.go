// Package safety contains pure business logic for the emergency-stop state
// machine: status and role types, debounced contact sampling, role
// negotiation, the unblock gate, and the heartbeat liveness scheduler.
// This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters or
// caller-supplied sleep functions.
package safety

import "time"

// SwitchStatus is the three-valued status of an emergency-stop switch or of
// the network link it controls.
type SwitchStatus uint8

const (
	// StatusUnknown means "not yet confirmed by a request/reply cycle".
	// It is only ever used for the belief about the peer's switch; a
	// node's own switch is always resolved by direct sampling.
	StatusUnknown SwitchStatus = iota
	StatusBlocked
	StatusUnblocked
)

// String returns the status name for logs and the status page.
func (s SwitchStatus) String() string {
	switch s {
	case StatusBlocked:
		return "BLOCKED"
	case StatusUnblocked:
		return "UNBLOCKED"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the three defined values.
func (s SwitchStatus) Valid() bool {
	return s <= StatusUnblocked
}

// EngagedStatus converts a directly-sampled engagement fact into its
// wire and display representation. A node's own switch is a boolean fact
// (the sampler always resolves it); only beliefs about the peer carry the
// third, Unknown value.
func EngagedStatus(engaged bool) SwitchStatus {
	if engaged {
		return StatusBlocked
	}
	return StatusUnblocked
}

// Role identifies which half of the system this node is. It is fixed for
// the lifetime of the process once negotiated at boot.
type Role uint8

const (
	RoleUndetermined Role = iota
	// RoleController owns the relay that severs the network link.
	RoleController
	// RoleSwitchbox is the remote button with no actuation capability.
	RoleSwitchbox
)

// String returns the role name for logs and the status page.
func (r Role) String() string {
	switch r {
	case RoleController:
		return "CONTROLLER"
	case RoleSwitchbox:
		return "SWITCHBOX"
	default:
		return "UNDETERMINED"
	}
}

// Peer returns the opposite role, or RoleUndetermined for RoleUndetermined.
func (r Role) Peer() Role {
	switch r {
	case RoleController:
		return RoleSwitchbox
	case RoleSwitchbox:
		return RoleController
	default:
		return RoleUndetermined
	}
}

// AlarmLevel classifies the node's current fault condition.
type AlarmLevel uint8

const (
	AlarmNone AlarmLevel = iota
	// AlarmCommsProblem is transient: a send failed or an unexpected
	// message arrived. Clears automatically on the next successful
	// exchange.
	AlarmCommsProblem
	// AlarmWiringProblem is terminal: the role could not be determined
	// from the wiring, or the wiring names a role this build does not
	// support.
	AlarmWiringProblem
	// AlarmLinkInitFailure is terminal: the transport could not be
	// brought up at boot.
	AlarmLinkInitFailure
)

// String returns the alarm name for logs and the status page.
func (a AlarmLevel) String() string {
	switch a {
	case AlarmCommsProblem:
		return "COMMS_PROBLEM"
	case AlarmWiringProblem:
		return "WIRING_PROBLEM"
	case AlarmLinkInitFailure:
		return "LINK_INIT_FAILURE"
	default:
		return "NONE"
	}
}

// FlashInterval returns the indicator flash period for this alarm level,
// or 0 for steady. Steady-on vs steady-off (blocked vs unblocked) is the
// indicator driver's concern, not the alarm's.
func (a AlarmLevel) FlashInterval() time.Duration {
	switch a {
	case AlarmCommsProblem:
		return 333 * time.Millisecond
	case AlarmWiringProblem:
		return 1000 * time.Millisecond
	case AlarmLinkInitFailure:
		return 3000 * time.Millisecond
	default:
		return 0
	}
}

// Terminal reports whether this alarm level indicates a fault that cannot
// clear without a physical fix or a restart.
func (a AlarmLevel) Terminal() bool {
	return a == AlarmWiringProblem || a == AlarmLinkInitFailure
}

// ContactSample is one instantaneous reading of the four emergency-stop
// contact inputs. true = circuit closed.
type ContactSample struct {
	ControllerNC bool // Controller switch, normally-closed contact
	ControllerNO bool // Controller switch, normally-open contact
	SwitchboxNC  bool // Switchbox switch, normally-closed contact
	SwitchboxNO  bool // Switchbox switch, normally-open contact
}

// nc returns the normally-closed contact reading for the given role.
func (s ContactSample) nc(r Role) bool {
	if r == RoleSwitchbox {
		return s.SwitchboxNC
	}
	return s.ControllerNC
}

// no returns the normally-open contact reading for the given role.
func (s ContactSample) no(r Role) bool {
	if r == RoleSwitchbox {
		return s.SwitchboxNO
	}
	return s.ControllerNO
}

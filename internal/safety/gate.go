package safety

// Veto identifies which side denied an unblock request.
type Veto uint8

const (
	VetoNone Veto = iota
	VetoController
	VetoSwitchbox
)

// String returns the veto name for logs.
func (v Veto) String() string {
	switch v {
	case VetoController:
		return "controller"
	case VetoSwitchbox:
		return "switchbox"
	default:
		return "none"
	}
}

// UnblockPermitted decides whether the Controller may de-energize the
// relay. Unblocking requires both sides to agree: the Controller's own
// switch must not be engaged and the believed Switchbox switch must not
// be Blocked. The two arguments deliberately differ in type: the local
// switch is a sampled fact, while the peer side is a belief that may be
// Unknown.
//
// An Unknown peer belief does not veto. The original device fails open
// when the peer is unreachable after the refresh attempt; blocking, the
// fail-safe direction, never consults this gate at all.
func UnblockPermitted(ownEngaged bool, peer SwitchStatus) (bool, Veto) {
	if ownEngaged {
		return false, VetoController
	}
	if peer == StatusBlocked {
		return false, VetoSwitchbox
	}
	return true, VetoNone
}

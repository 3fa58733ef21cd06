package safety

import (
	"fmt"
	"time"
)

// NegotiateRole determines at boot whether this node is the Controller or
// the Switchbox from which switch is actually wired to the header. Both
// roles' contact pairs land on the same board layout; only one role's
// switch is connected in a given physical unit.
//
// Each of the four inputs is counted as closed only if it reads closed in
// two samples separated by the settle delay. Exactly one stable-closed
// input identifies the wired switch and hence the role. Zero closed means
// nothing is connected; two or more means a short or a double-wired
// board. Either way the role is unknowable and the node must stay in its
// blocked-safe boot state.
//
// A closed Switchbox-side contact on a build with switchbox support
// disabled is also a wiring fault: the hardware names a role the binary
// refuses to play.
//
// Runs exactly once, before any transport activity.
func NegotiateRole(read ReadFunc, sleep SleepFunc, settle time.Duration, switchboxEnabled bool) (Role, error) {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}

	first, err := read()
	if err != nil {
		return RoleUndetermined, fmt.Errorf("negotiate role: %w", err)
	}
	sleep(settle)
	second, err := read()
	if err != nil {
		return RoleUndetermined, fmt.Errorf("negotiate role: %w", err)
	}

	stable := ContactSample{
		ControllerNC: first.ControllerNC && second.ControllerNC,
		ControllerNO: first.ControllerNO && second.ControllerNO,
		SwitchboxNC:  first.SwitchboxNC && second.SwitchboxNC,
		SwitchboxNO:  first.SwitchboxNO && second.SwitchboxNO,
	}

	controllerClosed := 0
	switchboxClosed := 0
	if stable.ControllerNC {
		controllerClosed++
	}
	if stable.ControllerNO {
		controllerClosed++
	}
	if stable.SwitchboxNC {
		switchboxClosed++
	}
	if stable.SwitchboxNO {
		switchboxClosed++
	}

	total := controllerClosed + switchboxClosed
	if total != 1 {
		return RoleUndetermined, fmt.Errorf("negotiate role: %d contacts closed, want exactly 1", total)
	}
	if switchboxClosed == 1 {
		if !switchboxEnabled {
			return RoleUndetermined, fmt.Errorf("negotiate role: switchbox wiring detected but switchbox support is disabled")
		}
		return RoleSwitchbox, nil
	}
	return RoleController, nil
}

// Package gpio provides contact-input reading and relay actuation with
// hardware abstraction. The real implementation uses the Linux GPIO
// character device. The fakes allow testing without hardware.
package gpio

import "github.com/roblatour/netblocker/internal/safety"

// Reader reads the four emergency-stop contact inputs.
type Reader interface {
	// Read returns one instantaneous sample of all four contacts.
	// true = circuit closed. Contacts are wired closed-high through
	// pull-down inputs.
	Read() (safety.ContactSample, error)

	// Close releases GPIO resources.
	Close() error
}

// Relay drives the output line that physically severs the network link.
type Relay interface {
	// Set energizes (true) or de-energizes (false) the relay.
	// Energized means the network is blocked.
	Set(energized bool) error

	// Energized returns the last commanded state.
	Energized() bool

	// Close releases the line, leaving it energized (blocked-safe).
	Close() error
}

// Pin definitions (BCM numbering). Both roles' switches land on the same
// header layout; only one switch is wired in a given unit.
const (
	PinControllerNC = 26 // Controller switch, normally-closed contact
	PinControllerNO = 16 // Controller switch, normally-open contact
	PinSwitchboxNC  = 20 // Switchbox switch, normally-closed contact
	PinSwitchboxNO  = 21 // Switchbox switch, normally-open contact
	PinRelay        = 12 // block relay output
)

// Pins carries the configured pin assignment.
type Pins struct {
	ControllerNC int
	ControllerNO int
	SwitchboxNC  int
	SwitchboxNO  int
	Relay        int
}

// DefaultPins returns the standard pin assignment.
func DefaultPins() Pins {
	return Pins{
		ControllerNC: PinControllerNC,
		ControllerNO: PinControllerNO,
		SwitchboxNC:  PinSwitchboxNC,
		SwitchboxNO:  PinSwitchboxNO,
		Relay:        PinRelay,
	}
}

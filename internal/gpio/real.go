//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/roblatour/netblocker/internal/safety"
)

// RealReader reads the contact inputs from actual hardware using the
// Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [4]*gpiocdev.Line // controllerNC, controllerNO, switchboxNC, switchboxNO
}

// NewRealReader requests the four contact input lines.
func NewRealReader(pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	order := []struct {
		name string
		pin  int
	}{
		{"controller NC", pins.ControllerNC},
		{"controller NO", pins.ControllerNO},
		{"switchbox NC", pins.SwitchboxNC},
		{"switchbox NO", pins.SwitchboxNO},
	}
	for i, o := range order {
		// Pull-down so an unwired contact reads open, not floating.
		line, err := chip.RequestLine(o.pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", o.name, o.pin, err)
		}
		r.lines[i] = line
	}
	return r, nil
}

// Read returns one sample of all four contacts. Raw high = circuit closed.
func (r *RealReader) Read() (safety.ContactSample, error) {
	var vals [4]bool
	for i, line := range r.lines {
		raw, err := line.Value()
		if err != nil {
			return safety.ContactSample{}, fmt.Errorf("read contact line %d: %w", i, err)
		}
		vals[i] = raw != 0
	}
	return safety.ContactSample{
		ControllerNC: vals[0],
		ControllerNO: vals[1],
		SwitchboxNC:  vals[2],
		SwitchboxNO:  vals[3],
	}, nil
}

// Close releases all requested lines and the chip.
func (r *RealReader) Close() error {
	var errs []error
	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close contact line %d: %w", i, err))
		}
		r.lines[i] = nil
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		r.chip = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealRelay drives the block relay line.
type RealRelay struct {
	chip      *gpiocdev.Chip
	line      *gpiocdev.Line
	energized bool
}

// NewRealRelay requests the relay output line, energized from the start
// so the node boots blocked-safe.
func NewRealRelay(pin int) (*RealRelay, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(1))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request relay pin %d: %w", pin, err)
	}
	return &RealRelay{chip: chip, line: line, energized: true}, nil
}

// Set energizes or de-energizes the relay.
func (r *RealRelay) Set(energized bool) error {
	v := 0
	if energized {
		v = 1
	}
	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("set relay: %w", err)
	}
	r.energized = energized
	return nil
}

// Energized returns the last commanded relay state.
func (r *RealRelay) Energized() bool {
	return r.energized
}

// Close re-energizes the relay before releasing the line so a daemon
// shutdown never leaves the network unblocked.
func (r *RealRelay) Close() error {
	var errs []error
	if r.line != nil {
		if err := r.line.SetValue(1); err != nil {
			errs = append(errs, fmt.Errorf("re-energize relay: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close relay line: %w", err))
		}
		r.line = nil
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		r.chip = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

//go:build !linux

package gpio

import (
	"errors"

	"github.com/roblatour/netblocker/internal/safety"
)

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(Pins) (*RealReader, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (safety.ContactSample, error) {
	return safety.ContactSample{}, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error { return nil }

// RealRelay is not available on non-Linux platforms.
type RealRelay struct{}

// NewRealRelay returns an error on non-Linux platforms.
func NewRealRelay(int) (*RealRelay, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (r *RealRelay) Set(bool) error { return errors.New("gpio: not supported") }

// Energized is not implemented on non-Linux platforms.
func (r *RealRelay) Energized() bool { return true }

// Close is not implemented on non-Linux platforms.
func (r *RealRelay) Close() error { return nil }

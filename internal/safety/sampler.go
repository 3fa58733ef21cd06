package safety

import (
	"fmt"
	"time"
)

// DefaultSettleDelay is how long contact bounce is allowed to settle
// between the two reads of each half-test.
const DefaultSettleDelay = 10 * time.Millisecond

// ReadFunc reads all four contact inputs at one instant.
type ReadFunc func() (ContactSample, error)

// SleepFunc pauses the caller; injected so tests never sleep for real.
type SleepFunc func(time.Duration)

// Sampler converts noisy physical contact reads into a trustworthy
// engagement reading. The switch is a 1NO1NC emergency stop: pressing it
// opens the normally-closed contact and closes the normally-open one.
//
// Both contacts must independently confirm engagement, each with a
// two-read settle test, before the sampler reports the switch engaged. A
// single transient can therefore never flip the result in either
// direction, and a single stuck or miswired contact cannot on its own
// produce a false engagement.
type Sampler struct {
	read   ReadFunc
	sleep  SleepFunc
	settle time.Duration
}

// NewSampler builds a Sampler over the given read and sleep functions.
// A settle of 0 falls back to DefaultSettleDelay.
func NewSampler(read ReadFunc, sleep SleepFunc, settle time.Duration) *Sampler {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Sampler{read: read, sleep: sleep, settle: settle}
}

// Engaged samples the switch belonging to the given role and reports
// true only if both debounced half-tests pass. The result is a direct
// physical fact, never Unknown; EngagedStatus converts it for the wire.
// Any read error is returned with the not-engaged safe side untouched;
// the caller decides what a read failure means.
//
// Half-test one: the NC contact must read open, and still read open after
// the settle delay. Only then is half-test two attempted: the NO contact
// must read closed, and still read closed after the settle delay.
func (s *Sampler) Engaged(role Role) (bool, error) {
	first, err := s.read()
	if err != nil {
		return false, fmt.Errorf("sample contacts: %w", err)
	}
	if first.nc(role) {
		// NC closed: button not pressed.
		return false, nil
	}

	s.sleep(s.settle)
	second, err := s.read()
	if err != nil {
		return false, fmt.Errorf("sample contacts: %w", err)
	}
	if second.nc(role) {
		// NC reclosed within the settle window: transient, not a press.
		return false, nil
	}

	third, err := s.read()
	if err != nil {
		return false, fmt.Errorf("sample contacts: %w", err)
	}
	if !third.no(role) {
		return false, nil
	}

	s.sleep(s.settle)
	fourth, err := s.read()
	if err != nil {
		return false, fmt.Errorf("sample contacts: %w", err)
	}
	if !fourth.no(role) {
		// NO reopened within the settle window: transient.
		return false, nil
	}

	return true, nil
}

package gpio

import (
	"errors"

	"github.com/roblatour/netblocker/internal/safety"
)

// FakeReader is a test double that returns scripted contact samples.
type FakeReader struct {
	// Samples contains scripted samples to return. Each call to Read()
	// consumes the next sample; when exhausted, the last sample repeats.
	Samples []safety.ContactSample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []safety.ContactSample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (safety.ContactSample, error) {
	if f.ReadError != nil {
		return safety.ContactSample{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return safety.ContactSample{}, errors.New("no samples configured")
	}
	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeRelay records relay commands for test assertions.
type FakeRelay struct {
	// On mirrors the commanded state. Starts true: blocked-safe boot.
	On bool

	// Transitions records every Set call in order.
	Transitions []bool

	// SetError, if set, will be returned by Set()
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeRelay creates a FakeRelay in the energized (blocked) state.
func NewFakeRelay() *FakeRelay {
	return &FakeRelay{On: true}
}

// Set records the commanded state.
func (f *FakeRelay) Set(energized bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.On = energized
	f.Transitions = append(f.Transitions, energized)
	return nil
}

// Energized returns the last commanded state.
func (f *FakeRelay) Energized() bool {
	return f.On
}

// Close marks the relay as closed and re-energizes it.
func (f *FakeRelay) Close() error {
	f.On = true
	f.Closed = true
	return nil
}

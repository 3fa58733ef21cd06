package safety

import "time"

// Heartbeat timing. The Switchbox offsets its deadlines so the two
// peers' unprompted probes do not collide; the Controller is the
// default initiator under normal conditions.
const (
	GoodInterval   = 30 * time.Second
	ShortInterval  = 5 * time.Second
	SwitchboxDelta = 1500 * time.Millisecond
	ProbeBump      = 2 * time.Second
)

// Scheduler decides when a node must force an unprompted status
// transmission to prove the link is alive. Pure state machine: the
// caller feeds it send/receive outcomes and the current time.
type Scheduler struct {
	good     time.Duration
	short    time.Duration
	offset   time.Duration
	deadline time.Time
	comms    bool
}

// NewScheduler creates a Scheduler for the given role. The first probe
// deadline is now + the good interval (+ the Switchbox offset).
func NewScheduler(role Role, now time.Time) *Scheduler {
	s := &Scheduler{good: GoodInterval, short: ShortInterval}
	if role == RoleSwitchbox {
		s.offset = SwitchboxDelta
	}
	s.deadline = now.Add(s.good + s.offset)
	return s
}

// OnSendSuccess records a confirmed delivery: any comms alarm clears and
// the next probe moves out to the good interval.
func (s *Scheduler) OnSendSuccess(now time.Time) {
	s.comms = false
	s.deadline = now.Add(s.good + s.offset)
}

// OnSendFailure records a failed delivery: raise the comms alarm and pull
// the next probe in to the short interval so retries happen quickly while
// the problem persists.
func (s *Scheduler) OnSendFailure(now time.Time) {
	s.comms = true
	s.deadline = now.Add(s.short + s.offset)
}

// OnReceive records a successful inbound message. Receiving proves the
// link is alive in at least one direction, so it clears the comms alarm
// and resets the deadline just like a successful send.
func (s *Scheduler) OnReceive(now time.Time) {
	s.comms = false
	s.deadline = now.Add(s.good + s.offset)
}

// Due reports whether a liveness probe must be sent now.
func (s *Scheduler) Due(now time.Time) bool {
	return now.After(s.deadline)
}

// MarkProbe bumps the deadline forward before the probe is sent, so the
// polling loop does not re-trigger while the asynchronous send and reply
// are still in flight.
func (s *Scheduler) MarkProbe(now time.Time) {
	s.deadline = now.Add(ProbeBump)
}

// CommsProblem reports whether the last send failed without a successful
// exchange since.
func (s *Scheduler) CommsProblem() bool {
	return s.comms
}

// Deadline returns the next probe deadline, for the status page.
func (s *Scheduler) Deadline() time.Time {
	return s.deadline
}

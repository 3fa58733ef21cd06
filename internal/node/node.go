// Package node implements the role drivers that tie the safety logic,
// the GPIO layer, and the transport together. All node state is owned by
// the goroutine calling Tick; the transport's asynchronous callbacks only
// enqueue events onto a single-consumer queue that Tick drains, so no
// field is ever written from two goroutines.
package node

import (
	"log"
	"time"

	"github.com/roblatour/netblocker/internal/link"
	"github.com/roblatour/netblocker/internal/message"
	"github.com/roblatour/netblocker/internal/safety"
	"github.com/roblatour/netblocker/internal/status"
	"github.com/roblatour/netblocker/internal/telemetry"
)

const eventQueueSize = 64

type eventKind uint8

const (
	evInbound eventKind = iota
	evSendResult
	evRecvError
)

type event struct {
	kind eventKind
	msg  message.Transmission
	ok   bool
	err  error
}

// Options carries the optional collaborators and clock overrides shared
// by both drivers. Zero values mean real time and no tracker.
type Options struct {
	Tracker *status.Tracker

	// Now and After override the clock; tests use these to avoid real
	// waits.
	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

func (o *Options) fill() {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.After == nil {
		o.After = time.After
	}
}

// core holds the state and behavior common to both roles.
type core struct {
	role    safety.Role
	sampler *safety.Sampler
	sched   *safety.Scheduler
	link    link.Link
	events  chan event

	own       bool // own switch engaged, a sampled fact (never Unknown)
	protoErr  bool // comms overlay raised by malformed/unexpected inbound
	counts    status.Counts
	handleMsg func(message.Transmission)

	tracker *status.Tracker
	now     func() time.Time
	after   func(time.Duration) <-chan time.Time
}

func newCore(role safety.Role, sampler *safety.Sampler, opts Options) *core {
	opts.fill()
	return &core{
		role:    role,
		sampler: sampler,
		sched:   safety.NewScheduler(role, opts.Now()),
		events:  make(chan event, eventQueueSize),
		tracker: opts.Tracker,
		now:     opts.Now,
		after:   opts.After,
	}
}

// Callbacks returns the transport callbacks for this node. They are safe
// to invoke from any goroutine; each just enqueues an event.
func (c *core) Callbacks() link.Callbacks {
	return link.Callbacks{
		OnReceive:      func(m message.Transmission) { c.enqueue(event{kind: evInbound, msg: m}) },
		OnReceiveError: func(err error) { c.enqueue(event{kind: evRecvError, err: err}) },
		OnSendComplete: func(ok bool) { c.enqueue(event{kind: evSendResult, ok: ok}) },
	}
}

// AttachLink wires the transport in. Must be called before the first
// Tick; the link itself needs Callbacks() at construction, hence the
// two-step setup.
func (c *core) AttachLink(l link.Link) {
	c.link = l
}

func (c *core) enqueue(ev event) {
	select {
	case c.events <- ev:
	default:
		// The queue only fills if the control loop has stalled for many
		// seconds. Dropping is preferable to blocking the transport.
		log.Printf("node: event queue full, dropping event")
	}
}

// drainEvents handles everything queued by the transport callbacks since
// the last tick.
func (c *core) drainEvents() {
	for {
		select {
		case ev := <-c.events:
			c.handleEvent(ev)
		default:
			return
		}
	}
}

func (c *core) handleEvent(ev event) {
	switch ev.kind {
	case evInbound:
		if err := ev.msg.CheckReceiver(c.role); err != nil {
			c.raiseProtocolError("unexpected %s at %s", ev.msg.Kind, c.role)
			return
		}
		c.counts.Received++
		telemetry.MessagesReceived.Inc()
		// Receiving proves the link is alive: clear any comms alarm.
		c.protoErr = false
		c.sched.OnReceive(c.now())
		c.handleMsg(ev.msg)
	case evSendResult:
		if ev.ok {
			c.protoErr = false
			c.sched.OnSendSuccess(c.now())
		} else {
			c.counts.SendFailures++
			telemetry.SendFailures.Inc()
			c.sched.OnSendFailure(c.now())
			log.Printf("node: delivery not confirmed, retrying within %v", safety.ShortInterval)
		}
	case evRecvError:
		c.raiseProtocolError("bad inbound frame: %v", ev.err)
	}
}

func (c *core) raiseProtocolError(format string, args ...any) {
	c.counts.ProtocolErrors++
	telemetry.ProtocolErrors.Inc()
	c.protoErr = true
	log.Printf("node: "+format, args...)
}

// send hands a message to the link. An immediate rejection counts as a
// failed send for liveness purposes.
func (c *core) send(m message.Transmission) {
	if err := c.link.Send(m); err != nil {
		c.counts.SendFailures++
		telemetry.SendFailures.Inc()
		c.sched.OnSendFailure(c.now())
		log.Printf("node: send %s rejected: %v", m.Kind, err)
		return
	}
	c.counts.Sent++
	telemetry.MessagesSent.Inc()
}

// sampleOwn refreshes the node's own switch engagement from the
// hardware. Change detection lives in the drivers: a handler may
// re-sample between ticks without masking a pending transition.
func (c *core) sampleOwn() bool {
	engaged, err := c.sampler.Engaged(c.role)
	if err != nil {
		log.Printf("node: %v", err)
		return false
	}
	c.own = engaged
	return true
}

// Alarm returns the node's current alarm level. Terminal levels never
// originate here; they are handled before a driver exists.
func (c *core) Alarm() safety.AlarmLevel {
	if c.protoErr || c.sched.CommsProblem() {
		return safety.AlarmCommsProblem
	}
	return safety.AlarmNone
}

func (c *core) updateAlarmGauge() {
	telemetry.AlarmLevel.Set(float64(c.Alarm()))
}

// OwnStatus returns the node's own debounced switch state in its wire
// and display form.
func (c *core) OwnStatus() safety.SwitchStatus {
	return safety.EngagedStatus(c.own)
}

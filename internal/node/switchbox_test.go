package node

import (
	"errors"
	"testing"
	"time"

	"github.com/roblatour/netblocker/internal/link"
	"github.com/roblatour/netblocker/internal/message"
	"github.com/roblatour/netblocker/internal/safety"
	"github.com/roblatour/netblocker/internal/status"
)

var errTestReject = errors.New("simulated send rejection")

type switchboxFixture struct {
	contacts *fakeContacts
	clock    *testClock
	tracker  *status.Tracker
	box      *Switchbox
	link     *link.FakeLink
}

func newSwitchboxFixture(sample safety.ContactSample) *switchboxFixture {
	f := &switchboxFixture{
		contacts: &fakeContacts{sample: sample},
		clock:    newTestClock(),
	}
	f.tracker = status.NewTracker(f.clock.Now(), status.Config{})
	sampler := safety.NewSampler(f.contacts.read, noSleep, time.Millisecond)
	f.box = NewSwitchbox(sampler, Options{
		Tracker: f.tracker,
		Now:     f.clock.Now,
	})
	f.link = link.NewFakeLink(f.box.Callbacks())
	f.box.AttachLink(f.link)
	return f
}

func TestSwitchboxBootReleasedAsksNetworkStatus(t *testing.T) {
	f := newSwitchboxFixture(releasedSwitchbox())

	f.box.Tick()

	// With the button up at boot it learns the network state instead of
	// demanding an unblock nobody asked for.
	if len(f.link.Sent) != 1 || f.link.Sent[0].Kind != message.RequestNetworkStatus {
		t.Fatalf("expected RequestNetworkStatus, got %v", f.link.Sent)
	}
}

func TestSwitchboxBootPressedRequestsBlock(t *testing.T) {
	f := newSwitchboxFixture(pressedSwitchbox())

	f.box.Tick()

	if len(f.link.Sent) != 1 || f.link.Sent[0].Kind != message.RequestBlock {
		t.Fatalf("expected RequestBlock, got %v", f.link.Sent)
	}
	if f.link.Sent[0].Status != safety.StatusBlocked {
		t.Errorf("RequestBlock must carry BLOCKED, got %s", f.link.Sent[0].Status)
	}
}

func TestSwitchboxPressAndRelease(t *testing.T) {
	f := newSwitchboxFixture(releasedSwitchbox())
	f.box.Tick()
	f.link.Deliver(message.Transmission{Kind: message.NetworkStatusReply, Status: safety.StatusUnblocked})
	f.box.Tick()
	f.link.Reset()

	f.contacts.sample = pressedSwitchbox()
	f.box.Tick()
	if len(f.link.Sent) != 1 || f.link.Sent[0].Kind != message.RequestBlock {
		t.Fatalf("press: expected RequestBlock, got %v", f.link.Sent)
	}

	f.contacts.sample = releasedSwitchbox()
	f.box.Tick()
	if len(f.link.Sent) != 2 || f.link.Sent[1].Kind != message.RequestUnblock {
		t.Fatalf("release: expected RequestUnblock, got %v", f.link.Sent)
	}
	if f.link.Sent[1].Status != safety.StatusUnblocked {
		t.Errorf("RequestUnblock must carry UNBLOCKED, got %s", f.link.Sent[1].Status)
	}
}

func TestSwitchboxStatusRequestResamples(t *testing.T) {
	f := newSwitchboxFixture(releasedSwitchbox())
	f.box.Tick()
	f.link.Reset()

	// The button goes down between ticks; the status request must see
	// the fresh state, not the tick-old one.
	f.contacts.sample = pressedSwitchbox()
	f.link.Deliver(message.Transmission{Kind: message.RequestSwitchboxStatus})
	f.box.Tick()

	if len(f.link.Sent) == 0 || f.link.Sent[0].Kind != message.SwitchboxStatusReply {
		t.Fatalf("expected SwitchboxStatusReply first, got %v", f.link.Sent)
	}
	if f.link.Sent[0].Status != safety.StatusBlocked {
		t.Errorf("reply must carry the re-sampled BLOCKED, got %s", f.link.Sent[0].Status)
	}
}

func TestSwitchboxRecordsNetworkStatus(t *testing.T) {
	f := newSwitchboxFixture(releasedSwitchbox())
	f.box.Tick()

	if f.box.NetworkStatus() != safety.StatusUnknown {
		t.Fatalf("network belief must start UNKNOWN, got %s", f.box.NetworkStatus())
	}

	f.link.Deliver(message.Transmission{Kind: message.NetworkStatusReply, Status: safety.StatusBlocked})
	f.box.Tick()

	if f.box.NetworkStatus() != safety.StatusBlocked {
		t.Errorf("expected BLOCKED, got %s", f.box.NetworkStatus())
	}
}

func TestSwitchboxRejectsWrongRoleMessage(t *testing.T) {
	f := newSwitchboxFixture(releasedSwitchbox())
	f.box.Tick()
	f.link.Reset()

	f.link.Deliver(message.Transmission{Kind: message.RequestBlock})
	f.box.Tick()

	if f.box.Alarm() != safety.AlarmCommsProblem {
		t.Errorf("expected COMMS_PROBLEM alarm, got %s", f.box.Alarm())
	}
	if len(f.link.Sent) != 0 {
		t.Errorf("unexpected message must be ignored, sent %v", f.link.Sent)
	}
}

func TestSwitchboxLivenessProbeCarriesOffset(t *testing.T) {
	f := newSwitchboxFixture(releasedSwitchbox())
	f.box.Tick()
	f.link.CompleteSend(true)
	f.box.Tick()
	f.link.Reset()

	// Inside the good interval plus the collision offset: no probe.
	f.clock.Advance(safety.GoodInterval + time.Second)
	f.box.Tick()
	if len(f.link.Sent) != 0 {
		t.Fatalf("probe fired before the switchbox offset elapsed: %v", f.link.Sent)
	}

	f.clock.Advance(safety.SwitchboxDelta)
	f.box.Tick()
	if len(f.link.Sent) != 1 || f.link.Sent[0].Kind != message.SwitchboxStatusReply {
		t.Fatalf("expected unprompted SwitchboxStatusReply, got %v", f.link.Sent)
	}
}

func TestSwitchboxSendRejectionRaisesAlarm(t *testing.T) {
	f := newSwitchboxFixture(pressedSwitchbox())
	f.link.SendError = errTestReject

	f.box.Tick()

	if f.box.Alarm() != safety.AlarmCommsProblem {
		t.Errorf("rejected send must raise COMMS_PROBLEM, got %s", f.box.Alarm())
	}
	if got := f.tracker.Snapshot().Counts.SendFailures; got != 1 {
		t.Errorf("expected 1 recorded send failure, got %d", got)
	}
}

// Command netblocker runs one node of the two-node emergency network
// blocker. The same binary serves both roles: at boot it detects from the
// wiring whether this unit carries the Controller's switch (and the block
// relay) or the Switchbox's switch, then runs the matching driver.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roblatour/netblocker/internal/config"
	"github.com/roblatour/netblocker/internal/gpio"
	"github.com/roblatour/netblocker/internal/link"
	"github.com/roblatour/netblocker/internal/node"
	"github.com/roblatour/netblocker/internal/safety"
	"github.com/roblatour/netblocker/internal/status"
	"github.com/roblatour/netblocker/internal/telemetry"
	"github.com/roblatour/netblocker/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/netblocker.yaml", "Config file path")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	poll := flag.Duration("poll", 0, "Polling interval (overrides config)")
	printState := flag.Bool("print-state", false, "Print contact states and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *poll > 0 {
		cfg.PollRate = config.Duration(*poll)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, printState bool) error {
	reader, err := gpio.NewRealReader(cfg.GPIOPins())
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	if printState {
		sample, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read contacts: %w", err)
		}
		fmt.Printf("controller NC: %s, NO: %s\n", closedString(sample.ControllerNC), closedString(sample.ControllerNO))
		fmt.Printf("switchbox  NC: %s, NO: %s\n", closedString(sample.SwitchboxNC), closedString(sample.SwitchboxNO))
		return nil
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:           cfg.Broker,
		TopicPrefix:      cfg.TopicPrefix,
		PollMs:           cfg.PollRate.Std().Milliseconds(),
		SettleMs:         cfg.SettleDelay.Std().Milliseconds(),
		SwitchboxEnabled: cfg.SwitchboxEnabled,
		HTTPAddr:         cfg.HTTPAddr,
	})

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Role negotiation runs once, before any transport activity. A
	// wiring fault is terminal: the relay line is never requested, so
	// the hardware stays in its blocked-safe boot state.
	role, err := safety.NegotiateRole(reader.Read, time.Sleep, cfg.SettleDelay.Std(), cfg.SwitchboxEnabled)
	if err != nil {
		log.Printf("%v", err)
		return alarmLoop(tracker, safety.AlarmWiringProblem, sigCh)
	}
	tracker.SetRole(role)
	log.Printf("negotiated role: %s", role)

	sampler := safety.NewSampler(reader.Read, time.Sleep, cfg.SettleDelay.Std())

	var driver interface {
		Tick()
		Callbacks() link.Callbacks
		AttachLink(link.Link)
	}
	if role == safety.RoleController {
		relay, err := gpio.NewRealRelay(cfg.Pins.Relay)
		if err != nil {
			return fmt.Errorf("init relay: %w", err)
		}
		defer relay.Close()
		driver = node.NewController(sampler, relay, cfg.SwitchboxEnabled, node.Options{Tracker: tracker})
	} else {
		driver = node.NewSwitchbox(sampler, node.Options{Tracker: tracker})
	}

	lk, err := link.NewMQTTLink(cfg.Broker, cfg.TopicPrefix, role, driver.Callbacks())
	if err != nil {
		log.Printf("%v", err)
		return alarmLoop(tracker, safety.AlarmLinkInitFailure, sigCh)
	}
	defer lk.Close()
	driver.AttachLink(lk)

	log.Printf("started: role=%s poll=%v settle=%v broker=%s", role, cfg.PollRate, cfg.SettleDelay, cfg.Broker)

	ticker := time.NewTicker(cfg.PollRate.Std())
	defer ticker.Stop()

	return runLoop(driver, ticker.C, sigCh)
}

func runLoop(driver interface{ Tick() }, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return nil
		case <-tick:
			driver.Tick()
		}
	}
}

// alarmLoop is the terminal state for wiring and link-init faults. It
// only keeps the alarm signal visible (tracker, metrics, web page) until
// the process is stopped; there is no recovery without a physical fix.
func alarmLoop(tracker *status.Tracker, level safety.AlarmLevel, sig <-chan os.Signal) error {
	tracker.SetAlarm(level)
	telemetry.AlarmLevel.Set(float64(level))
	log.Printf("entering terminal alarm state: %s (flash %v)", level, level.FlashInterval())

	remind := time.NewTicker(time.Minute)
	defer remind.Stop()
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return nil
		case <-remind.C:
			log.Printf("alarm: %s", level)
		}
	}
}

func closedString(closed bool) string {
	if closed {
		return "CLOSED"
	}
	return "OPEN"
}

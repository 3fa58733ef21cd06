// Package config loads the daemon configuration from a YAML file with
// sane defaults for every field.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roblatour/netblocker/internal/gpio"
)

// Duration wraps time.Duration so YAML values like "250ms" parse.
type Duration time.Duration

// UnmarshalYAML parses either a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Config is the top-level daemon configuration.
type Config struct {
	Broker      string   `yaml:"broker"`
	TopicPrefix string   `yaml:"topic_prefix"`
	PollRate    Duration `yaml:"poll_rate"`
	SettleDelay Duration `yaml:"settle_delay"`

	// SwitchboxEnabled is the build-site policy switch: when false, a
	// unit wired as a Switchbox is a wiring fault and the Controller
	// unblocks on its own switch alone.
	SwitchboxEnabled bool `yaml:"switchbox_enabled"`

	HTTPAddr string     `yaml:"http_addr"`
	Pins     PinsConfig `yaml:"pins"`
}

// PinsConfig defines the GPIO pin assignment (BCM numbering).
type PinsConfig struct {
	ControllerNC int `yaml:"controller_nc"`
	ControllerNO int `yaml:"controller_no"`
	SwitchboxNC  int `yaml:"switchbox_nc"`
	SwitchboxNO  int `yaml:"switchbox_no"`
	Relay        int `yaml:"relay"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	p := gpio.DefaultPins()
	return &Config{
		Broker:           "tcp://192.168.1.200:1883",
		TopicPrefix:      "netblocker",
		PollRate:         Duration(100 * time.Millisecond),
		SettleDelay:      Duration(10 * time.Millisecond),
		SwitchboxEnabled: true,
		HTTPAddr:         ":8080",
		Pins: PinsConfig{
			ControllerNC: p.ControllerNC,
			ControllerNO: p.ControllerNO,
			SwitchboxNC:  p.SwitchboxNC,
			SwitchboxNO:  p.SwitchboxNO,
			Relay:        p.Relay,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.PollRate <= 0 {
		return nil, fmt.Errorf("config %s: poll_rate must be positive", path)
	}
	if cfg.SettleDelay <= 0 {
		return nil, fmt.Errorf("config %s: settle_delay must be positive", path)
	}
	return cfg, nil
}

// GPIOPins converts the pin config to the gpio package's type.
func (c *Config) GPIOPins() gpio.Pins {
	return gpio.Pins{
		ControllerNC: c.Pins.ControllerNC,
		ControllerNO: c.Pins.ControllerNO,
		SwitchboxNC:  c.Pins.SwitchboxNC,
		SwitchboxNO:  c.Pins.SwitchboxNO,
		Relay:        c.Pins.Relay,
	}
}

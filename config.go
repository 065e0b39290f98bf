package knightrider

import (
	"encoding"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/knightrider/internal/board"
	"libdb.so/knightrider/scanner"
)

// Config is the configuration for the knightrider daemon.
type Config struct {
	// LEDs is the number of LEDs in the array.
	LEDs int `toml:"leds"`
	// Tick is the time each LED stays lit. It is the only knob for the scan
	// speed.
	Tick TOMLDuration `toml:"tick"`
	// Debounce is the minimum time between two accepted button presses.
	// It is kept at millisecond resolution.
	Debounce TOMLDuration `toml:"debounce"`
	// Policy is what a button press does: "toggle" starts and stops the
	// scanner, "cycle" steps through running, paused and reset.
	Policy scanner.Policy `toml:"policy"`
	// Board is the hardware the scanner drives.
	Board board.Config `toml:"board"`
}

// DefaultConfig returns the configuration used for fields left unset.
func DefaultConfig() Config {
	return Config{
		LEDs:     6,
		Tick:     TOMLDuration(100 * time.Millisecond),
		Debounce: TOMLDuration(200 * time.Millisecond),
		Policy:   scanner.TogglePolicy,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Tick <= 0 {
		return errors.New("tick must be positive")
	}
	if time.Duration(c.Debounce) < time.Millisecond {
		return errors.New("debounce must be at least 1ms")
	}
	if err := c.ScannerConfig().Validate(); err != nil {
		return errors.Wrap(err, "invalid scanner")
	}
	if err := c.Board.Validate(c.LEDs); err != nil {
		return errors.Wrap(err, "invalid board")
	}
	return nil
}

// ScannerConfig returns the configuration of the scanner controller. Time is
// counted in milliseconds.
func (c *Config) ScannerConfig() scanner.Config {
	return scanner.Config{
		NumLEDs:        c.LEDs,
		DebounceWindow: scanner.Instant(time.Duration(c.Debounce) / time.Millisecond),
		Policy:         c.Policy,
	}
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader. Fields missing from the
// file take their value from DefaultConfig.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}

	def := DefaultConfig()
	if config.LEDs == 0 {
		config.LEDs = def.LEDs
	}
	if config.Tick == 0 {
		config.Tick = def.Tick
	}
	if config.Debounce == 0 {
		config.Debounce = def.Debounce
	}

	return &config, nil
}

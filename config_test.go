package knightrider

import (
	"strings"
	"testing"
	"time"

	"libdb.so/knightrider/internal/board"
	"libdb.so/knightrider/scanner"
)

func TestParseConfig(t *testing.T) {
	const file = `
leds = 8
tick = "50ms"
debounce = "250ms"
policy = "cycle"

[board.gpiocdev]
chip = "gpiochip4"
led_lines = [5, 6, 13, 19, 26, 16, 20, 21]
button_line = 17
`

	cfg, err := ParseConfig(strings.NewReader(file))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.LEDs != 8 {
		t.Errorf("leds = %d, want 8", cfg.LEDs)
	}
	if time.Duration(cfg.Tick) != 50*time.Millisecond {
		t.Errorf("tick = %v, want 50ms", time.Duration(cfg.Tick))
	}
	if cfg.Policy != scanner.CyclePolicy {
		t.Errorf("policy = %v, want cycle", cfg.Policy)
	}
	if cfg.Board.GPIOCdev == nil || cfg.Board.GPIOCdev.ButtonLine != 17 {
		t.Fatalf("gpiocdev board = %+v", cfg.Board.GPIOCdev)
	}
	if n := len(cfg.Board.GPIOCdev.LEDLines); n != 8 {
		t.Errorf("%d LED lines, want 8", n)
	}

	sc := cfg.ScannerConfig()
	if sc.DebounceWindow != 250 {
		t.Errorf("debounce window = %d units, want 250", sc.DebounceWindow)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	def := DefaultConfig()
	if cfg.LEDs != def.LEDs || cfg.Tick != def.Tick || cfg.Debounce != def.Debounce {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if w := cfg.ScannerConfig().DebounceWindow; w != scanner.DefaultDebounceWindow {
		t.Fatalf("default debounce window = %d, want %d", w, scanner.DefaultDebounceWindow)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"one LED", func(c *Config) { c.LEDs = 1 }},
		{"negative tick", func(c *Config) { c.Tick = TOMLDuration(-time.Second) }},
		{"sub-millisecond debounce", func(c *Config) { c.Debounce = TOMLDuration(time.Microsecond) }},
		{"board LED count mismatch", func(c *Config) {
			c.Board.GPIOCdev = &board.GPIOCdevConfig{LEDLines: []int{1, 2}}
		}},
		{"bad policy", func(c *Config) { c.Policy = scanner.Policy(7) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseConfigBadDuration(t *testing.T) {
	if _, err := ParseConfig(strings.NewReader(`tick = "soon"`)); err == nil {
		t.Fatal("expected an error for a bad duration")
	}
}

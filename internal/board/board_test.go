package board

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"libdb.so/knightrider/ledserial"
	"libdb.so/knightrider/scanner"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConsoleShow(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(ConsoleConfig{Lit: "#", Dark: "."}, 6, strings.NewReader(""), &out)

	if err := c.Show(scanner.FrameAt(0)); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if err := c.Show(scanner.FrameAt(5)); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "#.....\n.....#\n......\n"
	if out.String() != want {
		t.Fatalf("console drew %q, want %q", out.String(), want)
	}
}

func TestConsoleWatchLines(t *testing.T) {
	c := NewConsole(ConsoleConfig{}, 6, strings.NewReader("\n\n"), io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	edges := make(chan scanner.Instant, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Watch(ctx, func(t scanner.Instant) { edges <- t })
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-edges:
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for edge %d", i+1)
		}
	}

	// EOF on the input does not end the watch.
	select {
	case err := <-errCh:
		t.Fatalf("Watch returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

// pipePort is the host end of a pair of pipes standing in for a serial port.
type pipePort struct {
	*io.PipeReader // board → host
	*io.PipeWriter // host → board
}

func (p pipePort) Close() error {
	p.PipeReader.Close()
	return p.PipeWriter.Close()
}

// fakeSerialBoard is the board end of a pipePort.
type fakeSerialBoard struct {
	w        *io.PipeWriter
	incoming chan ledserial.IncomingPacket
}

func newFakeSerialBoard() (pipePort, *fakeSerialBoard) {
	hostR, boardW := io.Pipe()
	boardR, hostW := io.Pipe()

	b := &fakeSerialBoard{
		w:        boardW,
		incoming: make(chan ledserial.IncomingPacket, 16),
	}
	go func() {
		defer close(b.incoming)
		for {
			p, err := ledserial.ReadIncomingPacket(boardR)
			if err != nil {
				return
			}
			b.incoming <- p
		}
	}()

	return pipePort{PipeReader: hostR, PipeWriter: hostW}, b
}

func (b *fakeSerialBoard) next(t *testing.T) ledserial.IncomingPacket {
	t.Helper()
	select {
	case p, ok := <-b.incoming:
		if !ok {
			t.Fatal("port closed")
		}
		return p
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for packet")
		return nil
	}
}

func TestSerialBoard(t *testing.T) {
	port, dev := newFakeSerialBoard()

	s, err := NewSerial(port, 6, discardLogger())
	if err != nil {
		t.Fatalf("NewSerial: %v", err)
	}
	if p := dev.next(t); p != (ledserial.InitializePacket{NumLEDs: 6}) {
		t.Fatalf("first packet = %#v, want initialize for 6 LEDs", p)
	}

	if err := s.Show(scanner.FrameAt(2)); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if p := dev.next(t); p != (ledserial.SetPacket{Lines: 1 << 2}) {
		t.Fatalf("packet = %#v, want LED 2 set", p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	edges := make(chan scanner.Instant, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Watch(ctx, func(t scanner.Instant) { edges <- t })
	}()

	go func() {
		ledserial.WriteOutgoingPacket(dev.w, ledserial.LogPacket{Message: "hello"})
		ledserial.WriteOutgoingPacket(dev.w, ledserial.AckPacket{IncomingPacketType: ledserial.TypeSetPacket})
		ledserial.WriteOutgoingPacket(dev.w, ledserial.EdgePacket{Time: 777})
	}()

	select {
	case ts := <-edges:
		if ts != 777 {
			t.Fatalf("edge at %d, want 777", ts)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for edge")
	}

	cancel()

	// Cancelling clears the board before the port goes away.
	if p := dev.next(t); p != (ledserial.ClearPacket{}) {
		t.Fatalf("packet = %#v, want clear", p)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	// Already closed by the watch.
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSerialBoardPanic(t *testing.T) {
	port, dev := newFakeSerialBoard()

	s, err := NewSerial(port, 6, discardLogger())
	if err != nil {
		t.Fatalf("NewSerial: %v", err)
	}
	dev.next(t)

	go ledserial.WriteOutgoingPacket(dev.w, ledserial.PanicPacket{})

	if err := s.Watch(context.Background(), func(scanner.Instant) {}); err == nil {
		t.Fatal("expected an error after a panic packet")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"empty", Config{}, true},
		{"serial", Config{Serial: &SerialConfig{Device: "/dev/ttyACM0"}}, true},
		{"serial without device", Config{Serial: &SerialConfig{}}, false},
		{"gpiocdev", Config{GPIOCdev: &GPIOCdevConfig{LEDLines: []int{1, 2, 3, 4, 5, 6}}}, true},
		{"gpiocdev short", Config{GPIOCdev: &GPIOCdevConfig{LEDLines: []int{1, 2}}}, false},
		{"periph without button", Config{Periph: &PeriphConfig{LEDPins: []string{"1", "2", "3", "4", "5", "6"}}}, false},
		{"two boards", Config{Serial: &SerialConfig{Device: "x"}, Console: &ConsoleConfig{}}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate(6)
			if (err == nil) != test.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, test.ok)
			}
		})
	}
}

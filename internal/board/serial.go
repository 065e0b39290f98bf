package board

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"libdb.so/knightrider/ledserial"
	"libdb.so/knightrider/scanner"
)

// Serial is an LED board reached over a serial port. The board runs the
// ledserial firmware: it drives the LED lines from SetPackets and reports
// button edges as EdgePackets stamped with its own millisecond counter.
type Serial struct {
	port   io.ReadWriteCloser
	logger *slog.Logger

	wmu   sync.Mutex
	close sync.Once
}

var _ Board = (*Serial)(nil)

// OpenSerial opens the serial port and initializes the board for n LEDs.
func OpenSerial(cfg SerialConfig, n int, logger *slog.Logger) (*Serial, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = defaultBaud
	}

	port, err := serial.Open(cfg.Device, &serial.Mode{
		BaudRate: baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}

	s, err := NewSerial(port, n, logger)
	if err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

// NewSerial wraps an already open port and initializes the board for n LEDs.
func NewSerial(port io.ReadWriteCloser, n int, logger *slog.Logger) (*Serial, error) {
	s := &Serial{
		port:   port,
		logger: logger,
	}

	logger.Debug("sending initialize packet", "leds", n)
	if err := s.write(ledserial.InitializePacket{NumLEDs: uint16(n)}); err != nil {
		return nil, errors.Wrap(err, "failed to initialize LEDs")
	}

	return s, nil
}

// Show implements Board.
func (s *Serial) Show(f scanner.Frame) error {
	return s.write(ledserial.SetPacket{Lines: uint64(f)})
}

func (s *Serial) write(p ledserial.IncomingPacket) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	return ledserial.WriteIncomingPacket(s.port, p)
}

// Watch implements Board. It reads packets from the board until ctx is done,
// then clears and closes the board to unblock the pending read.
func (s *Serial) Watch(ctx context.Context, edge func(scanner.Instant)) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Debug("closing serial port")
			if err := s.Close(); err != nil {
				s.logger.Warn("failed to close serial port", "error", err)
			}
		case <-done:
		}
	}()

	for ctx.Err() == nil {
		p, err := ledserial.ReadOutgoingPacket(s.port)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			// Reads never time out, so EOF means the board went away.
			if errors.Is(err, io.EOF) {
				return errors.Wrap(err, "board disconnected")
			}
			return errors.Wrap(err, "failed to read packet")
		}

		switch p := p.(type) {
		case ledserial.EdgePacket:
			edge(scanner.Instant(p.Time))

		case ledserial.AckPacket:
			s.logger.Debug(
				"received ack packet from board",
				"acked_for", p.IncomingPacketType)

		case ledserial.LogPacket:
			s.logger.Info(
				"received log packet from board",
				"message", p.Message)

		case ledserial.ErrorPacket:
			s.logger.Warn(
				"received error packet from board",
				"message", p.Message)

		case ledserial.PanicPacket:
			s.logger.Error("board unrecoverably panicked")
			return errors.New("board panicked")

		default:
			return errors.Errorf("received unknown packet from board: %s", p.Type())
		}
	}

	return ctx.Err()
}

// Close implements Board. The board is cleared before the port is closed.
func (s *Serial) Close() error {
	var err error
	s.close.Do(func() {
		if werr := s.write(ledserial.ClearPacket{}); werr != nil {
			s.logger.Warn("failed to clear LEDs", "error", werr)
		}
		err = s.port.Close()
	})
	return err
}

package main

import (
	"fmt"
	"image/color"
	"machine"
	"sync"
	"sync/atomic"

	"libdb.so/knightrider/ledserial"
	"libdb.so/knightrider/scanner"
	"libdb.so/knightrider/xiao"
)

// Device stores the current state of the device.
type Device struct {
	serial SerialReadWriter
	status *xiao.StatusLED

	numLEDs int

	// Written by the button ISR; MUST NOT block it.
	edges chan scanner.Instant
	drops uint32

	wmu sync.Mutex
}

// NewDevice creates a new device and arms the button interrupt.
func NewDevice(serial machine.Serialer) (*Device, error) {
	d := &Device{
		serial: WrapSerial(serial),
		status: xiao.NewStatusLED(),
		edges:  make(chan scanner.Instant, 8),
	}

	xiao.ConfigureLEDs()

	xiao.Button.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	if err := xiao.Button.SetInterrupt(machine.PinFalling, d.buttonISR); err != nil {
		return nil, fmt.Errorf("failed to set button interrupt: %w", err)
	}

	return d, nil
}

func (d *Device) buttonISR(machine.Pin) {
	select {
	case d.edges <- xiao.Millis():
	default:
		atomic.AddUint32(&d.drops, 1)
	}
}

// Run runs the device loop forever.
func (d *Device) Run() {
	go d.edgeLoop()

	for {
		p, err := d.readPacket()
		if err != nil {
			d.logError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
		}
	}
}

// edgeLoop forwards button edges to the host. Debouncing is left to the
// host, which sees the edges with this device's timestamps.
func (d *Device) edgeLoop() {
	var reported uint32
	for t := range d.edges {
		d.sendPacket(ledserial.EdgePacket{Time: uint32(t)})

		if drops := atomic.LoadUint32(&d.drops); drops != reported {
			d.log(fmt.Sprintf("dropped %d button edges", drops-reported))
			reported = drops
		}
	}
}

func (d *Device) log(msg string) {
	d.sendPacket(ledserial.LogPacket{Message: msg})
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	d.wmu.Lock()
	defer d.wmu.Unlock()

	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	d.status.Set(color.RGBA{R: 0x20, G: 0x20, B: 0x20})
	p, err := ledserial.ReadIncomingPacket(d.serial)
	d.status.Off()
	return p, err
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 2 || int(p.NumLEDs) > len(xiao.LEDs) {
			return fmt.Errorf("invalid number of LEDs: %d (board has %d)", p.NumLEDs, len(xiao.LEDs))
		}
		d.numLEDs = int(p.NumLEDs)
		xiao.ShowFrame(scanner.Blank)

	case ledserial.ClearPacket:
		xiao.ShowFrame(scanner.Blank)

	case ledserial.SetPacket:
		if d.numLEDs == 0 {
			return fmt.Errorf("set packet before initialize")
		}
		f := scanner.Frame(p.Lines)
		if f>>uint(d.numLEDs) != 0 {
			return fmt.Errorf("set packet lights LEDs past %d", d.numLEDs)
		}
		xiao.ShowFrame(f)

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	d.sendPacket(ledserial.AckPacket{
		IncomingPacketType: p.Type(),
	})
	return nil
}

// Command ledserial turns the board into a peripheral of the knightrider
// daemon's serial board: it drives the LED lines from the host and reports
// button edges back.
package main

import "machine"

func main() {
	d, err := NewDevice(machine.Serial)
	if err != nil {
		panic(err.Error())
	}
	d.log("ledserial ready")
	d.Run()
}

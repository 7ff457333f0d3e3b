// io_bus.go - 8-bit port dispatch for the H89 core (spec.md C6)

package main

import "fmt"

// IODevice is implemented by every port-mapped peripheral (spec.md §4.6,
// grounded on original_source/VirtualH89/Src/IODevice.h's in/out/reset
// trio).
type IODevice interface {
	In(addr byte) byte
	Out(addr byte, val byte)
	Reset()
	BaseAddress() byte
	NumPorts() byte
}

// ClockedIODevice is an IODevice that also wants clock notifications.
// Disk controllers and UARTs implement this in addition to IODevice.
type ClockedIODevice interface {
	IODevice
	ClockUser
}

type ioSlot struct {
	base   byte
	count  int // int, not byte, so base+count can exceed 255 without wrapping
	device IODevice
}

// IOBus dispatches 8-bit port addresses to installed devices by port range
// (spec.md §4.6). Overlapping ranges are rejected at install time - "overlap is an
// installation error" per spec.md §3.
type IOBus struct {
	slots []ioSlot
	log   *Logger
}

func NewIOBus(log *Logger) *IOBus {
	return &IOBus{log: log}
}

// Install registers a device at its own declared base/port-count. Returns an
// error if the range overlaps an already-installed device.
func (b *IOBus) Install(dev IODevice) error {
	base := int(dev.BaseAddress())
	count := int(dev.NumPorts())
	for _, s := range b.slots {
		if rangesOverlap(base, count, int(s.base), s.count) {
			return fmt.Errorf("io bus: port range [%d,%d) overlaps existing device at [%d,%d)",
				base, base+count, s.base, int(s.base)+s.count)
		}
	}
	b.slots = append(b.slots, ioSlot{base: dev.BaseAddress(), count: count, device: dev})
	return nil
}

func rangesOverlap(aBase, aCount, bBase, bCount int) bool {
	return aBase < bBase+bCount && bBase < aBase+aCount
}

func (b *IOBus) find(port byte) IODevice {
	p := int(port)
	for _, s := range b.slots {
		if p >= int(s.base) && p < int(s.base)+s.count {
			return s.device
		}
	}
	return nil
}

// In dispatches a port read. Unknown ports return 0 and log a warning
// (spec.md §7 error taxonomy).
func (b *IOBus) In(port byte) byte {
	dev := b.find(port)
	if dev == nil {
		if b.log != nil {
			b.log.Printf("io: read from unmapped port 0x%02x", port)
		}
		return 0
	}
	return dev.In(port)
}

// Out dispatches a port write. Unknown ports discard the write and log.
func (b *IOBus) Out(port byte, val byte) {
	dev := b.find(port)
	if dev == nil {
		if b.log != nil {
			b.log.Printf("io: write to unmapped port 0x%02x (value 0x%02x)", port, val)
		}
		return
	}
	dev.Out(port, val)
}

// Reset resets every installed device.
func (b *IOBus) Reset() {
	for _, s := range b.slots {
		s.device.Reset()
	}
}

// Devices returns every installed device, in installation order.
func (b *IOBus) Devices() []IODevice {
	out := make([]IODevice, len(b.slots))
	for i, s := range b.slots {
		out[i] = s.device
	}
	return out
}

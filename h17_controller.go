// h17_controller.go - Heath H-17 hard-sectored controller shell
// (spec.md Non-goals: "H17 hard-sectored internals" are out of scope)
//
// Grounded on original_source/VirtualH89/Src/DiskData.{h,cpp} only to the
// extent of confirming this is a distinct hard-sectored format the core
// does not need to decode; what's modeled here is only the port presence
// and NotReady status. main.go's applyConfig logs and skips
// h17_drive*/h17_disk* entries; nothing is connected to this card.
package main

const (
	h17NumPorts = 3
	h17BasePort = 0x78
)

// H17Controller is a minimal port-present stub: any disk mounted through
// it always reports not-ready, since decoding the hard-sectored format
// itself is explicitly out of scope.
type H17Controller struct {
	base byte
	side int
}

func NewH17Controller(base byte) *H17Controller {
	return &H17Controller{base: base}
}

func (c *H17Controller) BaseAddress() byte { return c.base }
func (c *H17Controller) NumPorts() byte    { return h17NumPorts }

func (c *H17Controller) In(addr byte) byte {
	// Status port semantics (not-ready bit set, everything else quiescent).
	return 0x80
}

func (c *H17Controller) Out(addr, val byte) {}

func (c *H17Controller) Reset() {}

// SelectSide is wired from the GPP's H17-side-select bit (spec.md §6).
func (c *H17Controller) SelectSide(side int) { c.side = side }

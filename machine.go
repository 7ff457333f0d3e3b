// machine.go - wires the whole H89 core together: clock, buses, CPU,
// interrupt controller, timer, GPP, NMI ports, disk controllers, UART
// (spec.md §3 data-flow, §5 scheduling model).
//
// Grounded on the teacher's top-level wiring style (main.go constructing the
// chip graph by hand) generalized to this machine's card set, and on
// spec.md §5's two-thread/one-mutex scheduling contract.
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// H89 Z80 clock: 2.048MHz, 2ms timer period -> 4096 T-states/period.
	h89ClockHz       = 2_048_000
	h89TicksPerTimer = 4096
	h89TimerPeriod   = 2 * time.Millisecond

	gppBase  = 0xf2
	uartBase = 0xe8
	uartIntr = 2

	nmiPort1Base = 0xf0
	nmiPort2Base = 0xfa

	h37Base = 0x30
)

// Machine owns the system mutex (spec.md §5) and every card. It implements
// GPPHost, gluing the GPP's control bits to the memory decoder and CPU
// speed switch.
type Machine struct {
	mu sync.Mutex

	clock   *WallClock
	decoder *MemoryDecoder
	mem     *AddressBus
	io      *IOBus
	ic      *InterruptController
	timer   *Timer
	gpp     *GeneralPurposePort
	nmi1    *NMIPort
	nmi2    *NMIPort
	h37     *H37Controller
	mms     *MMS77316Controller
	h17     *H17Controller
	uart    *UART8250
	cpu     *CPUZ80

	log *Logger

	running bool
	cancel  context.CancelFunc
	tick    chan struct{}

	// driveIdents maps the operator console's drive identifiers
	// ("<ControllerName>-<1-based-index>", spec.md §6) to the live drive.
	driveIdents map[string]*FloppyDrive
}

// NewMachine builds a fully wired H89: ROM installed at 0x0000-0x1FFF, RAM
// filling the rest, every card on the I/O bus, and the CPU's clock-topup
// driven by the timer.
func NewMachine(rom []byte, log *Logger) *Machine {
	if log == nil {
		log = DiscardLogger()
	}
	m := &Machine{log: log, driveIdents: make(map[string]*FloppyDrive), tick: make(chan struct{}, 1)}

	m.clock = NewWallClock(h89ClockHz, h89TicksPerTimer)
	m.decoder = NewMemoryDecoder(rom)
	m.io = NewIOBus(log)

	// AddressBus needs the interrupt controller; the interrupt controller
	// needs the CPU (as a CPUInterruptLine); the CPU needs the address bus.
	// Break the cycle: build the CPU without its address bus, then the
	// interrupt controller, then the address bus, then complete the CPU.
	m.cpu = NewCPUZ80(m.io, m.clock, h89TicksPerTimer)
	m.ic = NewInterruptController(m.cpu)
	m.mem = NewAddressBus(m.decoder, m.ic)
	m.cpu.SetAddressBus(m.mem)

	m.timer = NewTimer(1, m.clock, m.cpu, m.ic)

	m.gpp = NewGeneralPurposePort(gppBase, 0, m, m.timer, m.ic)
	m.nmi1 = NewNMIPort(nmiPort1Base, 1, m.cpu)
	m.nmi2 = NewNMIPort(nmiPort2Base, 1, m.cpu)

	m.h37 = NewH37Controller(h37Base, m.ic)
	m.mms = NewMMS77316Controller(m.ic)
	m.h17 = NewH17Controller(h17BasePort)
	m.uart = NewUART8250(uartBase, uartIntr, m.ic)

	for _, dev := range []IODevice{m.gpp, m.nmi1, m.nmi2, m.h37, m.mms, m.h17, m.uart} {
		if err := m.io.Install(dev); err != nil {
			log.Printf("machine: %v", err)
		}
	}

	m.clock.Register(m.h37)
	m.clock.Register(m.mms)

	m.Reset()
	return m
}

// SetROMEnabled implements GPPHost (spec.md §4.8's ORG-0 mod).
func (m *Machine) SetROMEnabled(on bool) {
	m.decoder.SetROMEnabled(on)
}

// SetFastSpeed implements GPPHost: doubles the CPU's per-period tick
// allowance, matching the H89's documented 2MHz/4MHz speed-up switch
// (spec.md §6).
func (m *Machine) SetFastSpeed(on bool) {
	if on {
		m.cpu.SetTicksPerClock(h89TicksPerTimer * 2)
	} else {
		m.cpu.SetTicksPerClock(h89TicksPerTimer)
	}
}

// SelectH17Side implements GPPHost, forwarding to the (stubbed) H17 card.
func (m *Machine) SelectH17Side(side int) {
	m.h17.SelectSide(side)
}

// Reset reinitializes every card and the CPU, without touching RAM/ROM
// contents - matching a real H89 front-panel reset.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu.Reset()
	m.io.Reset()
}

// Step runs one tick-budget slice of CPU work (cpu.Run until the budget is
// spent) under the system mutex, topping up the tick budget first if it's
// exhausted (spec.md §5's
// "release-before-sleep" pattern is Machine.Run's job, not Step's).
func (m *Machine) Step() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cpu.budget <= 0 {
		m.fireTimer()
	}
	m.cpu.Run()
}

// fireTimer drives the 2ms real-time tick: wall-clock catch-up, CPU budget
// top-up, and the timer interrupt, all under the caller's held mutex
// (spec.md §5: "the timer thread acquires the mutex, drives addTimerEvent/
// addClockTicks, then releases").
func (m *Machine) fireTimer() {
	m.timer.Fire()
}

// Run starts the two cooperating threads spec.md §5 describes - a CPU
// thread that spends tick budget one instruction slice at a time, and a
// real-time timer thread that fires every h89TimerPeriod (2ms, matching the
// H89's documented SIGALRM/setitimer period in
// _examples/original_source/VirtualH89/Src/h89-timer.cpp) - and blocks until
// both stop. Grounded on the teacher's goroutine-pair shutdown pattern
// (_examples/IntuitionAmiga-IntuitionEngine's audio worker coordination),
// generalized here with golang.org/x/sync/errgroup: Stop cancels the shared
// context, and Run returns once both goroutines have observed it.
//
// The CPU thread never tops up its own budget; it blocks on the timer
// thread's tick signal once exhausted, so the core is paced by the real
// 2ms period instead of free-running budget refills.
func (m *Machine) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.running = true
	m.cancel = cancel
	m.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.runTimer(ctx) })
	g.Go(func() error { return m.runCPU(ctx) })
	_ = g.Wait()

	m.mu.Lock()
	m.running = false
	m.cancel = nil
	m.mu.Unlock()
}

// runTimer fires every h89TimerPeriod of wall-clock time, independent of how
// fast or slow the CPU thread is running, and wakes a CPU thread blocked
// waiting for budget.
func (m *Machine) runTimer(ctx context.Context) error {
	ticker := time.NewTicker(h89TimerPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.mu.Lock()
			m.fireTimer()
			m.mu.Unlock()
			select {
			case m.tick <- struct{}{}:
			default: // CPU thread hasn't drained the last wakeup yet
			}
		}
	}
}

// runCPU spends tick budget until it's exhausted, then blocks on the timer
// thread's wakeup rather than re-arming its own budget (spec.md §5: the CPU
// thread "runs until its tick budget... is exhausted, then waits").
func (m *Machine) runCPU(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		m.mu.Lock()
		exhausted := m.cpu.budget <= 0
		if !exhausted {
			m.cpu.Run()
		}
		m.mu.Unlock()

		if exhausted {
			select {
			case <-ctx.Done():
				return nil
			case <-m.tick:
			}
		}
	}
}

// Stop ends a Run loop started in another goroutine, canceling both the CPU
// and timer threads and waiting (via Run's own errgroup.Wait) for them to
// exit.
func (m *Machine) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Lock/Unlock expose the system mutex to the operator console (spec.md §5:
// "a front-end acquires the mutex to dump or mutate state").
func (m *Machine) Lock()   { m.mu.Lock() }
func (m *Machine) Unlock() { m.mu.Unlock() }

// ConnectDrive attaches a floppy drive to one of the disk controllers by
// name and unit number (spec.md §6 config keys h37_drive*/mms77316_drive*).
func (m *Machine) ConnectDrive(controller string, unit int, drive *FloppyDrive) error {
	switch controller {
	case "H37":
		if err := m.h37.ConnectDrive(unit, drive); err != nil {
			return err
		}
	case "MMS77316":
		if err := m.mms.ConnectDrive(unit, drive); err != nil {
			return err
		}
	default:
		return errUnknownController(controller)
	}
	m.clock.Register(drive)
	m.driveIdents[fmt.Sprintf("%s-%d", controller, unit+1)] = drive
	return nil
}

type errUnknownController string

func (e errUnknownController) Error() string { return "machine: unknown disk controller " + string(e) }

// Drive looks up a drive by its console identifier ("<ControllerName>-<1-based-index>").
func (m *Machine) Drive(ident string) (*FloppyDrive, bool) {
	d, ok := m.driveIdents[ident]
	return d, ok
}

// DriveIdents returns every connected drive's identifier, in no particular
// order; "getdisks" sorts them before printing.
func (m *Machine) DriveIdents() []string {
	idents := make([]string, 0, len(m.driveIdents))
	for ident := range m.driveIdents {
		idents = append(idents, ident)
	}
	return idents
}

// CPU returns the CPU core, used by the operator console's "dump cpu" command.
func (m *Machine) CPU() *CPUZ80 { return m.cpu }

// Decoder returns the memory decoder, used by "dump mach" and ROM loading.
func (m *Machine) Decoder() *MemoryDecoder { return m.decoder }

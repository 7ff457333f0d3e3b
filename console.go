// console.go - operator console: the textual command protocol of spec.md
// §6 (`echo`, `mount`, `getdisks`, `dump`, `reset`, `quit`) over stdin/stdout.
//
// Grounded on the teacher's REPL-less CLI (it has no interactive console of
// its own), so the line-oriented shape here follows spec.md §6 directly;
// state dumps use go-spew (_examples/hejops-gone's go.mod dependency) the
// way that repo dumps structured state to text. Raw-mode terminal handling
// is grounded on the teacher's own terminal_host.go (golang.org/x/term,
// used there for its graphical front-end's stdin device): when stdin is a
// real terminal, Run puts it in raw mode and does its own line editing, the
// same MakeRaw/Restore/CR-to-LF/DEL-to-BS translation terminal_host.go does,
// simplified to a synchronous read loop since Console.Run is already a
// single-threaded per-command loop rather than terminal_host.go's async
// byte-router goroutine.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/term"
)

// Console is the line-oriented operator console (spec.md §6).
type Console struct {
	m      *Machine
	in     *bufio.Scanner
	out    io.Writer
	prompt string

	// Raw-mode terminal handling (only set when in is a real terminal; see
	// NewConsole). rawFile is read directly instead of through in/the
	// scanner once raw mode is active, since a scanner's line-splitting
	// doesn't apply to a stream with no LF and no local echo.
	rawFile  *os.File
	rawState *term.State
}

func NewConsole(m *Machine, in io.Reader, out io.Writer) *Console {
	c := &Console{m: m, in: bufio.NewScanner(in), out: out, prompt: "h89> "}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.rawFile = f
	}
	return c
}

// Run reads commands until EOF or "quit", dispatching one line at a time.
// Each command acquires the machine's system mutex for the duration of its
// effect (spec.md §5: "a front-end acquires the mutex to dump or mutate
// state"). When stdin is a terminal, Run switches it to raw mode for the
// duration of the session and restores cooked mode on return.
func (c *Console) Run() {
	if c.rawFile != nil {
		oldState, err := term.MakeRaw(int(c.rawFile.Fd()))
		if err != nil {
			fmt.Fprintf(c.out, "console: failed to set raw mode: %v\n", err)
		} else {
			c.rawState = oldState
			defer func() {
				_ = term.Restore(int(c.rawFile.Fd()), c.rawState)
			}()
		}
	}

	for {
		fmt.Fprint(c.out, c.prompt)
		line, ok := c.readLine()
		if !ok {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !c.dispatch(line) {
			return
		}
	}
}

// readLine reads one command line, from the scanner in cooked mode or, once
// raw mode is active, directly off rawFile with the terminal's own local
// echo and line editing replaced by hand (raw mode disables both).
func (c *Console) readLine() (string, bool) {
	if c.rawState == nil {
		if !c.in.Scan() {
			return "", false
		}
		return c.in.Text(), true
	}

	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := c.rawFile.Read(buf)
		if n == 0 || err != nil {
			return "", false
		}
		b := buf[0]
		switch {
		case b == '\r' || b == '\n':
			fmt.Fprint(c.out, "\r\n")
			return string(line), true
		case b == 0x7f || b == 0x08: // DEL or BS
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Fprint(c.out, "\b \b")
			}
		default:
			line = append(line, b)
			fmt.Fprintf(c.out, "%c", b)
		}
	}
}

func (c *Console) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "echo":
		fmt.Fprintln(c.out, strings.Join(args, " "))

	case "mount":
		if len(args) != 2 {
			fmt.Fprintln(c.out, "error usage: mount <drive-ident> <image-spec>")
			return true
		}
		if err := c.mount(args[0], args[1]); err != nil {
			fmt.Fprintf(c.out, "error mount: %v\n", err)
		}

	case "getdisks":
		fmt.Fprintln(c.out, c.getdisks())

	case "dump":
		if len(args) < 1 {
			fmt.Fprintln(c.out, "error usage: dump cpu|mach|disk <id>")
			return true
		}
		c.dump(args)

	case "reset":
		c.m.Reset()
		fmt.Fprintln(c.out, "ok")

	case "quit":
		return false

	default:
		fmt.Fprintf(c.out, "error unknown command: %s\n", cmd)
	}
	return true
}

// mount opens an image file and inserts it into the named drive, format
// chosen by file extension (spec.md is silent on how image-spec encodes
// format; original_source's readers each sniff their own magic, but the
// console only has a path to go on, so extension is the dispatch key).
func (c *Console) mount(ident, imageSpec string) error {
	c.m.Lock()
	defer c.m.Unlock()

	drive, ok := c.m.Drive(ident)
	if !ok {
		return fmt.Errorf("no such drive %q", ident)
	}

	disk, err := openFloppyImage(imageSpec)
	if err != nil {
		return err
	}
	drive.InsertDisk(disk)
	return nil
}

func openFloppyImage(path string) (FloppyDisk, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".imd":
		return OpenIMDFloppyDisk(path)
	case ".td0":
		return OpenTD0FloppyDisk(path)
	default:
		return OpenRawFloppyImage(path)
	}
}

// getdisks replies "drive=media;drive=media;..." (spec.md §6), sorted by
// drive identifier for deterministic output.
func (c *Console) getdisks() string {
	c.m.Lock()
	defer c.m.Unlock()

	idents := c.m.DriveIdents()
	sort.Strings(idents)

	parts := make([]string, 0, len(idents))
	for _, ident := range idents {
		drv, _ := c.m.Drive(ident)
		parts = append(parts, fmt.Sprintf("%s=%s", ident, drv.MediaName()))
	}
	return strings.Join(parts, ";")
}

func (c *Console) dump(args []string) {
	c.m.Lock()
	defer c.m.Unlock()

	switch args[0] {
	case "cpu":
		fmt.Fprint(c.out, spew.Sdump(c.m.CPU()))
	case "mach":
		fmt.Fprint(c.out, spew.Sdump(c.m))
	case "disk":
		if len(args) != 2 {
			fmt.Fprintln(c.out, "error usage: dump disk <id>")
			return
		}
		drv, ok := c.m.Drive(args[1])
		if !ok {
			fmt.Fprintf(c.out, "error dump: no such drive %q\n", args[1])
			return
		}
		fmt.Fprint(c.out, spew.Sdump(drv))
	default:
		fmt.Fprintf(c.out, "error unknown dump target: %s\n", args[0])
	}
}

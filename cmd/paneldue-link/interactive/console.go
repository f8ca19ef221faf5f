// Package interactive provides the interactive command-line interface
// for paneldue-link.
package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/paneldue/paneldue-go/pkg/inspect"
	"github.com/paneldue/paneldue-go/pkg/link"
	"github.com/paneldue/paneldue-go/pkg/seq"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// Link is the session surface the console drives. *link.Session
// implements it.
type Link interface {
	inspect.Viewer
	ID() string
	Command(line string) error
	SetSlow(slow bool)
	Sequences() map[wire.Subsystem]seq.Entry
	Stats() link.Stats
}

// Console handles interactive mode.
type Console struct {
	link      Link
	linkState func() string
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer
}

// New creates a console. linkState may be nil.
func New(l Link, linkState func() string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "panel> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	c := newConsole(l, linkState, rl.Stdout())
	c.rl = rl
	return c, nil
}

func newConsole(l Link, linkState func() string, out io.Writer) *Console {
	if linkState == nil {
		linkState = func() string { return "unknown" }
	}
	return &Console{
		link:      l,
		linkState: linkState,
		inspector: inspect.NewInspector(l),
		formatter: inspect.NewFormatter(),
		out:       out,
	}
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use it for log output so that the prompt is redrawn.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Run reads commands until quit, EOF or ctx is done. cancel is called when
// the user exits.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
		if !c.Execute(line) {
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns false when the user asked to
// quit.
func (c *Console) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "show", "inspect", "i":
		c.cmdShow(args)

	case "gcode", "g", "send":
		c.cmdGCode(strings.TrimSpace(input[len(parts[0]):]))

	case "seqs":
		c.cmdSeqs()

	case "status", "stats":
		c.cmdStatus()

	case "slow":
		c.cmdSlow(args)

	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Panel Commands:
  Object model:
    show [section[/index]] - Show the model (sections: `+strings.Join(inspect.SectionNames(), ", ")+`)
    seqs                   - Show subsystem sequence numbers
    status                 - Show link status and counters

  Control:
    gcode <line>           - Send a G-code command with the next poll
    slow on|off            - Switch to the idle poll interval

    help                   - Show this help
    quit                   - Exit`)
}

func (c *Console) cmdShow(args []string) {
	if len(args) == 0 {
		fmt.Fprint(c.out, c.formatter.FormatSnapshot(c.inspector.Snapshot()))
		return
	}
	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	text, err := c.inspector.Inspect(path, c.formatter)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "%s:\n%s", path, text)
}

func (c *Console) cmdGCode(line string) {
	if err := c.link.Command(line); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Queued: %s\n", line)
}

func (c *Console) cmdSeqs() {
	seqs := c.link.Sequences()
	subs := make([]wire.Subsystem, 0, len(seqs))
	for s := range seqs {
		subs = append(subs, s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Key() < subs[j].Key() })

	rows := make([]inspect.Row, 0, len(subs))
	for _, s := range subs {
		e := seqs[s]
		value := "-"
		if e.Seen {
			value = fmt.Sprintf("%d", e.LastSeen)
		}
		if e.Dirty {
			value += " (dirty)"
		}
		rows = append(rows, inspect.Row{Name: s.Key(), Value: value})
	}
	fmt.Fprint(c.out, c.formatter.FormatRows(1, rows))
}

func (c *Console) cmdStatus() {
	st := c.link.Stats()
	last := "never"
	if !st.LastResponse.IsZero() {
		last = time.Since(st.LastResponse).Round(time.Millisecond).String() + " ago"
	}
	fmt.Fprint(c.out, c.formatter.FormatRows(1, []inspect.Row{
		{Name: "session", Value: c.link.ID()},
		{Name: "link", Value: c.linkState()},
		{Name: "initialized", Value: fmt.Sprintf("%t", st.Initialized)},
		{Name: "controller up", Value: inspect.FormatUpTime(st.UpTime)},
		{Name: "restarts", Value: fmt.Sprintf("%d", st.Restarts)},
		{Name: "last response", Value: last},
		{Name: "heartbeats", Value: fmt.Sprintf("%d", st.Poll.Heartbeats)},
		{Name: "scoped", Value: fmt.Sprintf("%d", st.Poll.Scoped)},
		{Name: "commands", Value: fmt.Sprintf("%d", st.Poll.Commands)},
		{Name: "resends", Value: fmt.Sprintf("%d", st.Poll.Resends)},
		{Name: "send errors", Value: fmt.Sprintf("%d", st.SendErrors)},
	}))
}

func (c *Console) cmdSlow(args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(c.out, "Usage: slow on|off")
		return
	}
	c.link.SetSlow(args[0] == "on")
	fmt.Fprintf(c.out, "Slow polling %s\n", args[0])
}

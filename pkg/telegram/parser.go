package telegram

import (
	"log/slog"
	"strings"

	"github.com/paneldue/paneldue-go/pkg/fields"
	"github.com/paneldue/paneldue-go/pkg/model"
	"github.com/paneldue/paneldue-go/pkg/seq"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// State is the message framing state of the parser.
type State uint8

const (
	StateIdle State = iota
	StateInMessage
	StateEnded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateInMessage:
		return "IN_MESSAGE"
	case StateEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// resultPrefix starts every path inside the M409 result object.
const resultPrefix = "result"

// maxTimeLeft bounds accepted times-left values (10 days, in seconds).
const maxTimeLeft = 10 * 24 * 60 * 60

// maxBeepDuration caps a requested beep in milliseconds.
const maxBeepDuration = 20000

// Syncer reports and resets the synchronization state of the poll loop.
// *poll.Scheduler implements it.
type Syncer interface {
	Initialized() bool
	Reconnect()
}

// Config configures a Parser.
type Config struct {
	// Logger receives debug output for ignored and dropped values.
	// Nil disables logging.
	Logger *slog.Logger
}

// Result summarizes one completed message.
type Result struct {
	// Subsystem is the response key, SubsystemNone for a heartbeat reply and
	// SubsystemUnknown for push messages and file responses.
	Subsystem wire.Subsystem

	// Values is the number of values received.
	Values int

	// Unknown is the number of values whose path did not resolve.
	Unknown int

	// Restarted is set when the message revealed a controller restart.
	Restarted bool
}

// Parser applies telegrams to a store. It is not safe for concurrent use.
type Parser struct {
	store   *model.Store
	tracker *seq.Tracker
	sync    Syncer
	logger  *slog.Logger

	state State
	sub   wire.Subsystem
	slots model.SlotMap

	// Per-message scratch.
	alert         model.Alert
	newMessageSeq uint32
	bedSeen       bool
	chamberSeen   bool
	filesSeen     bool
	filament      []float32
	values        int
	unknown       int
	restarted     bool

	// Per-response counters reset by the key field.
	// visibleAxes and mountedVolumes hold one bit per array index.
	visibleAxes    uint64
	lastSpindle    int
	lastTool       int
	mountedVolumes uint64

	lastAlertSeq uint32
}

// NewParser creates a parser that updates store and tracker. sync supplies
// the initialization state used when mapping the printer status.
func NewParser(config Config, store *model.Store, tracker *seq.Tracker, sync Syncer) *Parser {
	return &Parser{
		store:       store,
		tracker:     tracker,
		sync:        sync,
		logger:      config.Logger,
		lastSpindle: model.NoIndex,
		lastTool:    model.NoIndex,
	}
}

// State returns the framing state.
func (p *Parser) State() State {
	return p.state
}

// Subsystem returns the key of the message being parsed.
func (p *Parser) Subsystem() wire.Subsystem {
	return p.sub
}

// Slots returns the display slots computed after the last complete tools or
// spindles response.
func (p *Parser) Slots() model.SlotMap {
	return p.slots
}

// Apply dispatches a telegram to the matching parser operation. It returns
// the message result when t ends a message.
func (p *Parser) Apply(t wire.Telegram) (Result, bool) {
	switch t.Kind {
	case wire.KindBegin:
		p.BeginMessage()
	case wire.KindValue:
		p.Value(t.Path, t.Value, t.Indices)
	case wire.KindArrayEnd:
		p.ArrayEnd(t.Path, t.Indices)
	case wire.KindEnd:
		return p.EndMessage(), true
	}
	return Result{}, false
}

// BeginMessage starts a new message and clears the per-message scratch.
func (p *Parser) BeginMessage() {
	if p.state == StateInMessage {
		p.debugLog("message restarted before end", "values", p.values)
	}
	p.state = StateInMessage
	p.sub = wire.SubsystemUnknown
	p.alert = model.Alert{}
	p.newMessageSeq = p.store.Machine().MessageSeq
	p.bedSeen = false
	p.chamberSeen = false
	p.filesSeen = false
	p.filament = p.filament[:0]
	p.values = 0
	p.unknown = 0
	p.restarted = false
}

// Value applies one scalar. indices holds the element index per array level
// of path.
func (p *Parser) Value(path, raw string, indices [wire.MaxIndices]int) {
	if p.state != StateInMessage {
		p.debugLog("value outside message", "path", path, "state", p.state)
		p.BeginMessage()
	}
	p.values++

	id := fields.Lookup(p.rewrite(path))
	if id == fields.Unknown {
		p.unknown++
		p.debugLog("ignoring unknown field", "path", path)
		return
	}
	if h := handlers[id]; h != nil {
		h(p, value{raw: raw, idx: indices})
	}
}

// ArrayEnd handles the end of an array. The index of the closing level holds
// the number of elements received.
func (p *Parser) ArrayEnd(path string, indices [wire.MaxIndices]int) {
	path = p.rewrite(path)

	// The file list is keyless, so it is matched before the subsystem switch.
	if indices[0] == 0 && strings.EqualFold(path, "files^") {
		files := &p.store.Machine().Files
		files.Files = []string{}
		p.store.Notify(model.ChangeFileList, 0)
		return
	}

	switch p.sub {
	case wire.SubsystemMove:
		if strings.EqualFold(path, "move:axes^") {
			p.store.RemoveAxis(indices[0], true)
			p.store.Machine().NumAxes = min(max(countBits(p.visibleAxes), model.MinAxes), model.MaxTotalAxes)
			p.store.AssignAxisSlots()
		}
	case wire.SubsystemSpindles:
		if strings.EqualFold(path, "spindles^") {
			p.store.RemoveSpindle(p.lastSpindle+1, true)
			p.slots = p.store.AssignToolSlots()
		}
	case wire.SubsystemTools:
		switch {
		case strings.EqualFold(path, "tools^"):
			p.store.RemoveTool(p.lastTool+1, true)
			p.slots = p.store.AssignToolSlots()
		case strings.EqualFold(path, "tools^:extruders^") && indices[1] == 0:
			p.store.SetToolExtruder(indices[0], model.NoIndex)
		case strings.EqualFold(path, "tools^:heaters^") && indices[1] == 0:
			p.store.SetToolHeater(indices[0], model.NoIndex)
		}
	case wire.SubsystemVolumes:
		if strings.EqualFold(path, "volumes^") {
			p.store.Machine().MountedVolumes = countBits(p.mountedVolumes)
			p.store.Notify(model.ChangeMachine, 0)
		}
	}
}

// EndMessage completes the message. The request for the current subsystem
// is marked done, a changed message sequence is surfaced and the collected
// message box is raised or cleared.
func (p *Parser) EndMessage() Result {
	if p.state != StateInMessage {
		p.debugLog("end without message", "state", p.state)
	}
	res := Result{Subsystem: p.sub, Values: p.values, Unknown: p.unknown, Restarted: p.restarted}

	p.tracker.Done(p.sub)
	p.sub = wire.SubsystemUnknown

	m := p.store.Machine()
	if p.newMessageSeq != m.MessageSeq {
		m.MessageSeq = p.newMessageSeq
		p.store.Notify(model.ChangeMessage, 0)
	}

	if p.alert.Flags&model.AlertGotMode != 0 && p.alert.Mode < 0 {
		p.clearAlert()
	} else if p.alert.Flags == model.AlertGotAll && p.alert.Seq != p.lastAlertSeq {
		m.Alert = p.alert
		m.AlertActive = true
		p.lastAlertSeq = p.alert.Seq
		p.store.Notify(model.ChangeAlertRaised, 0)
	}

	p.state = StateEnded
	return res
}

// rewrite maps a path below "result" to its absolute object model path.
// Heartbeat replies carry the subsystem in the path already, so only the
// "result:" prefix is dropped. Scoped replies get the key in place of
// "result", keeping any array marker that follows it.
func (p *Parser) rewrite(path string) string {
	if !strings.HasPrefix(path, resultPrefix) {
		return path
	}
	rest := path[len(resultPrefix):]
	switch {
	case p.sub == wire.SubsystemNone:
		return strings.TrimPrefix(rest, ":")
	case p.sub.Valid():
		return p.sub.Key() + rest
	default:
		return path
	}
}

func (p *Parser) setStatus(raw string) {
	status := wire.PrinterStatusConnecting
	if !p.sync.Initialized() {
		status = wire.PrinterStatusInitializing
	} else if st, ok := wire.ParsePrinterStatus(raw); ok {
		status = st
	}

	m := p.store.Machine()
	if status == m.Status {
		return
	}
	if p.logger != nil {
		p.logger.Info("printer status changed", "from", m.Status, "to", status)
	}
	m.Status = status
	p.store.Notify(model.ChangeStatus, 0)
}

// resync handles a controller restart.
func (p *Parser) resync() {
	if p.logger != nil {
		p.logger.Warn("controller restart detected", "restarts", p.tracker.Restarts())
	}
	p.restarted = true
	p.store.ResetBedsAndChambers()
	p.sync.Reconnect()
	p.setStatus("")
	p.store.Notify(model.ChangeResync, 0)
}

func (p *Parser) raiseSimpleAlert(text string) {
	m := p.store.Machine()
	if m.AlertActive && m.Alert.Mode >= 2 {
		return
	}
	m.Alert = model.Alert{Mode: 1, Title: "Message", Text: text}
	m.AlertActive = true
	p.store.Notify(model.ChangeAlertRaised, 0)
}

func (p *Parser) clearAlert() {
	m := p.store.Machine()
	if !m.AlertActive {
		return
	}
	m.AlertActive = false
	m.Alert.Mode = -1
	p.store.Notify(model.ChangeAlertCleared, 0)
}

func (p *Parser) debugLog(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

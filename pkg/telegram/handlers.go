package telegram

import (
	"math"
	"math/bits"
	"strings"

	"github.com/paneldue/paneldue-go/pkg/fields"
	"github.com/paneldue/paneldue-go/pkg/model"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// value is one scalar with its array indices.
type value struct {
	raw string
	idx [wire.MaxIndices]int
}

type handler func(p *Parser, v value)

// handlers is indexed by FieldID. Every identifier except Unknown has an
// entry; fields that carry nothing for the panel map to ignore.
var handlers [fields.NumFields]handler

// seqFields maps the live seqs fields to their subsystem.
var seqFields = map[fields.FieldID]wire.Subsystem{
	fields.SeqsBoards:      wire.SubsystemBoards,
	fields.SeqsDirectories: wire.SubsystemDirectories,
	fields.SeqsFans:        wire.SubsystemFans,
	fields.SeqsHeat:        wire.SubsystemHeat,
	fields.SeqsInputs:      wire.SubsystemInputs,
	fields.SeqsJob:         wire.SubsystemJob,
	fields.SeqsMove:        wire.SubsystemMove,
	fields.SeqsNetwork:     wire.SubsystemNetwork,
	fields.SeqsReply:       wire.SubsystemReply,
	fields.SeqsScanner:     wire.SubsystemScanner,
	fields.SeqsSensors:     wire.SubsystemSensors,
	fields.SeqsSpindles:    wire.SubsystemSpindles,
	fields.SeqsState:       wire.SubsystemState,
	fields.SeqsTools:       wire.SubsystemTools,
	fields.SeqsVolumes:     wire.SubsystemVolumes,
}

func init() {
	h := &handlers

	// M409 framing
	h[fields.Key] = handleKey
	h[fields.Flags] = ignore

	// Live values
	h[fields.FansActualValue] = handleFanValue
	h[fields.HeatHeatersActive] = func(p *Parser, v value) {
		if t, ok := ParseInt(v.raw); ok {
			p.store.SetHeaterActive(v.idx[0], t)
		}
	}
	h[fields.HeatHeatersStandby] = func(p *Parser, v value) {
		if t, ok := ParseInt(v.raw); ok {
			p.store.SetHeaterStandby(v.idx[0], t)
		}
	}
	h[fields.HeatHeatersCurrent] = func(p *Parser, v value) {
		if t, ok := ParseFloat(v.raw); ok {
			p.store.SetHeaterCurrent(v.idx[0], t)
		}
	}
	h[fields.HeatHeatersState] = func(p *Parser, v value) {
		p.store.SetHeaterStatus(v.idx[0], wire.ParseHeaterStatus(v.raw))
	}
	h[fields.JobFilePosition] = handleFilePosition
	h[fields.JobTimesLeftFile] = timeLeft(model.TimeLeftFile)
	h[fields.JobTimesLeftFilament] = timeLeft(model.TimeLeftFilament)
	h[fields.JobTimesLeftLayer] = timeLeft(model.TimeLeftLayer)
	h[fields.MoveAxesUserPosition] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.store.SetAxisUserPosition(v.idx[0], f)
		}
	}
	h[fields.MoveAxesMachinePosition] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.store.SetAxisMachinePosition(v.idx[0], f)
		}
	}
	h[fields.SensorsProbesValue] = func(p *Parser, v value) {
		if v.idx[0] == 0 && v.idx[1] == 0 {
			p.store.Machine().ProbeValue = v.raw
			p.store.Notify(model.ChangeMachine, 0)
		}
	}
	for id, sub := range seqFields {
		h[id] = observeSeq(sub)
	}
	h[fields.SpindlesCurrent] = func(p *Parser, v value) {
		if rpm, ok := ParseUint(v.raw); ok {
			p.store.SetSpindleCurrent(v.idx[0], rpm)
		}
	}
	h[fields.StateCurrentTool] = handleCurrentTool
	h[fields.StateStatus] = func(p *Parser, v value) { p.setStatus(v.raw) }
	h[fields.StateUpTime] = handleUpTime
	h[fields.ToolsState] = func(p *Parser, v value) {
		p.store.SetToolStatus(v.idx[0], wire.ParseToolStatus(v.raw))
	}

	// Boards
	h[fields.BoardsFirmwareName] = handleFirmwareName

	// Heat
	h[fields.HeatBedHeaters] = func(p *Parser, v value) {
		if heater, ok := firstHeater(&p.bedSeen, v); ok {
			p.store.SetBedHeater(v.idx[0], heater)
		}
	}
	h[fields.HeatChamberHeaters] = func(p *Parser, v value) {
		if heater, ok := firstHeater(&p.chamberSeen, v); ok {
			p.store.SetChamberHeater(v.idx[0], heater)
		}
	}

	// Job
	h[fields.JobFileName] = func(p *Parser, v value) {
		p.store.Machine().Job.FileName = v.raw
		p.store.Notify(model.ChangeJob, 0)
	}
	h[fields.JobFileSize] = func(p *Parser, v value) {
		size, _ := ParseUint(v.raw)
		p.store.Machine().Job.FileSize = size
		p.store.Notify(model.ChangeJob, 0)
	}

	// Move
	h[fields.MoveAxesBabystep] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.store.SetAxisBabystep(v.idx[0], f)
		}
	}
	h[fields.MoveAxesHomed] = func(p *Parser, v value) {
		if homed, ok := ParseBool(v.raw); ok {
			p.store.SetAxisHomed(v.idx[0], homed)
		}
	}
	h[fields.MoveAxesLetter] = func(p *Parser, v value) {
		if v.raw != "" {
			p.store.SetAxisLetter(v.idx[0], v.raw[0])
		}
	}
	h[fields.MoveAxesVisible] = func(p *Parser, v value) {
		if visible, ok := ParseBool(v.raw); ok {
			p.store.SetAxisVisible(v.idx[0], visible)
			p.visibleAxes = setBit(p.visibleAxes, v.idx[0], visible)
		}
	}
	h[fields.MoveAxesWorkplaceOffsets] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.store.SetAxisWorkplaceOffset(v.idx[0], v.idx[1], f)
		}
	}
	h[fields.MoveExtrudersFactor] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.store.Machine().ExtrusionFactors[v.idx[0]] = percent(f)
			p.store.Notify(model.ChangeMachine, 0)
		}
	}
	h[fields.MoveKinematicsName] = handleKinematics
	h[fields.MoveSpeedFactor] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.store.Machine().SpeedPercent = percent(f)
			p.store.Notify(model.ChangeMachine, 0)
		}
	}
	h[fields.MoveWorkplaceNumber] = func(p *Parser, v value) {
		if n, ok := ParseUint(v.raw); ok {
			p.store.Machine().WorkplaceNumber = int(n)
			p.store.Notify(model.ChangeMachine, 0)
		}
	}

	// Network
	h[fields.NetworkName] = func(p *Parser, v value) {
		if p.acceptsConfiguration() {
			p.store.Machine().Name = v.raw
			p.store.Notify(model.ChangeMachine, 0)
		}
	}
	h[fields.NetworkInterfacesActualIP] = func(p *Parser, v value) {
		if v.idx[0] == 0 {
			p.store.Machine().IP = v.raw
			p.store.Notify(model.ChangeMachine, 0)
		}
	}

	// Spindles
	h[fields.SpindlesActive] = handleSpindleActive
	h[fields.SpindlesMax] = func(p *Parser, v value) {
		if p.sub != wire.SubsystemSpindles {
			return
		}
		if rpm, ok := ParseUint(v.raw); ok {
			p.store.SetSpindleMax(v.idx[0], rpm)
		}
	}
	h[fields.SpindlesTool] = func(p *Parser, v value) {
		if tool, ok := ParseInt(v.raw); ok {
			p.store.SetSpindleTool(v.idx[0], int(tool))
		}
	}

	// State message box
	h[fields.StateMessageBox] = func(p *Parser, v value) {
		if v.raw == "" {
			p.clearAlert()
		}
	}
	h[fields.StateMessageBoxAxisControls] = func(p *Parser, v value) {
		if c, ok := ParseUint(v.raw); ok {
			p.alert.Controls = c
			p.alert.Flags |= model.AlertGotControls
		}
	}
	h[fields.StateMessageBoxMessage] = func(p *Parser, v value) {
		p.alert.Text = v.raw
		p.alert.Flags |= model.AlertGotText
	}
	h[fields.StateMessageBoxMode] = func(p *Parser, v value) {
		if mode, ok := ParseInt(v.raw); ok {
			p.alert.Mode = mode
			p.alert.Flags |= model.AlertGotMode
		}
	}
	h[fields.StateMessageBoxSeq] = func(p *Parser, v value) {
		if s, ok := ParseUint(v.raw); ok {
			p.alert.Seq = s
			p.alert.Flags |= model.AlertGotSeq
		}
	}
	h[fields.StateMessageBoxTimeout] = func(p *Parser, v value) {
		if t, ok := ParseFloat(v.raw); ok {
			p.alert.Timeout = t
			p.alert.Flags |= model.AlertGotTimeout
		}
	}
	h[fields.StateMessageBoxTitle] = func(p *Parser, v value) {
		p.alert.Title = v.raw
		p.alert.Flags |= model.AlertGotTitle
	}

	// Tools
	h[fields.ToolsExtruders] = func(p *Parser, v value) {
		if v.idx[1] > 0 {
			return
		}
		if e, ok := ParseInt(v.raw); ok {
			p.store.SetToolExtruder(v.idx[0], int(e))
		}
	}
	h[fields.ToolsHeaters] = func(p *Parser, v value) {
		if v.idx[1] > 0 {
			return
		}
		if heater, ok := ParseInt(v.raw); ok {
			p.store.SetToolHeater(v.idx[0], int(heater))
		}
	}
	h[fields.ToolsNumber] = handleToolNumber
	h[fields.ToolsOffsets] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.store.SetToolOffset(v.idx[0], v.idx[1], f)
		}
	}

	// Volumes
	h[fields.VolumesMounted] = func(p *Parser, v value) {
		if mounted, ok := ParseBool(v.raw); ok {
			p.mountedVolumes = setBit(p.mountedVolumes, v.idx[0], mounted)
		}
	}

	// M20 file list
	h[fields.M20Dir] = func(p *Parser, v value) {
		p.store.Machine().Files.Dir = v.raw
		p.store.Notify(model.ChangeFileList, 0)
	}
	h[fields.M20Err] = func(p *Parser, v value) {
		if code, ok := ParseInt(v.raw); ok && code >= 0 {
			p.store.Machine().Files.Err = code
			p.store.Notify(model.ChangeFileList, 0)
		}
	}
	h[fields.M20Files] = func(p *Parser, v value) {
		files := &p.store.Machine().Files
		if !p.filesSeen {
			files.Files = nil
			p.filesSeen = true
		}
		i := v.idx[0]
		for len(files.Files) <= i {
			files.Files = append(files.Files, "")
		}
		files.Files[i] = v.raw
		p.store.Notify(model.ChangeFileList, 0)
	}

	// M36 file info
	h[fields.M36Filament] = func(p *Parser, v value) {
		f, ok := ParseFloat(v.raw)
		if !ok {
			return
		}
		for len(p.filament) <= v.idx[0] {
			p.filament = append(p.filament, 0)
		}
		p.filament[v.idx[0]] = f
		var total float32
		for _, used := range p.filament {
			total += used
		}
		p.fileInfo().Filament = total
	}
	h[fields.M36FileName] = func(p *Parser, v value) { p.fileInfo().FileName = v.raw }
	h[fields.M36GeneratedBy] = func(p *Parser, v value) { p.fileInfo().GeneratedBy = v.raw }
	h[fields.M36LastModified] = func(p *Parser, v value) { p.fileInfo().LastModified = v.raw }
	h[fields.M36Height] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.fileInfo().Height = f
		}
	}
	h[fields.M36LayerHeight] = func(p *Parser, v value) {
		if f, ok := ParseFloat(v.raw); ok {
			p.fileInfo().LayerHeight = f
		}
	}
	h[fields.M36PrintTime] = func(p *Parser, v value) {
		if t, ok := ParseInt(v.raw); ok && t > 0 {
			p.fileInfo().PrintTime = uint32(t)
		}
	}
	h[fields.M36SimulatedTime] = func(p *Parser, v value) {
		if t, ok := ParseInt(v.raw); ok && t > 0 {
			p.fileInfo().SimulatedTime = uint32(t)
		}
	}
	h[fields.M36Size] = func(p *Parser, v value) {
		if size, ok := ParseInt(v.raw); ok {
			p.fileInfo().Size = size
		}
	}

	// Push messages
	h[fields.PushMessage] = func(p *Parser, v value) {
		if v.raw == "" {
			p.clearAlert()
			return
		}
		p.raiseSimpleAlert(v.raw)
	}
	h[fields.PushResponse] = func(p *Parser, v value) {
		p.store.Machine().Message = v.raw
		p.store.Notify(model.ChangeMessage, 0)
	}
	h[fields.PushSeq] = func(p *Parser, v value) {
		if s, ok := ParseUint(v.raw); ok {
			p.newMessageSeq = s
		}
	}
	h[fields.PushBeepLength] = func(p *Parser, v value) {
		if d, ok := ParseInt(v.raw); ok {
			p.store.Machine().BeepDuration = min(d, maxBeepDuration)
			p.store.Notify(model.ChangeBeep, 0)
		}
	}
	h[fields.PushBeepFrequency] = func(p *Parser, v value) {
		if f, ok := ParseInt(v.raw); ok {
			p.store.Machine().BeepFrequency = f
			p.store.Notify(model.ChangeBeep, 0)
		}
	}
}

func ignore(*Parser, value) {}

// setBit records a per-element flag so that a repeated value leaves the
// count unchanged. Indices beyond the mask are dropped.
func setBit(mask uint64, i int, on bool) uint64 {
	if i < 0 || i >= 64 {
		return mask
	}
	if on {
		return mask | 1<<i
	}
	return mask &^ (1 << i)
}

func countBits(mask uint64) int {
	return bits.OnesCount64(mask)
}

func handleKey(p *Parser, v value) {
	p.sub = fields.LookupKey(v.raw)
	switch p.sub {
	case wire.SubsystemMove:
		p.visibleAxes = 0
	case wire.SubsystemSpindles:
		p.lastSpindle = model.NoIndex
	case wire.SubsystemTools:
		p.lastTool = model.NoIndex
	case wire.SubsystemVolumes:
		p.mountedVolumes = 0
	}
}

func handleFanValue(p *Parser, v value) {
	if v.idx[0] != 0 {
		return
	}
	if f, ok := ParseFloat(v.raw); ok && f >= 0 && f <= 1 {
		p.store.Machine().FanPercent = percent(f)
		p.store.Notify(model.ChangeMachine, 0)
	}
}

func handleFilePosition(p *Parser, v value) {
	m := p.store.Machine()
	if !m.Status.InProgress() || m.Job.FileSize == 0 {
		return
	}
	if pos, ok := ParseUint(v.raw); ok {
		m.Job.Progress = uint32(float64(pos)*100/float64(m.Job.FileSize) + 0.5)
		p.store.Notify(model.ChangeJob, 0)
	}
}

func timeLeft(kind int) handler {
	return func(p *Parser, v value) {
		m := p.store.Machine()
		if t, ok := ParseInt(v.raw); ok && t >= 0 && t < maxTimeLeft && m.Status.InProgress() {
			m.Job.TimesLeft[kind] = t
			p.store.Notify(model.ChangeJob, 0)
		}
	}
}

func observeSeq(sub wire.Subsystem) handler {
	return func(p *Parser, v value) {
		s, ok := ParseUint(v.raw)
		if !ok || s > math.MaxUint16 {
			p.debugLog("sequence out of range", "subsystem", sub, "seq", v.raw)
			return
		}
		if p.tracker.Observe(sub, uint16(s)) {
			p.debugLog("subsystem changed", "subsystem", sub, "seq", s)
		}
	}
}

func handleCurrentTool(p *Parser, v value) {
	m := p.store.Machine()
	if m.Status.Connecting() {
		return
	}
	if tool, ok := ParseInt(v.raw); ok && int(tool) != m.CurrentTool {
		m.CurrentTool = int(tool)
		p.store.Notify(model.ChangeCurrentTool, int(tool))
	}
}

func handleUpTime(p *Parser, v value) {
	up, ok := ParseUint(v.raw)
	if !ok {
		return
	}
	if p.tracker.ObserveUptime(up) {
		p.resync()
	}
	p.store.Machine().UpTime = up
}

func handleFirmwareName(p *Parser, v value) {
	if v.idx[0] != 0 {
		return
	}
	m := p.store.Machine()
	m.FirmwareName = v.raw
	if features, ok := wire.FirmwareFeaturesFor(v.raw); ok {
		m.Features = features
	}
	p.store.Notify(model.ChangeMachine, 0)
}

// firstHeater accepts only the first valid heater number of a bed or
// chamber heater array.
func firstHeater(seen *bool, v value) (int, bool) {
	if v.idx[0] == 0 {
		*seen = false
	}
	if *seen {
		return 0, false
	}
	heater, ok := ParseInt(v.raw)
	if !ok || heater <= model.NoIndex {
		return 0, false
	}
	*seen = true
	return int(heater), true
}

func handleKinematics(p *Parser, v value) {
	if !p.acceptsConfiguration() {
		return
	}
	p.store.Machine().IsDelta = strings.EqualFold(v.raw, "delta")
	p.store.AssignAxisSlots()
}

func handleSpindleActive(p *Parser, v value) {
	if rpm, ok := ParseUint(v.raw); ok {
		p.store.SetSpindleActive(v.idx[0], rpm)
	}
	for i := p.lastSpindle + 1; i < v.idx[0]; i++ {
		p.store.RemoveSpindle(i, false)
	}
	p.lastSpindle = v.idx[0]
}

func handleToolNumber(p *Parser, v value) {
	for i := p.lastTool + 1; i < v.idx[0]; i++ {
		p.store.RemoveTool(i, false)
	}
	p.lastTool = v.idx[0]
}

// acceptsConfiguration reports whether machine name and kinematics may be
// taken over. The controller reports defaults while it is starting.
func (p *Parser) acceptsConfiguration() bool {
	st := p.store.Machine().Status
	return st != wire.PrinterStatusConnecting && st != wire.PrinterStatusConfiguring
}

func (p *Parser) fileInfo() *model.FileInfo {
	p.store.Notify(model.ChangeFileInfo, 0)
	return &p.store.Machine().FileInfo
}

package inspect

import (
	"github.com/paneldue/paneldue-go/pkg/model"
)

// AxisInfo describes one axis.
type AxisInfo struct {
	Index           int       `json:"index"`
	Letter          string    `json:"letter"`
	Visible         bool      `json:"visible"`
	Homed           bool      `json:"homed"`
	UserPosition    float32   `json:"userPosition"`
	MachinePosition float32   `json:"machinePosition"`
	Babystep        float32   `json:"babystep"`
	Workplaces      []float32 `json:"workplaceOffsets"`
	Slot            int       `json:"slot"`
	SlotP           int       `json:"slotP"`
}

// ToolInfo describes one tool.
type ToolInfo struct {
	Index    int       `json:"index"`
	Heater   int       `json:"heater"`
	Extruder int       `json:"extruder"`
	Spindle  int       `json:"spindle"`
	Status   string    `json:"status"`
	Offsets  []float32 `json:"offsets"`
	Slot     int       `json:"slot"`
	SlotPJog int       `json:"slotPJog"`
	SlotPJob int       `json:"slotPJob"`
}

// SpindleInfo describes one spindle.
type SpindleInfo struct {
	Index   int    `json:"index"`
	Active  uint32 `json:"active"`
	Current uint32 `json:"current"`
	Max     uint32 `json:"max"`
	Tool    int    `json:"tool"`
}

// HeaterInfo describes one heater.
type HeaterInfo struct {
	Index   int     `json:"index"`
	Current float32 `json:"current"`
	Active  int32   `json:"active"`
	Standby int32   `json:"standby"`
	Status  string  `json:"status"`
	Slot    int     `json:"slot"`
}

// BedInfo describes a bed or chamber.
type BedInfo struct {
	Index  int `json:"index"`
	Heater int `json:"heater"`
	Slot   int `json:"slot"`
}

// JobInfo describes the running job.
type JobInfo struct {
	FileName string `json:"fileName"`
	FileSize uint32 `json:"fileSize"`
	Progress uint32 `json:"progress"`
	FileLeft int32  `json:"timeLeftFile"`
	Filament int32  `json:"timeLeftFilament"`
	Layer    int32  `json:"timeLeftLayer"`
}

// MachineInfo holds the scalar machine state.
type MachineInfo struct {
	Status       string `json:"status"`
	CurrentTool  int    `json:"currentTool"`
	UpTime       uint32 `json:"upTime"`
	Name         string `json:"name"`
	IP           string `json:"ip"`
	Firmware     string `json:"firmware"`
	NumAxes      int    `json:"numAxes"`
	IsDelta      bool   `json:"isDelta"`
	FanPercent   int    `json:"fanPercent"`
	SpeedPercent int    `json:"speedPercent"`
	Workplace    int    `json:"workplace"`
	ProbeValue   string `json:"probeValue,omitempty"`
	Volumes      int    `json:"mountedVolumes"`
	Message      string `json:"message,omitempty"`
	Alert        string `json:"alert,omitempty"`
}

// FilesInfo is the last directory listing.
type FilesInfo struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
	Err   int32    `json:"err"`
}

// Snapshot is a copy of the store contents.
type Snapshot struct {
	Machine  MachineInfo   `json:"machine"`
	Job      JobInfo       `json:"job"`
	Files    FilesInfo     `json:"files"`
	Axes     []AxisInfo    `json:"axes"`
	Tools    []ToolInfo    `json:"tools"`
	Spindles []SpindleInfo `json:"spindles"`
	Heaters  []HeaterInfo  `json:"heaters"`
	Beds     []BedInfo     `json:"beds"`
	Chambers []BedInfo     `json:"chambers"`
}

// TakeSnapshot copies the store. The caller must hold whatever lock guards
// the store.
func TakeSnapshot(store *model.Store) Snapshot {
	m := store.Machine()
	snap := Snapshot{
		Machine: MachineInfo{
			Status:       m.Status.String(),
			CurrentTool:  m.CurrentTool,
			UpTime:       m.UpTime,
			Name:         m.Name,
			IP:           m.IP,
			Firmware:     m.FirmwareName,
			NumAxes:      m.NumAxes,
			IsDelta:      m.IsDelta,
			FanPercent:   m.FanPercent,
			SpeedPercent: m.SpeedPercent,
			Workplace:    m.WorkplaceNumber,
			ProbeValue:   m.ProbeValue,
			Volumes:      m.MountedVolumes,
			Message:      m.Message,
		},
		Job: JobInfo{
			FileName: m.Job.FileName,
			FileSize: m.Job.FileSize,
			Progress: m.Job.Progress,
			FileLeft: m.Job.TimesLeft[model.TimeLeftFile],
			Filament: m.Job.TimesLeft[model.TimeLeftFilament],
			Layer:    m.Job.TimesLeft[model.TimeLeftLayer],
		},
		Files: FilesInfo{
			Dir:   m.Files.Dir,
			Files: append([]string(nil), m.Files.Files...),
			Err:   m.Files.Err,
		},
		Axes:     []AxisInfo{},
		Tools:    []ToolInfo{},
		Spindles: []SpindleInfo{},
		Heaters:  []HeaterInfo{},
		Beds:     []BedInfo{},
		Chambers: []BedInfo{},
	}
	if m.AlertActive {
		snap.Machine.Alert = m.Alert.Title + ": " + m.Alert.Text
	}

	store.Axes().Each(func(a *model.Axis) {
		snap.Axes = append(snap.Axes, AxisInfo{
			Index:           a.Index,
			Letter:          a.LetterString(),
			Visible:         a.Visible,
			Homed:           a.Homed,
			UserPosition:    a.UserPosition,
			MachinePosition: a.MachinePosition,
			Babystep:        a.Babystep,
			Workplaces:      append([]float32(nil), a.WorkplaceOffsets[:]...),
			Slot:            a.Slot,
			SlotP:           a.SlotP,
		})
	})
	store.Tools().Each(func(t *model.Tool) {
		snap.Tools = append(snap.Tools, ToolInfo{
			Index:    t.Index,
			Heater:   t.Heater,
			Extruder: t.Extruder,
			Spindle:  t.Spindle,
			Status:   t.Status.String(),
			Offsets:  append([]float32(nil), t.Offsets[:m.NumAxes]...),
			Slot:     t.Slot,
			SlotPJog: t.SlotPJog,
			SlotPJob: t.SlotPJob,
		})
	})
	store.Spindles().Each(func(s *model.Spindle) {
		snap.Spindles = append(snap.Spindles, SpindleInfo{
			Index:   s.Index,
			Active:  s.Active,
			Current: s.Current,
			Max:     s.Max,
			Tool:    s.Tool,
		})
	})
	store.Heaters().Each(func(h *model.Heater) {
		snap.Heaters = append(snap.Heaters, HeaterInfo{
			Index:   h.Index,
			Current: h.Current,
			Active:  h.Active,
			Standby: h.Standby,
			Status:  h.Status.String(),
			Slot:    store.HeaterSlot(h.Index),
		})
	})
	store.Beds().Each(func(b *model.BedOrChamber) {
		snap.Beds = append(snap.Beds, BedInfo{Index: b.Index, Heater: b.Heater, Slot: b.Slot})
	})
	store.Chambers().Each(func(c *model.BedOrChamber) {
		snap.Chambers = append(snap.Chambers, BedInfo{Index: c.Index, Heater: c.Heater, Slot: c.Slot})
	})
	return snap
}

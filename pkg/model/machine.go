package model

import "github.com/paneldue/paneldue-go/pkg/wire"

// Times-left kinds reported by the controller.
const (
	TimeLeftFile = iota
	TimeLeftFilament
	TimeLeftLayer
	numTimesLeft
)

// Alert flags record which message box fields arrived in a response.
const (
	AlertGotMode uint8 = 1 << iota
	AlertGotSeq
	AlertGotTimeout
	AlertGotTitle
	AlertGotText
	AlertGotControls

	// AlertGotAll is set when the message box is complete.
	AlertGotAll = AlertGotMode | AlertGotSeq | AlertGotTimeout | AlertGotTitle | AlertGotText | AlertGotControls
)

// Alert is a controller message box.
type Alert struct {
	Mode     int32
	Seq      uint32
	Controls uint32
	Timeout  float32
	Title    string
	Text     string
	Flags    uint8
}

// Job describes the running print or machining job.
type Job struct {
	FileName string
	FileSize uint32

	// Progress is the file position in percent, valid while a job runs.
	Progress uint32

	// TimesLeft in seconds, indexed by TimeLeftFile, TimeLeftFilament and
	// TimeLeftLayer. Negative when unknown.
	TimesLeft [numTimesLeft]int32
}

// FileList is the result of the last M20 request.
type FileList struct {
	Dir   string
	Files []string
	Err   int32
}

// FileInfo is the result of the last M36 request.
type FileInfo struct {
	FileName      string
	GeneratedBy   string
	LastModified  string
	Height        float32
	LayerHeight   float32
	Filament      float32
	PrintTime     uint32
	SimulatedTime uint32
	Size          int32
}

// Machine holds the scalar state that does not belong to an entity list.
type Machine struct {
	Status      wire.PrinterStatus
	CurrentTool int
	UpTime      uint32

	Name         string
	IP           string
	FirmwareName string
	Features     wire.FirmwareFeatures

	// NumAxes is the visible axis count, clamped to [MinAxes, MaxTotalAxes].
	NumAxes int
	IsDelta bool

	FanPercent       int
	SpeedPercent     int
	ExtrusionFactors map[int]int
	WorkplaceNumber  int
	ProbeValue       string
	MountedVolumes   int

	Job      Job
	Files    FileList
	FileInfo FileInfo

	// MessageSeq identifies the last surfaced controller message.
	MessageSeq uint32
	Message    string

	BeepFrequency int32
	BeepDuration  int32

	Alert       Alert
	AlertActive bool
}

func newMachine() Machine {
	m := Machine{
		Status:           wire.PrinterStatusConnecting,
		CurrentTool:      NoIndex,
		NumAxes:          MinAxes,
		ExtrusionFactors: make(map[int]int),
	}
	for i := range m.Job.TimesLeft {
		m.Job.TimesLeft[i] = -1
	}
	return m
}

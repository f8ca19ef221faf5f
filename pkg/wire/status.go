package wire

import "strings"

// PrinterStatus is the machine state reported in state:status.
type PrinterStatus uint8

const (
	// PrinterStatusConnecting is held until the first scoped request went out.
	PrinterStatusConnecting PrinterStatus = iota
	PrinterStatusIdle
	PrinterStatusPrinting
	PrinterStatusStopped
	PrinterStatusConfiguring
	PrinterStatusPaused
	PrinterStatusBusy
	PrinterStatusPausing
	PrinterStatusResuming
	PrinterStatusFlashing
	PrinterStatusToolChanging
	PrinterStatusSimulating
	PrinterStatusOff
	PrinterStatusCancelling

	// PrinterStatusInitializing is reported while the panel synchronizes
	// after (re)connecting and no status may be trusted yet.
	PrinterStatusInitializing
)

var printerStatusNames = map[string]PrinterStatus{
	"busy":         PrinterStatusBusy,
	"cancelling":   PrinterStatusCancelling,
	"changingtool": PrinterStatusToolChanging,
	"halted":       PrinterStatusStopped,
	"idle":         PrinterStatusIdle,
	"off":          PrinterStatusOff,
	"paused":       PrinterStatusPaused,
	"pausing":      PrinterStatusPausing,
	"processing":   PrinterStatusPrinting,
	"resuming":     PrinterStatusResuming,
	"simulating":   PrinterStatusSimulating,
	"starting":     PrinterStatusConfiguring,
	"updating":     PrinterStatusFlashing,
}

// ParsePrinterStatus maps a controller status string, ignoring case.
func ParsePrinterStatus(s string) (PrinterStatus, bool) {
	st, ok := printerStatusNames[strings.ToLower(s)]
	return st, ok
}

// InProgress reports whether a job is running, paused or simulated.
func (s PrinterStatus) InProgress() bool {
	switch s {
	case PrinterStatusPrinting, PrinterStatusPaused, PrinterStatusPausing,
		PrinterStatusResuming, PrinterStatusSimulating:
		return true
	}
	return false
}

// Connecting reports whether the panel has not yet synchronized.
func (s PrinterStatus) Connecting() bool {
	return s == PrinterStatusConnecting || s == PrinterStatusInitializing
}

// String returns the status name.
func (s PrinterStatus) String() string {
	switch s {
	case PrinterStatusConnecting:
		return "CONNECTING"
	case PrinterStatusIdle:
		return "IDLE"
	case PrinterStatusPrinting:
		return "PRINTING"
	case PrinterStatusStopped:
		return "STOPPED"
	case PrinterStatusConfiguring:
		return "CONFIGURING"
	case PrinterStatusPaused:
		return "PAUSED"
	case PrinterStatusBusy:
		return "BUSY"
	case PrinterStatusPausing:
		return "PAUSING"
	case PrinterStatusResuming:
		return "RESUMING"
	case PrinterStatusFlashing:
		return "FLASHING"
	case PrinterStatusToolChanging:
		return "TOOL_CHANGING"
	case PrinterStatusSimulating:
		return "SIMULATING"
	case PrinterStatusOff:
		return "OFF"
	case PrinterStatusCancelling:
		return "CANCELLING"
	case PrinterStatusInitializing:
		return "INITIALIZING"
	default:
		return "UNKNOWN"
	}
}

// HeaterStatus is the state of a single heater.
type HeaterStatus uint8

const (
	HeaterStatusOff HeaterStatus = iota
	HeaterStatusStandby
	HeaterStatusActive
	HeaterStatusFault
	HeaterStatusTuning
	HeaterStatusOffline
)

var heaterStatusNames = map[string]HeaterStatus{
	"active":  HeaterStatusActive,
	"fault":   HeaterStatusFault,
	"off":     HeaterStatusOff,
	"offline": HeaterStatusOffline,
	"standby": HeaterStatusStandby,
	"tuning":  HeaterStatusTuning,
}

// ParseHeaterStatus maps a heater state string, ignoring case. Unknown
// strings map to off.
func ParseHeaterStatus(s string) HeaterStatus {
	return heaterStatusNames[strings.ToLower(s)]
}

// String returns the heater status name.
func (s HeaterStatus) String() string {
	switch s {
	case HeaterStatusOff:
		return "OFF"
	case HeaterStatusStandby:
		return "STANDBY"
	case HeaterStatusActive:
		return "ACTIVE"
	case HeaterStatusFault:
		return "FAULT"
	case HeaterStatusTuning:
		return "TUNING"
	case HeaterStatusOffline:
		return "OFFLINE"
	default:
		return "UNKNOWN"
	}
}

// ToolStatus is the state of a tool.
type ToolStatus uint8

const (
	ToolStatusOff ToolStatus = iota
	ToolStatusActive
	ToolStatusStandby
)

var toolStatusNames = map[string]ToolStatus{
	"active":  ToolStatusActive,
	"off":     ToolStatusOff,
	"standby": ToolStatusStandby,
}

// ParseToolStatus maps a tool state string, ignoring case. Unknown strings
// map to off.
func ParseToolStatus(s string) ToolStatus {
	return toolStatusNames[strings.ToLower(s)]
}

// String returns the tool status name.
func (s ToolStatus) String() string {
	switch s {
	case ToolStatusOff:
		return "OFF"
	case ToolStatusActive:
		return "ACTIVE"
	case ToolStatusStandby:
		return "STANDBY"
	default:
		return "UNKNOWN"
	}
}

// FirmwareFeatures are capability flags derived from the firmware name.
type FirmwareFeatures uint16

const (
	FeatureNoGcodesFolder FirmwareFeatures = 1 << iota
	FeatureNoStandbyTemps
	FeatureNoG10Temps
	FeatureNoDriveNumber
	FeatureNoM20M36
	FeatureQuoteFilenames
)

var firmwareTypes = []struct {
	prefix   string
	features FirmwareFeatures
}{
	{"RepRapFirmware", FeatureQuoteFilenames},
	{"Smoothie", FeatureNoGcodesFolder | FeatureNoStandbyTemps | FeatureNoG10Temps | FeatureNoDriveNumber | FeatureNoM20M36},
	{"Repetier", FeatureNoGcodesFolder | FeatureNoStandbyTemps | FeatureNoG10Temps},
	{"Marlin", FeatureNoGcodesFolder | FeatureNoStandbyTemps | FeatureNoG10Temps},
}

// FirmwareFeaturesFor returns the features of a known firmware by name
// prefix.
func FirmwareFeaturesFor(name string) (FirmwareFeatures, bool) {
	for _, ft := range firmwareTypes {
		if strings.HasPrefix(name, ft.prefix) {
			return ft.features, true
		}
	}
	return 0, false
}

package model

import "github.com/paneldue/paneldue-go/pkg/wire"

// NoIndex marks an absent heater, extruder, spindle or tool reference.
const NoIndex = -1

// Axis is one machine axis.
type Axis struct {
	Index            int
	Letter           byte
	Babystep         float32
	WorkplaceOffsets [MaxTotalWorkplaces]float32
	UserPosition     float32
	MachinePosition  float32
	Homed            bool
	Visible          bool

	// Slot is the primary display row, MaxTotalAxes when not shown.
	Slot int

	// SlotP is the pendant display row, MaxTotalAxes when not shown.
	SlotP int
}

func newAxis(index int) *Axis {
	return &Axis{Index: index, Slot: MaxTotalAxes, SlotP: MaxTotalAxes}
}

// LetterString returns the axis letter, or "" if not yet known.
func (a *Axis) LetterString() string {
	if a.Letter == 0 {
		return ""
	}
	return string(a.Letter)
}

// Tool is one configured tool.
type Tool struct {
	Index    int
	Heater   int
	Extruder int

	// Spindle is the index of the spindle driving this tool, or NoIndex.
	Spindle int

	Offsets [MaxTotalAxes]float32
	Status  wire.ToolStatus

	// Slot is the primary display column, MaxHeaters when not shown.
	Slot int

	// SlotPJog is the pendant jog page slot, MaxPendantTools when not shown.
	SlotPJog int

	// SlotPJob is the pendant job page slot, MaxPendantTools when not shown.
	SlotPJob int
}

func newTool(index int) *Tool {
	return &Tool{
		Index:    index,
		Heater:   NoIndex,
		Extruder: NoIndex,
		Spindle:  NoIndex,
		Slot:     MaxHeaters,
		SlotPJog: MaxPendantTools,
		SlotPJob: MaxPendantTools,
	}
}

// HasHeater reports whether the tool references a heater.
func (t *Tool) HasHeater() bool { return t.Heater > NoIndex }

// HasSpindle reports whether the tool is driven by a spindle.
func (t *Tool) HasSpindle() bool { return t.Spindle > NoIndex }

// HasExtruder reports whether the tool references an extruder.
func (t *Tool) HasExtruder() bool { return t.Extruder > NoIndex }

// Spindle is one configured spindle.
type Spindle struct {
	Index   int
	Active  uint32
	Max     uint32
	Current uint32

	// Tool is the tool number this spindle belongs to, or NoIndex.
	Tool int
}

func newSpindle(index int) *Spindle {
	return &Spindle{Index: index, Tool: NoIndex}
}

// BedOrChamber is a heated bed or chamber.
type BedOrChamber struct {
	// Index is the position within the bed or chamber heater list.
	Index int

	// Heater is the heater number, or NoIndex.
	Heater int

	// Slot is the primary display column, MaxHeaters when not shown.
	Slot int

	// SlotPJob is the pendant job page slot, MaxPendantTools when not shown.
	SlotPJob int
}

func newBedOrChamber(index int) *BedOrChamber {
	return &BedOrChamber{Index: index, Heater: NoIndex, Slot: MaxHeaters, SlotPJob: MaxPendantTools}
}

// Heater holds the values reported for one heater number.
type Heater struct {
	Index   int
	Active  int32
	Standby int32
	Current float32
	Status  wire.HeaterStatus
}

func newHeater(index int) *Heater {
	return &Heater{Index: index}
}

package model

import "github.com/paneldue/paneldue-go/pkg/wire"

// Store owns every entity mirrored from the controller.
type Store struct {
	axes     *List[Axis]
	tools    *List[Tool]
	spindles *List[Spindle]
	beds     *List[BedOrChamber]
	chambers *List[BedOrChamber]
	heaters  *List[Heater]

	machine Machine
	changes changeSet
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		axes:     NewList(MaxTotalAxes, newAxis),
		tools:    NewList(MaxTools, newTool),
		spindles: NewList(MaxSpindles, newSpindle),
		beds:     NewList(MaxBedsOrChambers, newBedOrChamber),
		chambers: NewList(MaxBedsOrChambers, newBedOrChamber),
		heaters:  NewList(MaxHeaterNumbers, newHeater),
		machine:  newMachine(),
	}
}

// Axes returns the axis list. Mutate axes through the Store methods so that
// changes are recorded.
func (s *Store) Axes() *List[Axis] { return s.axes }

// Tools returns the tool list.
func (s *Store) Tools() *List[Tool] { return s.tools }

// Spindles returns the spindle list.
func (s *Store) Spindles() *List[Spindle] { return s.spindles }

// Beds returns the bed list.
func (s *Store) Beds() *List[BedOrChamber] { return s.beds }

// Chambers returns the chamber list.
func (s *Store) Chambers() *List[BedOrChamber] { return s.chambers }

// Heaters returns the heater list.
func (s *Store) Heaters() *List[Heater] { return s.heaters }

// Machine returns the scalar machine state. Callers that modify it must
// record the change with Notify.
func (s *Store) Machine() *Machine { return &s.machine }

// Notify records a change.
func (s *Store) Notify(kind ChangeKind, index int) {
	s.changes.add(Change{Kind: kind, Index: index})
}

// TakeChanges returns and clears the changes recorded since the last call.
func (s *Store) TakeChanges() []Change {
	return s.changes.take()
}

func update[T any](s *Store, l *List[T], index int, kind ChangeKind, fn func(*T)) *T {
	if index < 0 {
		return nil
	}
	item, _ := l.GetOrCreate(index)
	fn(item)
	s.Notify(kind, index)
	return item
}

func (s *Store) remove(l interface{ Remove(int, bool) []int }, index int, following bool, kind ChangeKind) []int {
	removed := l.Remove(index, following)
	for _, i := range removed {
		s.Notify(kind, i)
	}
	return removed
}

// Axes

func (s *Store) updateAxis(index int, fn func(*Axis)) {
	if index >= MaxTotalAxes {
		return
	}
	update(s, s.axes, index, ChangeAxis, fn)
}

// SetAxisLetter sets the axis letter.
func (s *Store) SetAxisLetter(index int, letter byte) {
	s.updateAxis(index, func(a *Axis) { a.Letter = letter })
}

// SetAxisVisible sets axis visibility.
func (s *Store) SetAxisVisible(index int, visible bool) {
	s.updateAxis(index, func(a *Axis) { a.Visible = visible })
}

// SetAxisHomed sets the homed flag.
func (s *Store) SetAxisHomed(index int, homed bool) {
	s.updateAxis(index, func(a *Axis) { a.Homed = homed })
}

// SetAxisBabystep sets the babystep offset.
func (s *Store) SetAxisBabystep(index int, v float32) {
	s.updateAxis(index, func(a *Axis) { a.Babystep = v })
}

// SetAxisWorkplaceOffset sets the offset of one coordinate system.
func (s *Store) SetAxisWorkplaceOffset(index, workplace int, v float32) {
	if workplace < 0 || workplace >= MaxTotalWorkplaces {
		return
	}
	s.updateAxis(index, func(a *Axis) { a.WorkplaceOffsets[workplace] = v })
}

// SetAxisUserPosition sets the user coordinate position of an existing
// axis. Live positions never create axes.
func (s *Store) SetAxisUserPosition(index int, v float32) {
	if a := s.axes.Get(index); a != nil {
		a.UserPosition = v
		s.Notify(ChangeAxis, index)
	}
}

// SetAxisMachinePosition sets the machine coordinate position of an
// existing axis.
func (s *Store) SetAxisMachinePosition(index int, v float32) {
	if a := s.axes.Get(index); a != nil {
		a.MachinePosition = v
		s.Notify(ChangeAxis, index)
	}
}

// RemoveAxis removes one axis or, with following, all axes from index on.
func (s *Store) RemoveAxis(index int, following bool) []int {
	return s.remove(s.axes, index, following, ChangeAxisRemoved)
}

// AxisInSlot returns the axis shown in a primary display row, or nil.
func (s *Store) AxisInSlot(slot int) *Axis {
	return s.axes.Find(func(a *Axis) bool { return a.Slot == slot })
}

// Tools

// EnsureTool creates the tool if it does not exist yet.
func (s *Store) EnsureTool(index int) *Tool {
	t, created := s.tools.GetOrCreate(index)
	if created {
		s.Notify(ChangeTool, index)
	}
	return t
}

// SetToolHeater sets the first heater of a tool, NoIndex for none.
func (s *Store) SetToolHeater(index, heater int) {
	update(s, s.tools, index, ChangeTool, func(t *Tool) { t.Heater = heater })
}

// SetToolExtruder sets the first extruder of a tool, NoIndex for none.
func (s *Store) SetToolExtruder(index, extruder int) {
	update(s, s.tools, index, ChangeTool, func(t *Tool) { t.Extruder = extruder })
}

// SetToolOffset sets the tool offset along one axis.
func (s *Store) SetToolOffset(index, axis int, v float32) {
	if axis < 0 || axis >= MaxTotalAxes {
		return
	}
	update(s, s.tools, index, ChangeTool, func(t *Tool) { t.Offsets[axis] = v })
}

// SetToolStatus sets the status of an existing tool. Unknown tools are
// ignored.
func (s *Store) SetToolStatus(index int, status wire.ToolStatus) {
	if t := s.tools.Get(index); t != nil {
		t.Status = status
		s.Notify(ChangeTool, index)
	}
}

// RemoveTool removes one tool or, with following, all tools from index on.
func (s *Store) RemoveTool(index int, following bool) []int {
	return s.remove(s.tools, index, following, ChangeToolRemoved)
}

// ToolForHeater returns the first tool using heater, or nil.
func (s *Store) ToolForHeater(heater int) *Tool {
	return s.tools.Find(func(t *Tool) bool { return t.Heater == heater })
}

// ToolForExtruder returns the first tool using extruder, or nil.
func (s *Store) ToolForExtruder(extruder int) *Tool {
	return s.tools.Find(func(t *Tool) bool { return t.Extruder == extruder })
}

// CurrentTool returns the selected tool, or nil.
func (s *Store) CurrentTool() *Tool {
	if s.machine.CurrentTool < 0 {
		return nil
	}
	return s.tools.Get(s.machine.CurrentTool)
}

// Spindles

// SetSpindleActive sets the commanded spindle speed.
func (s *Store) SetSpindleActive(index int, rpm uint32) {
	update(s, s.spindles, index, ChangeSpindle, func(sp *Spindle) { sp.Active = rpm })
}

// SetSpindleMax sets the maximum spindle speed.
func (s *Store) SetSpindleMax(index int, rpm uint32) {
	update(s, s.spindles, index, ChangeSpindle, func(sp *Spindle) { sp.Max = rpm })
}

// SetSpindleCurrent sets the measured spindle speed.
func (s *Store) SetSpindleCurrent(index int, rpm uint32) {
	update(s, s.spindles, index, ChangeSpindle, func(sp *Spindle) { sp.Current = rpm })
}

// SetSpindleTool binds a spindle to a tool. With tool NoIndex every tool
// that referenced the spindle loses the reference; otherwise the tool is
// created if needed and points back at the spindle.
func (s *Store) SetSpindleTool(spindle, tool int) {
	if spindle < 0 {
		return
	}
	update(s, s.spindles, spindle, ChangeSpindle, func(sp *Spindle) { sp.Tool = tool })
	if tool < 0 {
		s.unbindSpindle(spindle)
		return
	}
	update(s, s.tools, tool, ChangeTool, func(t *Tool) { t.Spindle = spindle })
}

func (s *Store) unbindSpindle(spindle int) {
	s.tools.Each(func(t *Tool) {
		if t.Spindle == spindle {
			t.Spindle = NoIndex
			s.Notify(ChangeTool, t.Index)
		}
	})
}

// RemoveSpindle removes one spindle or, with following, all spindles from
// index on. Tools driven by a removed spindle lose the reference.
func (s *Store) RemoveSpindle(index int, following bool) []int {
	removed := s.remove(s.spindles, index, following, ChangeSpindleRemoved)
	for _, i := range removed {
		s.unbindSpindle(i)
	}
	return removed
}

// SpindleForTool returns the spindle bound to tool, or nil.
func (s *Store) SpindleForTool(tool int) *Spindle {
	return s.spindles.Find(func(sp *Spindle) bool { return sp.Tool == tool })
}

// Beds and chambers

// SetBedHeater sets the heater of a bed.
func (s *Store) SetBedHeater(index, heater int) {
	update(s, s.beds, index, ChangeBed, func(b *BedOrChamber) { b.Heater = heater })
}

// SetChamberHeater sets the heater of a chamber.
func (s *Store) SetChamberHeater(index, heater int) {
	update(s, s.chambers, index, ChangeChamber, func(c *BedOrChamber) { c.Heater = heater })
}

// RemoveBed removes one bed or, with following, all beds from index on.
func (s *Store) RemoveBed(index int, following bool) []int {
	return s.remove(s.beds, index, following, ChangeBedRemoved)
}

// RemoveChamber removes one chamber or, with following, all from index on.
func (s *Store) RemoveChamber(index int, following bool) []int {
	return s.remove(s.chambers, index, following, ChangeChamberRemoved)
}

// ResetBedsAndChambers drops all beds and chambers. Used after a controller
// restart, since the heat response only ever reports the heaters present.
func (s *Store) ResetBedsAndChambers() {
	s.RemoveBed(0, true)
	s.RemoveChamber(0, true)
}

// BedForHeater returns the bed using heater, or nil.
func (s *Store) BedForHeater(heater int) *BedOrChamber {
	return s.beds.Find(func(b *BedOrChamber) bool { return b.Heater == heater })
}

// ChamberForHeater returns the chamber using heater, or nil.
func (s *Store) ChamberForHeater(heater int) *BedOrChamber {
	return s.chambers.Find(func(c *BedOrChamber) bool { return c.Heater == heater })
}

// Heaters

// SetHeaterActive sets the active temperature.
func (s *Store) SetHeaterActive(index int, v int32) {
	update(s, s.heaters, index, ChangeHeater, func(h *Heater) { h.Active = v })
}

// SetHeaterStandby sets the standby temperature.
func (s *Store) SetHeaterStandby(index int, v int32) {
	update(s, s.heaters, index, ChangeHeater, func(h *Heater) { h.Standby = v })
}

// SetHeaterCurrent sets the measured temperature.
func (s *Store) SetHeaterCurrent(index int, v float32) {
	update(s, s.heaters, index, ChangeHeater, func(h *Heater) { h.Current = v })
}

// SetHeaterStatus sets the heater state.
func (s *Store) SetHeaterStatus(index int, status wire.HeaterStatus) {
	update(s, s.heaters, index, ChangeHeater, func(h *Heater) { h.Status = status })
}

// HeaterSlot returns the primary display column showing heater, checking
// beds, then chambers, then tools. It returns -1 if none shows it.
func (s *Store) HeaterSlot(heater int) int {
	if b := s.BedForHeater(heater); b != nil {
		return b.Slot
	}
	if c := s.ChamberForHeater(heater); c != nil {
		return c.Slot
	}
	if t := s.ToolForHeater(heater); t != nil {
		return t.Slot
	}
	return -1
}

// Reset drops every entity and restores the initial machine state.
func (s *Store) Reset() {
	s.RemoveAxis(0, true)
	s.RemoveTool(0, true)
	s.RemoveSpindle(0, true)
	s.ResetBedsAndChambers()
	for _, i := range s.heaters.Clear() {
		s.Notify(ChangeHeater, i)
	}
	s.machine = newMachine()
	s.Notify(ChangeMachine, 0)
}

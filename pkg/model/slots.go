package model

// SlotOwner identifies the kind of entity occupying a display slot.
type SlotOwner uint8

const (
	SlotTool SlotOwner = iota
	SlotBed
	SlotChamber
)

// String returns the owner name.
func (o SlotOwner) String() string {
	switch o {
	case SlotTool:
		return "TOOL"
	case SlotBed:
		return "BED"
	case SlotChamber:
		return "CHAMBER"
	default:
		return "UNKNOWN"
	}
}

// SlotEntry is the occupant of one slot.
type SlotEntry struct {
	Owner SlotOwner
	Index int
}

// SlotMap lists the occupants of each display area in slot order.
type SlotMap struct {
	Primary    []SlotEntry
	PendantJog []SlotEntry
	PendantJob []SlotEntry
}

// AssignToolSlots packs the first bed, all tools and the first chamber into
// the display slots and records the result on each entity.
//
// The probe tool, if present, takes pendant jog slot 0. The first bed with a
// heater comes first in the primary and pendant job areas, tools follow in
// index order, and the first chamber is appended if room remains. Tools past
// the primary capacity keep Slot == MaxHeaters and are not shown. Only tools
// with a heater appear on the pendant job page.
func (s *Store) AssignToolSlots() SlotMap {
	var m SlotMap

	if probe := s.tools.Get(ProbeToolIndex); probe != nil {
		m.PendantJog = append(m.PendantJog, SlotEntry{Owner: SlotTool, Index: ProbeToolIndex})
	}

	s.beds.Each(func(b *BedOrChamber) {
		b.Slot, b.SlotPJob = MaxHeaters, MaxPendantTools
	})
	s.chambers.Each(func(c *BedOrChamber) {
		c.Slot, c.SlotPJob = MaxHeaters, MaxPendantTools
	})

	if bed := s.beds.First(); bed != nil {
		s.placeBedOrChamber(&m, bed, SlotBed)
	}

	s.tools.Each(func(t *Tool) {
		t.Slot = min(len(m.Primary), MaxHeaters)
		if len(m.Primary) < MaxHeaters {
			m.Primary = append(m.Primary, SlotEntry{Owner: SlotTool, Index: t.Index})
		}
		t.SlotPJog, t.SlotPJob = MaxPendantTools, MaxPendantTools
		if t.Index == ProbeToolIndex {
			t.SlotPJog = 0
			return
		}
		if len(m.PendantJog) < MaxPendantTools {
			t.SlotPJog = len(m.PendantJog)
			m.PendantJog = append(m.PendantJog, SlotEntry{Owner: SlotTool, Index: t.Index})
		}
		if len(m.PendantJob) < MaxPendantTools && t.HasHeater() {
			t.SlotPJob = len(m.PendantJob)
			m.PendantJob = append(m.PendantJob, SlotEntry{Owner: SlotTool, Index: t.Index})
		}
	})

	if chamber := s.chambers.First(); chamber != nil {
		s.placeBedOrChamber(&m, chamber, SlotChamber)
	}

	s.Notify(ChangeToolSlots, 0)
	return m
}

func (s *Store) placeBedOrChamber(m *SlotMap, bc *BedOrChamber, owner SlotOwner) {
	if bc.Heater <= NoIndex {
		return
	}
	if len(m.Primary) < MaxHeaters {
		bc.Slot = len(m.Primary)
		m.Primary = append(m.Primary, SlotEntry{Owner: owner, Index: bc.Index})
	}
	if len(m.PendantJob) < MaxPendantTools {
		bc.SlotPJob = len(m.PendantJob)
		m.PendantJob = append(m.PendantJob, SlotEntry{Owner: owner, Index: bc.Index})
	}
}

// AssignAxisSlots assigns display rows to the visible axes in index order.
// The first MaxDisplayableAxes visible axes get a primary row; visible axes
// whose letter is a jog axis get a pendant row while rows remain. All other
// axes get MaxTotalAxes. It returns the number of primary rows used.
func (s *Store) AssignAxisSlots() int {
	slot, slotP := 0, 0
	s.axes.Each(func(a *Axis) {
		a.Slot, a.SlotP = MaxTotalAxes, MaxTotalAxes
		if !a.Visible {
			return
		}
		if slot < MaxDisplayableAxes {
			a.Slot = slot
			slot++
		}
		if IsJogAxis(a.Letter) && slotP < MaxDisplayableAxesP {
			a.SlotP = slotP
			slotP++
		}
	})
	s.Notify(ChangeGeometry, 0)
	return slot
}

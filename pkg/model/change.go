package model

import "slices"

// ChangeKind identifies what changed in the store.
type ChangeKind uint8

const (
	ChangeAxis ChangeKind = iota
	ChangeAxisRemoved
	ChangeTool
	ChangeToolRemoved
	ChangeSpindle
	ChangeSpindleRemoved
	ChangeBed
	ChangeBedRemoved
	ChangeChamber
	ChangeChamberRemoved
	ChangeHeater

	// ChangeToolSlots follows a complete tools or spindles response after
	// the tool display slots were reassigned.
	ChangeToolSlots

	// ChangeGeometry follows a change of the visible axes or kinematics.
	ChangeGeometry

	ChangeStatus
	ChangeCurrentTool
	ChangeJob
	ChangeMachine
	ChangeAlertRaised
	ChangeAlertCleared
	ChangeMessage
	ChangeBeep
	ChangeFileList
	ChangeFileInfo

	// ChangeResync is recorded once when a controller restart was detected.
	ChangeResync
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAxis:
		return "AXIS"
	case ChangeAxisRemoved:
		return "AXIS_REMOVED"
	case ChangeTool:
		return "TOOL"
	case ChangeToolRemoved:
		return "TOOL_REMOVED"
	case ChangeSpindle:
		return "SPINDLE"
	case ChangeSpindleRemoved:
		return "SPINDLE_REMOVED"
	case ChangeBed:
		return "BED"
	case ChangeBedRemoved:
		return "BED_REMOVED"
	case ChangeChamber:
		return "CHAMBER"
	case ChangeChamberRemoved:
		return "CHAMBER_REMOVED"
	case ChangeHeater:
		return "HEATER"
	case ChangeToolSlots:
		return "TOOL_SLOTS"
	case ChangeGeometry:
		return "GEOMETRY"
	case ChangeStatus:
		return "STATUS"
	case ChangeCurrentTool:
		return "CURRENT_TOOL"
	case ChangeJob:
		return "JOB"
	case ChangeMachine:
		return "MACHINE"
	case ChangeAlertRaised:
		return "ALERT_RAISED"
	case ChangeAlertCleared:
		return "ALERT_CLEARED"
	case ChangeMessage:
		return "MESSAGE"
	case ChangeBeep:
		return "BEEP"
	case ChangeFileList:
		return "FILE_LIST"
	case ChangeFileInfo:
		return "FILE_INFO"
	case ChangeResync:
		return "RESYNC"
	default:
		return "UNKNOWN"
	}
}

// Change describes one modification. Index is the entity index for entity
// changes and 0 otherwise.
type Change struct {
	Kind  ChangeKind
	Index int
}

// Subscriber receives store changes.
type Subscriber interface {
	// OnModelChange is called once per distinct change after each tick.
	OnModelChange(c Change)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(c Change)

// OnModelChange calls f(c).
func (f SubscriberFunc) OnModelChange(c Change) {
	f(c)
}

// changeSet collects distinct changes. A repeated change moves to its latest
// position so that the delivered order ends with the most recent state of
// each entity.
type changeSet struct {
	order []Change
	pos   map[Change]int
}

func (cs *changeSet) add(c Change) {
	if cs.pos == nil {
		cs.pos = make(map[Change]int)
	}
	if i, ok := cs.pos[c]; ok {
		if i == len(cs.order)-1 {
			return
		}
		cs.order = slices.Delete(cs.order, i, i+1)
		for j := i; j < len(cs.order); j++ {
			cs.pos[cs.order[j]] = j
		}
	}
	cs.pos[c] = len(cs.order)
	cs.order = append(cs.order, c)
}

func (cs *changeSet) take() []Change {
	out := cs.order
	cs.order = nil
	clear(cs.pos)
	return out
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paneldue/paneldue-go/pkg/wire"
)

func TestCreateOnReference(t *testing.T) {
	s := NewStore()

	s.SetToolHeater(2, 1)
	tool := s.Tools().Get(2)
	require.NotNil(t, tool)
	assert.Equal(t, 1, tool.Heater)
	assert.Equal(t, NoIndex, tool.Extruder)
	assert.Equal(t, MaxHeaters, tool.Slot)

	s.SetAxisLetter(MaxTotalAxes, 'D')
	assert.Equal(t, 0, s.Axes().Len(), "axis indices beyond MaxTotalAxes are ignored")

	s.SetToolStatus(7, wire.ToolStatusActive)
	assert.Nil(t, s.Tools().Get(7), "status updates do not create tools")
}

func TestSetSpindleTool(t *testing.T) {
	s := NewStore()

	s.SetSpindleTool(0, 3)
	require.NotNil(t, s.Tools().Get(3))
	assert.Equal(t, 0, s.Tools().Get(3).Spindle)
	assert.Equal(t, 3, s.SpindleForTool(3).Index)

	s.SetSpindleTool(0, NoIndex)
	assert.Equal(t, NoIndex, s.Tools().Get(3).Spindle)
	assert.Nil(t, s.SpindleForTool(3))
}

func TestRemoveSpindleClearsToolReference(t *testing.T) {
	s := NewStore()
	s.SetSpindleTool(1, 0)
	s.SetSpindleTool(2, 1)

	removed := s.RemoveSpindle(1, true)

	assert.Equal(t, []int{1, 2}, removed)
	assert.Equal(t, NoIndex, s.Tools().Get(0).Spindle)
	assert.Equal(t, NoIndex, s.Tools().Get(1).Spindle)
}

func TestHeaterLookups(t *testing.T) {
	s := NewStore()
	s.SetBedHeater(0, 0)
	s.SetChamberHeater(0, 3)
	s.SetToolHeater(0, 1)
	s.SetToolExtruder(0, 0)
	s.AssignToolSlots()

	assert.Equal(t, 0, s.BedForHeater(0).Index)
	assert.Equal(t, 0, s.ChamberForHeater(3).Index)
	assert.Equal(t, 0, s.ToolForHeater(1).Index)
	assert.Equal(t, 0, s.ToolForExtruder(0).Index)
	assert.Nil(t, s.ToolForHeater(2))

	assert.Equal(t, 0, s.HeaterSlot(0))
	assert.Equal(t, 1, s.HeaterSlot(1))
	assert.Equal(t, 2, s.HeaterSlot(3))
	assert.Equal(t, -1, s.HeaterSlot(9))
}

func TestResetBedsAndChambers(t *testing.T) {
	s := NewStore()
	s.SetBedHeater(0, 0)
	s.SetBedHeater(1, 4)
	s.SetChamberHeater(0, 2)

	s.ResetBedsAndChambers()

	assert.Equal(t, 0, s.Beds().Len())
	assert.Equal(t, 0, s.Chambers().Len())
}

func TestChangesAreCoalesced(t *testing.T) {
	s := NewStore()
	s.SetHeaterActive(0, 200)
	s.SetHeaterStandby(0, 150)
	s.SetHeaterActive(1, 60)
	s.RemoveTool(5, false)

	changes := s.TakeChanges()
	assert.Equal(t, []Change{{Kind: ChangeHeater, Index: 0}, {Kind: ChangeHeater, Index: 1}}, changes)
	assert.Empty(t, s.TakeChanges())
}

func TestChangesKeepLatestOrder(t *testing.T) {
	s := NewStore()
	s.SetToolHeater(1, 0)
	s.RemoveTool(1, false)
	s.SetToolHeater(1, 2)
	s.RemoveTool(1, false)

	assert.Equal(t, []Change{{Kind: ChangeTool, Index: 1}, {Kind: ChangeToolRemoved, Index: 1}}, s.TakeChanges())
	assert.Nil(t, s.Tools().Get(1))

	s.SetToolHeater(1, 0)
	s.RemoveTool(1, false)
	s.SetToolHeater(1, 3)
	assert.Equal(t, []Change{{Kind: ChangeToolRemoved, Index: 1}, {Kind: ChangeTool, Index: 1}}, s.TakeChanges())
	require.NotNil(t, s.Tools().Get(1))
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.SetAxisLetter(0, 'X')
	s.SetToolHeater(0, 1)
	s.SetHeaterCurrent(1, 21.5)
	s.Machine().CurrentTool = 0

	s.Reset()

	assert.Equal(t, 0, s.Axes().Len())
	assert.Equal(t, 0, s.Tools().Len())
	assert.Equal(t, 0, s.Heaters().Len())
	assert.Equal(t, NoIndex, s.Machine().CurrentTool)
	assert.Equal(t, wire.PrinterStatusConnecting, s.Machine().Status)
}

package model

// Capacity and layout limits.
const (
	// MaxTotalAxes is the number of axes the panel can name (X Y Z U V W A B C D).
	MaxTotalAxes = 10

	// MinAxes is the smallest number of visible axes shown.
	MinAxes = 2

	// MaxHeaters is the number of primary heater/tool columns.
	MaxHeaters = 7

	// MaxPendantTools is the number of tool slots on each pendant page.
	MaxPendantTools = 6

	// MaxDisplayableAxes is the number of axis rows on the primary screens.
	MaxDisplayableAxes = 6

	// MaxDisplayableAxesP is the number of axis rows on the pendant screens.
	MaxDisplayableAxesP = 5

	// ProbeToolIndex is the tool number reserved for a touch probe. It is
	// pinned to the first pendant jog slot.
	ProbeToolIndex = 10

	// MaxTotalWorkplaces is the number of coordinate systems (G54 to G59.3).
	MaxTotalWorkplaces = 9

	// MaxTools bounds the tool list capacity hint.
	MaxTools = 32

	// MaxSpindles bounds the spindle list capacity hint.
	MaxSpindles = 8

	// MaxBedsOrChambers bounds the bed and chamber list capacity hints.
	MaxBedsOrChambers = 4

	// MaxHeaterNumbers bounds the heater list capacity hint.
	MaxHeaterNumbers = 32
)

// AxisNames are the axis letters in index order.
var AxisNames = [MaxTotalAxes]string{"X", "Y", "Z", "U", "V", "W", "A", "B", "C", "D"}

// JogAxes are the axis letters shown on the pendant pages.
var JogAxes = [MaxDisplayableAxesP]byte{'X', 'Y', 'Z', 'A', 'C'}

// WorkplaceNames are the coordinate system names by workplace number.
var WorkplaceNames = [MaxTotalWorkplaces]string{"G54", "G55", "G56", "G57", "G58", "G59", "G59.1", "G59.2", "G59.3"}

// IsJogAxis reports whether an axis letter is shown on the pendant pages.
func IsJogAxis(letter byte) bool {
	for _, l := range JogAxes {
		if l == letter {
			return true
		}
	}
	return false
}

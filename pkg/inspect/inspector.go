package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paneldue/paneldue-go/pkg/model"
)

// ErrNotFound indicates the selected entity does not exist.
var ErrNotFound = errors.New("not found")

// Viewer gives locked access to a store. *link.Session implements it.
type Viewer interface {
	View(fn func(store *model.Store))
}

// Inspector answers selector queries against a live store.
type Inspector struct {
	viewer Viewer
}

// NewInspector creates an inspector reading through viewer.
func NewInspector(viewer Viewer) *Inspector {
	return &Inspector{viewer: viewer}
}

// Snapshot copies the current store contents.
func (i *Inspector) Snapshot() Snapshot {
	var snap Snapshot
	i.viewer.View(func(store *model.Store) {
		snap = TakeSnapshot(store)
	})
	return snap
}

// Inspect formats the part of the model selected by path.
func (i *Inspector) Inspect(path *Path, f *Formatter) (string, error) {
	snap := i.Snapshot()

	switch path.Section {
	case SectionMachine:
		return f.FormatMachine(snap.Machine, snap.Job), nil
	case SectionJob:
		return f.FormatRows(1, []Row{
			{"file", snap.Job.FileName},
			{"size", f.FormatValue(snap.Job.FileSize, "bytes")},
			{"progress", f.FormatValue(snap.Job.Progress, "%")},
			{"file left", FormatTimeLeft(snap.Job.FileLeft)},
			{"filament left", FormatTimeLeft(snap.Job.Filament)},
			{"layer left", FormatTimeLeft(snap.Job.Layer)},
		}), nil
	case SectionFiles:
		var sb strings.Builder
		sb.WriteString(f.Indent(1, snap.Files.Dir) + "\n")
		for _, name := range snap.Files.Files {
			sb.WriteString(f.Indent(2, name) + "\n")
		}
		return sb.String(), nil
	}

	index := -1
	if path.HasIndex {
		index = path.Index
	}
	lines := f.sectionLines(snap, path.Section, index)
	if len(lines) == 0 {
		if path.HasIndex {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return f.Indent(1, "(none)") + "\n", nil
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(f.Indent(1, l) + "\n")
	}
	return sb.String(), nil
}

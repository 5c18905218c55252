package pinout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/schodet/pinmap/pkg/cubemx"
)

// AdditionalColumn is the header of the AF table column listing signals
// available without AF selection.
const AdditionalColumn = "Additional"

// Table is a pin out table: one row per pin.
type Table struct {
	Mode   cubemx.GpioMode
	Header []string
	Rows   []Row
}

// Row is the line of a single pin. Cells are aligned with Header minus the
// two leading pin columns; each cell holds zero or more signal names
// separated by a space.
type Row struct {
	Pin      string
	Position string
	Cells    []string
}

// Records returns the table as string records, with the header first when
// withHeader is set.
func (t *Table) Records(withHeader bool) [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	if withHeader {
		records = append(records, t.Header)
	}
	for _, row := range t.Rows {
		rec := make([]string, 0, len(row.Cells)+2)
		rec = append(rec, row.Pin, row.Position)
		rec = append(rec, row.Cells...)
		records = append(records, rec)
	}
	return records
}

// Build produces the pin out table of a part. The table shape follows the
// part GPIO mode. filter may be nil to keep signal names as declared.
func Build(part *cubemx.Part, filter *SignalFilter) (*Table, error) {
	switch part.Mode {
	case cubemx.ModeAF:
		return buildAF(part, filter)
	case cubemx.ModeRemap:
		return buildRemap(part, filter)
	default:
		return nil, fmt.Errorf("pinout: unsupported GPIO mode %v", part.Mode)
	}
}

// buildAF lays out one column per AF number and a last column for
// additional functions.
func buildAF(part *cubemx.Part, filter *SignalFilter) (*Table, error) {
	const columns = cubemx.MaxAF + 2

	header := make([]string, 0, columns+2)
	header = append(header, "Pin", "Position")
	for af := 0; af <= cubemx.MaxAF; af++ {
		header = append(header, "AF"+strconv.Itoa(af))
	}
	header = append(header, AdditionalColumn)

	t := &Table{Mode: cubemx.ModeAF, Header: header, Rows: make([]Row, 0, len(part.Pins))}
	for _, pin := range part.Pins {
		var slots [columns][]string
		for _, sig := range pin.Signals {
			var index int
			switch sig.Map.Kind {
			case cubemx.MapAF:
				if sig.Map.AF < 0 || sig.Map.AF > cubemx.MaxAF {
					return nil, fmt.Errorf("pinout: %s %s: AF%d out of range", pin.Name, sig.Name, sig.Map.AF)
				}
				index = sig.Map.AF
			case cubemx.MapAdditional:
				index = columns - 1
			default:
				return nil, fmt.Errorf("pinout: %s %s: %v mapping on an AF part", pin.Name, sig.Name, sig.Map.Kind)
			}
			slots[index] = append(slots[index], sig.Name)
		}

		row := Row{Pin: pin.Name, Position: pin.Position, Cells: make([]string, columns)}
		for i, signals := range slots {
			row.Cells[i] = strings.Join(filter.Apply(signals), " ")
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// buildRemap groups signals by peripheral, one column per peripheral found
// on the part.
func buildRemap(part *cubemx.Part, filter *SignalFilter) (*Table, error) {
	type line struct {
		pin, position string
		byCategory    map[string][]string
	}
	lines := make([]line, 0, len(part.Pins))
	categories := make(map[string]bool)

	for _, pin := range part.Pins {
		rendered := make([]string, 0, len(pin.Signals))
		for _, sig := range pin.Signals {
			switch sig.Map.Kind {
			case cubemx.MapRemap:
				rendered = append(rendered, RemapLabel(sig.Name, sig.Map.Remaps))
			case cubemx.MapAdditional:
				rendered = append(rendered, sig.Name)
			default:
				return nil, fmt.Errorf("pinout: %s %s: %v mapping on a remap part", pin.Name, sig.Name, sig.Map.Kind)
			}
		}

		l := line{pin: pin.Name, position: pin.Position, byCategory: make(map[string][]string)}
		for _, s := range filter.Apply(rendered) {
			cat := Category(s)
			categories[cat] = true
			l.byCategory[cat] = append(l.byCategory[cat], s)
		}
		lines = append(lines, l)
	}

	sorted := make([]string, 0, len(categories))
	for cat := range categories {
		sorted = append(sorted, cat)
	}
	sort.Strings(sorted)

	header := make([]string, 0, len(sorted)+2)
	header = append(header, "Pin", "Position")
	header = append(header, sorted...)

	t := &Table{Mode: cubemx.ModeRemap, Header: header, Rows: make([]Row, 0, len(lines))}
	for _, l := range lines {
		row := Row{Pin: l.pin, Position: l.position, Cells: make([]string, len(sorted))}
		for i, cat := range sorted {
			row.Cells[i] = strings.Join(l.byCategory[cat], " ")
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// RemapLabel renders a remapped signal as NAME(r1,r2) with sorted remap
// numbers.
func RemapLabel(name string, remaps []int) string {
	sorted := append([]int(nil), remaps...)
	sort.Ints(sorted)
	nums := make([]string, len(sorted))
	for i, r := range sorted {
		nums[i] = strconv.Itoa(r)
	}
	return name + "(" + strings.Join(nums, ",") + ")"
}

// Category returns the peripheral part of a signal name: the text before
// the first underscore.
func Category(signal string) string {
	cat, _, _ := strings.Cut(signal, "_")
	return cat
}

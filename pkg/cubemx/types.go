package cubemx

import "fmt"

// GpioMode is the pin muxing scheme of a part.
type GpioMode int

const (
	// ModeAF is the alternate function scheme: each pin selects one of 16
	// numbered functions.
	ModeAF GpioMode = iota
	// ModeRemap is the older scheme of STM32F1 parts, where a peripheral is
	// moved as a whole between a few fixed pin sets.
	ModeRemap
)

func (m GpioMode) String() string {
	switch m {
	case ModeAF:
		return "AF"
	case ModeRemap:
		return "REMAP"
	default:
		return fmt.Sprintf("GpioMode(%d)", int(m))
	}
}

// MapKind tells how a signal is routed to a pin.
type MapKind int

const (
	// MapAdditional marks a signal available without any AF or remap setup
	// (analog inputs, wake-up, oscillator pins).
	MapAdditional MapKind = iota
	// MapAF marks a signal selected through an alternate function number.
	MapAF
	// MapRemap marks a signal available under one or more remap settings.
	MapRemap
)

func (k MapKind) String() string {
	switch k {
	case MapAdditional:
		return "additional"
	case MapAF:
		return "af"
	case MapRemap:
		return "remap"
	default:
		return fmt.Sprintf("MapKind(%d)", int(k))
	}
}

// MaxAF is the highest alternate function number.
const MaxAF = 15

// SignalMap describes how to route a signal to a pin.
type SignalMap struct {
	Kind   MapKind
	AF     int   // valid when Kind == MapAF
	Remaps []int // valid when Kind == MapRemap, in document order
}

// Signal is a peripheral line that can be routed to a pin.
type Signal struct {
	Name string // e.g., "USART1_TX"
	Map  SignalMap
}

// Pin is a physical pin of the package.
type Pin struct {
	Name     string // e.g., "PA0-WKUP"
	Position string // pin number, or ball name on BGA packages ("A1")
	Type     string // "I/O", "Power", "Reset", ...
	Signals  []Signal
}

// Part is a single orderable microcontroller as described by the database.
type Part struct {
	Name        string // database file stem
	RefName     string
	Line        string
	Package     string
	Family      string
	Core        string
	Frequency   string   // MHz
	Ram         []string // kB, one entry per variant
	Flash       []string // kB, one entry per variant
	GPIOVersion string
	Mode        GpioMode
	Pins        []Pin
}

// Summary returns the one-line description used by part listings.
func (p *Part) Summary() string {
	return fmt.Sprintf("%s: %s %s", p.Name, p.Line, p.Package)
}

// SignalNames returns every distinct signal name of the part, in order of
// first appearance.
func (p *Part) SignalNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, pin := range p.Pins {
		for _, sig := range pin.Signals {
			if !seen[sig.Name] {
				seen[sig.Name] = true
				names = append(names, sig.Name)
			}
		}
	}
	return names
}

// SignalCounts returns how many (pin, signal) pairs exist for each mapping
// kind.
func (p *Part) SignalCounts() map[MapKind]int {
	counts := make(map[MapKind]int)
	for _, pin := range p.Pins {
		for _, sig := range pin.Signals {
			counts[sig.Map.Kind]++
		}
	}
	return counts
}

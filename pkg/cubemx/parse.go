package cubemx

import (
	"strconv"
	"strings"
)

const (
	gpioSignalName = "GPIO"
	afValuePrefix  = "GPIO_AF"
	remapMarker    = "REMAP"
)

// ParsePart decodes a part document. The returned part has every signal
// marked as an additional function; ApplyGPIOModes fills in the mapping.
//
// name is the database file stem of the part.
func ParsePart(name string, data []byte) (*Part, error) {
	var doc mcuElement
	if err := decodeXML(data, &doc); err != nil {
		return nil, err
	}

	line, err := requireAttr("Mcu", doc.Attrs, "Line")
	if err != nil {
		return nil, err
	}
	pkg, err := requireAttr("Mcu", doc.Attrs, "Package")
	if err != nil {
		return nil, err
	}
	refName, _ := attr(doc.Attrs, "RefName")
	family, _ := attr(doc.Attrs, "Family")

	part := &Part{
		Name:      name,
		RefName:   refName,
		Line:      line,
		Package:   pkg,
		Family:    family,
		Core:      strings.TrimSpace(doc.Core),
		Frequency: strings.TrimSpace(doc.Frequency),
		Ram:       trimAll(doc.Ram),
		Flash:     trimAll(doc.Flash),
	}

	// GPIO block version selects the modes document
	for _, ip := range doc.IPs {
		if v, _ := attr(ip.Attrs, "Name"); v != gpioSignalName {
			continue
		}
		part.GPIOVersion, err = requireAttr("IP", ip.Attrs, "Version")
		if err != nil {
			return nil, err
		}
		break
	}
	if part.GPIOVersion == "" {
		return nil, malformedf("Mcu missing GPIO IP")
	}

	part.Pins = make([]Pin, 0, len(doc.Pins))
	for _, p := range doc.Pins {
		pin, err := parsePin(p)
		if err != nil {
			return nil, err
		}
		part.Pins = append(part.Pins, pin)
	}
	return part, nil
}

func parsePin(p pinElement) (Pin, error) {
	name, err := requireAttr("Pin", p.Attrs, "Name")
	if err != nil {
		return Pin{}, err
	}
	position, err := requireAttr("Pin", p.Attrs, "Position")
	if err != nil {
		return Pin{}, err
	}
	typ, _ := attr(p.Attrs, "Type")

	pin := Pin{Name: name, Position: position, Type: typ}
	for _, s := range p.Signals {
		sigName, err := requireAttr("Signal", s.Attrs, "Name")
		if err != nil {
			return Pin{}, err
		}
		if sigName == gpioSignalName {
			continue
		}
		pin.Signals = append(pin.Signals, Signal{
			Name: sigName,
			Map:  SignalMap{Kind: MapAdditional},
		})
	}
	return pin, nil
}

// GPIOModes holds the decoded GPIO modes document: for each pin name, the
// mapping of each of its signals.
type GPIOModes struct {
	Mode GpioMode
	pins map[string]map[string]SignalMap
}

// Lookup returns the mapping of a signal on a pin, if the document declares
// one.
func (g *GPIOModes) Lookup(pin, signal string) (SignalMap, bool) {
	signals, ok := g.pins[pin]
	if !ok {
		return SignalMap{}, false
	}
	m, ok := signals[signal]
	return m, ok
}

// ParseGPIOModes decodes a GPIO modes document. The mapping scheme is taken
// from the first signal: remap if it carries a RemapBlock, AF otherwise.
func ParseGPIOModes(data []byte) (*GPIOModes, error) {
	var doc gpioModesElement
	if err := decodeXML(data, &doc); err != nil {
		return nil, err
	}

	modes := &GPIOModes{
		Mode: ModeAF,
		pins: make(map[string]map[string]SignalMap, len(doc.Pins)),
	}
	decided := false
	for _, p := range doc.Pins {
		pinName, err := requireAttr("GPIO_Pin", p.Attrs, "Name")
		if err != nil {
			return nil, err
		}
		signals := make(map[string]SignalMap, len(p.Signals))
		for _, s := range p.Signals {
			if !decided {
				if len(s.RemapBlocks) > 0 {
					modes.Mode = ModeRemap
				}
				decided = true
			}
			sigName, err := requireAttr("PinSignal", s.Attrs, "Name")
			if err != nil {
				return nil, err
			}
			var m SignalMap
			switch modes.Mode {
			case ModeRemap:
				m, err = parseRemaps(s)
			default:
				m, err = parseAF(s)
			}
			if err != nil {
				return nil, err
			}
			signals[sigName] = m
		}
		modes.pins[pinName] = signals
	}
	return modes, nil
}

// parseAF extracts the AF number from a value such as "GPIO_AF7_USART1".
func parseAF(s pinSignalElement) (SignalMap, error) {
	name, _ := attr(s.Attrs, "Name")
	value, ok := afPossibleValue(s.Parameters)
	if !ok {
		return SignalMap{}, malformedf("PinSignal %s has no AF value", name)
	}
	rest, ok := strings.CutPrefix(value, afValuePrefix)
	if !ok {
		return SignalMap{}, malformedf("PinSignal %s: %q is not an AF", name, value)
	}
	num, _, ok := strings.Cut(rest, "_")
	if !ok {
		return SignalMap{}, malformedf("PinSignal %s: %q is not an AF", name, value)
	}
	af, err := strconv.Atoi(num)
	if err != nil || af < 0 || af > MaxAF {
		return SignalMap{}, malformedf("PinSignal %s: invalid AF number in %q", name, value)
	}
	return SignalMap{Kind: MapAF, AF: af}, nil
}

// afPossibleValue prefers the GPIO_AF parameter and falls back to the first
// possible value of any parameter.
func afPossibleValue(params []specificParameterElement) (string, bool) {
	for _, p := range params {
		if n, _ := attr(p.Attrs, "Name"); n == "GPIO_AF" && len(p.PossibleValues) > 0 {
			return strings.TrimSpace(p.PossibleValues[0]), true
		}
	}
	for _, p := range params {
		if len(p.PossibleValues) > 0 {
			return strings.TrimSpace(p.PossibleValues[0]), true
		}
	}
	return "", false
}

// parseRemaps extracts the remap numbers from block names such as
// "USART1_REMAP2". A signal without any block is an additional function.
func parseRemaps(s pinSignalElement) (SignalMap, error) {
	if len(s.RemapBlocks) == 0 {
		return SignalMap{Kind: MapAdditional}, nil
	}
	remaps := make([]int, 0, len(s.RemapBlocks))
	for _, b := range s.RemapBlocks {
		name, err := requireAttr("RemapBlock", b.Attrs, "Name")
		if err != nil {
			return SignalMap{}, err
		}
		i := strings.LastIndex(name, remapMarker)
		if i < 0 {
			return SignalMap{}, malformedf("RemapBlock %q missing %s", name, remapMarker)
		}
		n, err := strconv.Atoi(name[i+len(remapMarker):])
		if err != nil || n < 0 {
			return SignalMap{}, malformedf("RemapBlock %q: invalid remap number", name)
		}
		remaps = append(remaps, n)
	}
	return SignalMap{Kind: MapRemap, Remaps: remaps}, nil
}

// ApplyGPIOModes sets the GPIO mode of the part and resolves the mapping of
// each signal. Signals the modes document does not mention stay additional
// functions.
func (p *Part) ApplyGPIOModes(modes *GPIOModes) {
	p.Mode = modes.Mode
	for i := range p.Pins {
		pin := &p.Pins[i]
		for j := range pin.Signals {
			sig := &pin.Signals[j]
			if m, ok := modes.Lookup(pin.Name, sig.Name); ok {
				sig.Map = m
			} else {
				sig.Map = SignalMap{Kind: MapAdditional}
			}
		}
	}
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

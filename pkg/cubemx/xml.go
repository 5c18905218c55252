package cubemx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Attributes are captured raw so that a missing attribute can be told apart
// from an empty one.

// mcuElement is the root of a part document (mcu/<part>.xml).
type mcuElement struct {
	XMLName   xml.Name     `xml:"Mcu"`
	Attrs     []xml.Attr   `xml:",any,attr"`
	Core      string       `xml:"Core"`
	Frequency string       `xml:"Frequency"`
	Ram       []string     `xml:"Ram"`
	Flash     []string     `xml:"Flash"`
	IPs       []ipElement  `xml:"IP"`
	Pins      []pinElement `xml:"Pin"`
}

type ipElement struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type pinElement struct {
	Attrs   []xml.Attr      `xml:",any,attr"`
	Signals []signalElement `xml:"Signal"`
}

type signalElement struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// gpioModesElement is the root of a GPIO modes document
// (mcu/IP/GPIO-<version>_Modes.xml).
type gpioModesElement struct {
	XMLName xml.Name         `xml:"IP"`
	Pins    []gpioPinElement `xml:"GPIO_Pin"`
}

type gpioPinElement struct {
	Attrs   []xml.Attr         `xml:",any,attr"`
	Signals []pinSignalElement `xml:"PinSignal"`
}

type pinSignalElement struct {
	Attrs       []xml.Attr                 `xml:",any,attr"`
	Parameters  []specificParameterElement `xml:"SpecificParameter"`
	RemapBlocks []remapBlockElement        `xml:"RemapBlock"`
}

type specificParameterElement struct {
	Attrs          []xml.Attr `xml:",any,attr"`
	PossibleValues []string   `xml:"PossibleValue"`
}

type remapBlockElement struct {
	Attrs      []xml.Attr                 `xml:",any,attr"`
	Parameters []specificParameterElement `xml:"SpecificParameter"`
}

// decodeXML unmarshals a whole document into v. Syntax errors and root
// element mismatches are reported as ErrMalformed.
func decodeXML(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// charsetReader handles the single-byte encodings some older database
// documents declare.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
}

// attr returns the value of the named attribute.
func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// requireAttr returns the value of the named attribute or an ErrMalformed
// error naming the element.
func requireAttr(element string, attrs []xml.Attr, name string) (string, error) {
	v, ok := attr(attrs, name)
	if !ok {
		return "", malformedf("%s missing a %s attribute", element, name)
	}
	return v, nil
}

package ply

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format identifies the payload encoding declared in a PLY header.
type Format int

const (
	FormatUnknown Format = iota
	FormatASCII
	FormatBinaryLE
	FormatBinaryBE
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinaryLE:
		return "binary_little_endian"
	case FormatBinaryBE:
		return "binary_big_endian"
	}
	return "unknown"
}

// Property is one typed column of an element. List-valued properties carry
// a per-row count and have no fixed width.
type Property struct {
	Name string
	Type string
	List bool
}

// Element is a named sequence of fixed-layout rows.
type Element struct {
	Name       string
	Count      int
	Properties []Property

	// Offset and Stride describe the binary little-endian payload layout.
	// Stride is 0 when any property is list-valued.
	Offset int
	Stride int
}

// HasList reports whether any property of the element is list-valued.
func (e *Element) HasList() bool {
	for _, p := range e.Properties {
		if p.List {
			return true
		}
	}
	return false
}

// Header is the parsed textual preamble of a PLY payload.
type Header struct {
	Format    Format
	Elements  []Element
	DataStart int // byte offset of the first element payload
}

// Element returns the named element, or nil.
func (h *Header) Element(name string) *Element {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i]
		}
	}
	return nil
}

// scalarSize maps PLY scalar type names to their byte width.
var scalarSize = map[string]int{
	"char": 1, "int8": 1,
	"uchar": 1, "uint8": 1,
	"short": 2, "int16": 2,
	"ushort": 2, "uint16": 2,
	"int": 4, "int32": 4,
	"uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

// ScalarSize returns the byte width of a PLY scalar type, or 0 if unknown.
func ScalarSize(typ string) int {
	return scalarSize[typ]
}

// ParseHeader reads the ASCII header of a PLY payload and, for the binary
// little-endian variant, accumulates byte offsets and strides for every
// element in header order. Offset accumulation stops at the first element
// with a list-valued property; later elements keep Offset -1.
func ParseHeader(data []byte) (*Header, error) {
	end := strings.Index(string(data[:min(len(data), 64<<10)]), "end_header")
	if end < 0 {
		return nil, fmt.Errorf("ply: no end_header terminator")
	}
	// Skip past the terminator line, including its newline.
	dataStart := end + len("end_header")
	for dataStart < len(data) && data[dataStart] != '\n' {
		dataStart++
	}
	if dataStart < len(data) {
		dataStart++
	}

	h := &Header{DataStart: dataStart}
	lines := strings.Split(string(data[:end]), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "ply" {
		return nil, fmt.Errorf("ply: missing magic line")
	}

	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, fmt.Errorf("ply: malformed format line %q", line)
			}
			switch fields[1] {
			case "ascii":
				h.Format = FormatASCII
			case "binary_little_endian":
				h.Format = FormatBinaryLE
			case "binary_big_endian":
				h.Format = FormatBinaryBE
			default:
				return nil, fmt.Errorf("ply: unknown format %q", fields[1])
			}
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("ply: malformed element line %q", line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("ply: bad element count in %q", line)
			}
			h.Elements = append(h.Elements, Element{Name: fields[1], Count: count})
		case "property":
			if len(h.Elements) == 0 {
				return nil, fmt.Errorf("ply: property before element in %q", line)
			}
			el := &h.Elements[len(h.Elements)-1]
			if len(fields) >= 5 && fields[1] == "list" {
				el.Properties = append(el.Properties, Property{Name: fields[4], Type: fields[3], List: true})
			} else if len(fields) >= 3 {
				if ScalarSize(fields[1]) == 0 {
					return nil, fmt.Errorf("ply: unknown property type %q", fields[1])
				}
				el.Properties = append(el.Properties, Property{Name: fields[2], Type: fields[1]})
			} else {
				return nil, fmt.Errorf("ply: malformed property line %q", line)
			}
		case "comment", "obj_info":
			// ignored
		default:
			// Unknown keywords are tolerated; real-world exporters add them.
		}
	}

	layoutOffsets(h)
	return h, nil
}

// layoutOffsets walks elements in header order, accumulating byte offsets
// using per-property fixed widths. Only meaningful for binary little-endian.
func layoutOffsets(h *Header) {
	for i := range h.Elements {
		h.Elements[i].Offset = -1
	}
	if h.Format != FormatBinaryLE {
		return
	}
	off := h.DataStart
	for i := range h.Elements {
		el := &h.Elements[i]
		if el.HasList() {
			// Rows have variable width; nothing after this element
			// can be located.
			return
		}
		stride := 0
		for _, p := range el.Properties {
			stride += ScalarSize(p.Type)
		}
		if stride > 0 && el.Count > (math.MaxInt-off)/stride {
			// Declared extent overflows int; this element and everything
			// after it cannot be located.
			return
		}
		el.Offset = off
		el.Stride = stride
		off += stride * el.Count
	}
}

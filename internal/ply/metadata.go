package ply

import (
	"encoding/binary"
	"math"
)

// Metadata holds camera intrinsics recovered from a scene payload's
// auxiliary PLY elements.
type Metadata struct {
	Fx, Fy        float64
	Width, Height float64
}

// ExtractMetadata recovers camera intrinsics from a raw PLY payload.
// Strictly best-effort: it returns nil when the payload is not the binary
// little-endian variant, when any element carries a list-valued property,
// when the intrinsic or image_size elements are absent, or when their data
// is truncated. It never fails the surrounding scene load.
//
// The intrinsic element is read as a row-major 3×3 matrix (fx = value 0,
// fy = value 4); image_size as (width, height).
func ExtractMetadata(data []byte) *Metadata {
	h, err := ParseHeader(data)
	if err != nil {
		return nil
	}
	if h.Format != FormatBinaryLE {
		return nil
	}
	for i := range h.Elements {
		if h.Elements[i].HasList() {
			// Variable-width rows defeat offset accumulation; abort
			// extraction entirely rather than guessing.
			return nil
		}
	}

	intrinsic := h.Element("intrinsic")
	imageSize := h.Element("image_size")
	if intrinsic == nil || imageSize == nil {
		return nil
	}

	mat, ok := elementValues(data, intrinsic, 9)
	if !ok {
		return nil
	}
	size, ok := elementValues(data, imageSize, 2)
	if !ok {
		return nil
	}

	return &Metadata{Fx: mat[0], Fy: mat[4], Width: size[0], Height: size[1]}
}

// FovDeg derives the initial field-of-view hint in degrees: horizontal fov
// from fx when the image is landscape, vertical fov from fy otherwise.
// ok is false when the computed value is not finite.
func (m *Metadata) FovDeg() (float64, bool) {
	var fov float64
	if m.Width >= m.Height {
		fov = 2 * mathAtanDeg(m.Width/2, m.Fx)
	} else {
		fov = 2 * mathAtanDeg(m.Height/2, m.Fy)
	}
	if math.IsNaN(fov) || math.IsInf(fov, 0) || fov <= 0 {
		return 0, false
	}
	return fov, true
}

func mathAtanDeg(half, focal float64) float64 {
	return math.Atan(half/focal) * 180 / math.Pi
}

// elementValues reads the first n scalar values of an element in row-major
// order, flattening rows. ok is false when the element holds fewer than n
// values or the payload is truncated.
func elementValues(data []byte, el *Element, n int) ([]float64, bool) {
	if el.Offset < 0 || el.Count*len(el.Properties) < n {
		return nil, false
	}
	vals := make([]float64, 0, n)
	off := el.Offset
	for row := 0; row < el.Count && len(vals) < n; row++ {
		for _, p := range el.Properties {
			w := ScalarSize(p.Type)
			if off+w > len(data) {
				return nil, false
			}
			if len(vals) < n {
				vals = append(vals, ReadScalar(data[off:], p.Type))
			}
			off += w
		}
	}
	if len(vals) < n {
		return nil, false
	}
	return vals, true
}

// ReadScalar decodes one little-endian scalar of the given PLY type.
// The caller must guarantee len(b) covers the scalar width.
func ReadScalar(b []byte, typ string) float64 {
	switch typ {
	case "char", "int8":
		return float64(int8(b[0]))
	case "uchar", "uint8":
		return float64(b[0])
	case "short", "int16":
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case "ushort", "uint16":
		return float64(binary.LittleEndian.Uint16(b))
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case "uint", "uint32":
		return float64(binary.LittleEndian.Uint32(b))
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case "double", "float64":
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return 0
}

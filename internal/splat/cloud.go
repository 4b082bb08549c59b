package splat

import (
	"fmt"
	"math"
	"os"

	"stereo-splat-viewer/internal/mathutil"
	"stereo-splat-viewer/internal/ply"
)

// Cloud is an immutable point-splat set with a precomputed bounding sphere.
type Cloud struct {
	Points []mathutil.Vec3
	Colors []uint8 // RGB interleaved, len = 3*len(Points); nil when absent

	center mathutil.Vec3
	radius float64
}

// Load reads and decodes a PLY splat file.
func Load(path string) (*Cloud, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("splat: read %s: %w", path, err)
	}
	c, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("splat: decode %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a binary little-endian PLY payload into a point cloud.
// Positions come from the vertex element's x/y/z properties; color from
// red/green/blue bytes or the f_dc_* spherical-harmonic DC terms when
// present.
func Decode(data []byte) (*Cloud, error) {
	h, err := ply.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Format != ply.FormatBinaryLE {
		return nil, fmt.Errorf("splat: unsupported format %s", h.Format)
	}

	vertex := h.Element("vertex")
	if vertex == nil {
		return nil, fmt.Errorf("splat: no vertex element")
	}
	if vertex.Offset < 0 {
		return nil, fmt.Errorf("splat: vertex element not addressable")
	}

	// Property byte offsets within a row.
	fieldOff := map[string]int{}
	fieldTyp := map[string]string{}
	off := 0
	for _, p := range vertex.Properties {
		if p.List {
			return nil, fmt.Errorf("splat: list property %s in vertex element", p.Name)
		}
		fieldOff[p.Name] = off
		fieldTyp[p.Name] = p.Type
		off += ply.ScalarSize(p.Type)
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := fieldOff[name]; !ok {
			return nil, fmt.Errorf("splat: vertex element lacks %s", name)
		}
	}

	// Overflow-safe: a corrupt header can declare a row count whose byte
	// extent wraps int, so bound the count by the payload instead of
	// multiplying first.
	if vertex.Stride <= 0 {
		return nil, fmt.Errorf("splat: vertex element has zero stride")
	}
	if rows := (len(data) - vertex.Offset) / vertex.Stride; vertex.Count > rows {
		return nil, fmt.Errorf("splat: truncated payload: %d vertex rows declared, %d present", vertex.Count, rows)
	}

	hasRGB := hasAll(fieldOff, "red", "green", "blue")
	hasDC := hasAll(fieldOff, "f_dc_0", "f_dc_1", "f_dc_2")

	c := &Cloud{Points: make([]mathutil.Vec3, vertex.Count)}
	if hasRGB || hasDC {
		c.Colors = make([]uint8, 3*vertex.Count)
	}

	read := func(row []byte, name string) float64 {
		return ply.ReadScalar(row[fieldOff[name]:], fieldTyp[name])
	}

	for i := 0; i < vertex.Count; i++ {
		row := data[vertex.Offset+i*vertex.Stride:]
		c.Points[i] = mathutil.Vec3{read(row, "x"), read(row, "y"), read(row, "z")}
		switch {
		case hasRGB:
			c.Colors[3*i] = clampByte(read(row, "red"))
			c.Colors[3*i+1] = clampByte(read(row, "green"))
			c.Colors[3*i+2] = clampByte(read(row, "blue"))
		case hasDC:
			// SH DC term to linear color: 0.5 + C0 * dc
			const c0 = 0.28209479177387814
			c.Colors[3*i] = clampByte((0.5 + c0*read(row, "f_dc_0")) * 255)
			c.Colors[3*i+1] = clampByte((0.5 + c0*read(row, "f_dc_1")) * 255)
			c.Colors[3*i+2] = clampByte((0.5 + c0*read(row, "f_dc_2")) * 255)
		}
	}

	c.computeBounds()
	return c, nil
}

// Merge concatenates several clouds into one (used for multi-layer 360
// scenes). Color is kept only when every input carries it.
func Merge(clouds ...*Cloud) *Cloud {
	total := 0
	allColored := true
	for _, c := range clouds {
		total += len(c.Points)
		if c.Colors == nil {
			allColored = false
		}
	}
	m := &Cloud{Points: make([]mathutil.Vec3, 0, total)}
	if allColored && total > 0 {
		m.Colors = make([]uint8, 0, 3*total)
	}
	for _, c := range clouds {
		m.Points = append(m.Points, c.Points...)
		if m.Colors != nil {
			m.Colors = append(m.Colors, c.Colors...)
		}
	}
	m.computeBounds()
	return m
}

// Bounds returns the bounding sphere used for initial camera placement.
func (c *Cloud) Bounds() (center mathutil.Vec3, radius float64) {
	return c.center, c.radius
}

func (c *Cloud) computeBounds() {
	if len(c.Points) == 0 {
		c.center = mathutil.Vec3{}
		c.radius = 1
		return
	}
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range c.Points {
		for k := 0; k < 3; k++ {
			if p[k] < lo[k] {
				lo[k] = p[k]
			}
			if p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	c.center = lo.Add(hi).Scale(0.5)
	r := 0.0
	for _, p := range c.Points {
		if d := p.Distance(c.center); d > r {
			r = d
		}
	}
	if r < 1e-9 {
		r = 1
	}
	c.radius = r
}

func hasAll(m map[string]int, names ...string) bool {
	for _, n := range names {
		if _, ok := m[n]; !ok {
			return false
		}
	}
	return true
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

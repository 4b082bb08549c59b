// Package params is the persisted viewer-parameter document. Reloading a
// saved document reproduces every numeric field exactly and every
// boolean/enum field exactly; transport of the document is external.
package params

import (
	"encoding/json"
	"fmt"
	"os"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/mathutil"
	"stereo-splat-viewer/internal/stereo"
)

// Document is the on-disk layout.
type Document struct {
	Mode        string        `json:"mode"`
	FovDeg      float64       `json:"fovDeg"`
	FramingLock bool          `json:"framingLock"`
	Pivot       Pivot         `json:"pivot"`
	Stereo      StereoDoc     `json:"stereo"`
	Camera      CameraToggles `json:"camera"`
	Zoom        Zoom          `json:"zoom"`
}

// Pivot carries the orbit target, either as a world point or as the
// screen position it was picked at.
type Pivot struct {
	Point  *[3]float64 `json:"point,omitempty"`
	Screen *[2]float64 `json:"screen,omitempty"`
}

type StereoDoc struct {
	ZeroParallax    ZeroParallax `json:"zeroParallax"`
	Baseline        float64      `json:"baseline"`
	Compression     float64      `json:"compression"`
	ClampPx         float64      `json:"clampPx"`
	ComfortLock     bool         `json:"comfortLock"`
	ComfortStrength float64      `json:"comfortStrength"`
}

type ZeroParallax struct {
	Mode  string      `json:"mode"`
	Value float64     `json:"value"`
	Point *[3]float64 `json:"point,omitempty"`
}

type CameraToggles struct {
	OrbitEnabled bool `json:"orbitEnabled"`
	PanEnabled   bool `json:"panEnabled"`
	DollyEnabled bool `json:"dollyEnabled"`
}

type Zoom struct {
	DollySpeed float64 `json:"dollySpeed"`
	ZoomFactor float64 `json:"zoomFactor"`
}

// Snapshot captures the live state into a document.
func Snapshot(ct *camera.Controller, p stereo.Params, r *stereo.Resolver) Document {
	doc := Document{
		Mode:        p.Mode.String(),
		FovDeg:      ct.Cam.FovDeg,
		FramingLock: ct.FramingLock,
		Pivot: Pivot{
			Point: vecPtr(ct.Cam.Target),
		},
		Stereo: StereoDoc{
			ZeroParallax: ZeroParallax{
				Mode: r.Mode.String(),
			},
			Baseline:        p.Baseline,
			Compression:     p.Compression,
			ClampPx:         p.ClampPx,
			ComfortLock:     p.ComfortLock,
			ComfortStrength: p.ComfortStrength,
		},
		Camera: CameraToggles{
			OrbitEnabled: ct.OrbitEnabled,
			PanEnabled:   ct.PanEnabled,
			DollyEnabled: ct.DollyEnabled,
		},
		Zoom: Zoom{
			DollySpeed: ct.DollySpeed,
			ZoomFactor: ct.ZoomFactor,
		},
	}
	if click, ok := r.ClickPoint(); ok {
		doc.Stereo.ZeroParallax.Point = vecPtr(click)
	}
	return doc
}

// Apply writes a document back onto the live state. Out-of-range values
// are clamped, never rejected.
func (d Document) Apply(ct *camera.Controller, p *stereo.Params, r *stereo.Resolver) {
	p.Mode = stereo.ParseMode(d.Mode)
	p.Baseline = d.Stereo.Baseline
	p.Compression = d.Stereo.Compression
	p.ClampPx = d.Stereo.ClampPx
	p.ComfortStrength = d.Stereo.ComfortStrength
	p.Sanitize()
	p.FramingLock = d.FramingLock

	r.Mode = stereo.ParseZeroParallaxMode(d.Stereo.ZeroParallax.Mode)
	if pt := d.Stereo.ZeroParallax.Point; pt != nil {
		r.RecordClick(mathutil.Vec3(*pt))
	}

	ct.FramingLock = d.FramingLock
	ct.OrbitEnabled = d.Camera.OrbitEnabled
	ct.PanEnabled = d.Camera.PanEnabled
	ct.DollyEnabled = d.Camera.DollyEnabled
	if d.Zoom.DollySpeed > 0 {
		ct.DollySpeed = d.Zoom.DollySpeed
	}
	if d.Zoom.ZoomFactor > 0 {
		ct.ZoomFactor = d.Zoom.ZoomFactor
	}
	if pt := d.Pivot.Point; pt != nil {
		ct.Retarget(mathutil.Vec3(*pt))
	}
	ct.SetFov(d.FovDeg)

	// Comfort lock re-captures its base against the restored camera.
	p.SetComfortLock(d.Stereo.ComfortLock, ct.Cam.Distance())
}

// Save writes the document as indented JSON.
func Save(path string, d Document) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("params: encode: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("params: write %s: %w", path, err)
	}
	return nil
}

// Load reads a previously saved document.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("params: read %s: %w", path, err)
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("params: parse %s: %w", path, err)
	}
	return d, nil
}

func vecPtr(v mathutil.Vec3) *[3]float64 {
	a := [3]float64(v)
	return &a
}

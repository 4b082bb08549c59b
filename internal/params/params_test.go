package params

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"stereo-splat-viewer/internal/camera"
	"stereo-splat-viewer/internal/mathutil"
	"stereo-splat-viewer/internal/stereo"
)

func liveState() (*camera.Controller, stereo.Params, *stereo.Resolver) {
	ct := camera.NewController(camera.Camera{
		Position: mathutil.Vec3{0, 0, 10},
		Target:   mathutil.Vec3{0, 0, 0},
		Up:       mathutil.Vec3{0, 1, 0},
		FovDeg:   60,
		Near:     0.01,
		Far:      100,
	})
	return ct, stereo.DefaultParams(), &stereo.Resolver{}
}

func TestRoundTrip(t *testing.T) {
	ct, p, r := liveState()
	ct.SetFov(65)
	ct.FramingLock = true
	ct.Retarget(mathutil.Vec3{1, 2, 3})
	ct.DollySpeed = 1.5
	ct.ZoomFactor = 0.85
	ct.PanEnabled = false
	p.Mode = stereo.ModeSBS
	p.Baseline = 0.12
	p.Compression = 0.8
	p.ClampPx = 0
	p.ComfortStrength = 1.5
	p.SetComfortLock(true, ct.Cam.Distance())
	r.Mode = stereo.ZeroParallaxClick
	r.RecordClick(mathutil.Vec3{4, 5, 6})

	path := filepath.Join(t.TempDir(), "params.json")
	if err := Save(path, Snapshot(ct, p, r)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ct2, p2, r2 := liveState()
	doc.Apply(ct2, &p2, r2)

	if ct2.Cam.FovDeg != 65 {
		t.Errorf("fov = %g, want 65", ct2.Cam.FovDeg)
	}
	if !ct2.FramingLock || !p2.FramingLock {
		t.Error("framing lock lost")
	}
	if ct2.Cam.Target != (mathutil.Vec3{1, 2, 3}) {
		t.Errorf("target = %v, want (1,2,3)", ct2.Cam.Target)
	}
	if ct2.DollySpeed != 1.5 || ct2.ZoomFactor != 0.85 {
		t.Errorf("zoom = %g/%g, want 1.5/0.85", ct2.DollySpeed, ct2.ZoomFactor)
	}
	if ct2.PanEnabled {
		t.Error("pan toggle lost")
	}
	if p2.Mode != stereo.ModeSBS || p2.Baseline != 0.12 || p2.Compression != 0.8 || p2.ClampPx != 0 {
		t.Errorf("stereo knobs = %+v", p2)
	}
	if p2.ComfortStrength != 1.5 || !p2.ComfortLock {
		t.Errorf("comfort = %g/%v", p2.ComfortStrength, p2.ComfortLock)
	}
	if r2.Mode != stereo.ZeroParallaxClick {
		t.Errorf("zero-parallax mode = %v, want click", r2.Mode)
	}
	click, ok := r2.ClickPoint()
	if !ok || click != (mathutil.Vec3{4, 5, 6}) {
		t.Errorf("click point = %v/%v, want (4,5,6)", click, ok)
	}
}

func TestDocumentJSONKeys(t *testing.T) {
	ct, p, r := liveState()
	ct.SetFov(65)
	p.Baseline = 0.12
	p.ClampPx = 0

	data, err := json.Marshal(Snapshot(ct, p, r))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"mode", "fovDeg", "framingLock", "pivot", "stereo", "camera", "zoom"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	var doc struct {
		Mode   string  `json:"mode"`
		FovDeg float64 `json:"fovDeg"`
		Stereo struct {
			Baseline float64 `json:"baseline"`
			ClampPx  float64 `json:"clampPx"`
		} `json:"stereo"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Mode != "sbs" || doc.FovDeg != 65 || doc.Stereo.Baseline != 0.12 || doc.Stereo.ClampPx != 0 {
		t.Errorf("document = %+v", doc)
	}
}

func TestApplyClampsOutOfRange(t *testing.T) {
	doc := Document{
		Mode:   "sbs",
		FovDeg: 500,
		Stereo: StereoDoc{
			Baseline:        -1,
			Compression:     -2,
			ComfortStrength: 9,
		},
		Camera: CameraToggles{OrbitEnabled: true, PanEnabled: true, DollyEnabled: true},
	}
	ct, p, r := liveState()
	doc.Apply(ct, &p, r)

	if ct.Cam.FovDeg != camera.MaxFovDeg {
		t.Errorf("fov = %g, want %g", ct.Cam.FovDeg, float64(camera.MaxFovDeg))
	}
	if p.Baseline != 0 || p.Compression != 0 {
		t.Errorf("negatives not floored: %+v", p)
	}
	if p.ComfortStrength != 2 {
		t.Errorf("comfort strength = %g, want 2", p.ComfortStrength)
	}
}

func TestApplyUnknownEnumsFallBack(t *testing.T) {
	doc := Document{Mode: "anaglyph", Stereo: StereoDoc{ZeroParallax: ZeroParallax{Mode: "laser"}}}
	ct, p, r := liveState()
	doc.Apply(ct, &p, r)
	if p.Mode != stereo.ModeMono {
		t.Errorf("mode = %v, want mono fallback", p.Mode)
	}
	if r.Mode != stereo.ZeroParallaxPivot {
		t.Errorf("zero-parallax mode = %v, want pivot fallback", r.Mode)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

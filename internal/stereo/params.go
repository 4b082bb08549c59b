package stereo

// Mode selects how many eye views a frame produces.
type Mode int

const (
	ModeMono Mode = iota
	ModeSBS
)

func (m Mode) String() string {
	if m == ModeSBS {
		return "sbs"
	}
	return "mono"
}

// ParseMode maps a persisted mode string. Unknown values fall back to mono
// so a stale document still renders.
func ParseMode(s string) Mode {
	if s == "sbs" {
		return ModeSBS
	}
	return ModeMono
}

// ZeroParallaxMode is the tagged choice of convergence source.
type ZeroParallaxMode int

const (
	// ZeroParallaxPivot converges on the live orbit target.
	ZeroParallaxPivot ZeroParallaxMode = iota
	// ZeroParallaxClick converges on the last picked point, falling back
	// to the orbit target until a pick lands.
	ZeroParallaxClick
)

func (z ZeroParallaxMode) String() string {
	if z == ZeroParallaxClick {
		return "click"
	}
	return "pivot"
}

// ParseZeroParallaxMode maps a persisted mode string.
func ParseZeroParallaxMode(s string) ZeroParallaxMode {
	if s == "click" {
		return ZeroParallaxClick
	}
	return ZeroParallaxPivot
}

// Params are the stereo knobs read by Synthesize each frame. Owned by the
// UI/persistence layer; the core only validates ranges.
type Params struct {
	Mode        Mode
	Baseline    float64 // eye separation in world units
	Compression float64 // multiplicative de-rating of baseline
	ClampPx     float64 // max on-screen disparity at convergence, 0 = off

	ZeroParallax ZeroParallaxMode

	ComfortLock     bool
	ComfortStrength float64 // 0 = off, 1 = linear, up to 2 = amplified
	ComfortBase     float64 // distance captured at lock activation

	FramingLock bool
}

// DefaultParams returns comfortable starting values for a fresh scene.
func DefaultParams() Params {
	return Params{
		Mode:            ModeSBS,
		Baseline:        0.06,
		Compression:     1,
		ClampPx:         0,
		ZeroParallax:    ZeroParallaxPivot,
		ComfortStrength: 1,
	}
}

// Sanitize floors out-of-range values in place. Nothing is ever rejected:
// the render loop must always be producible.
func (p *Params) Sanitize() {
	if p.Baseline < 0 {
		p.Baseline = 0
	}
	if p.Compression < 0 {
		p.Compression = 0
	}
	if p.ClampPx < 0 {
		p.ClampPx = 0
	}
	if p.ComfortStrength < 0 {
		p.ComfortStrength = 0
	}
	if p.ComfortStrength > 2 {
		p.ComfortStrength = 2
	}
}

// SetComfortLock toggles the comfort lock, capturing the reference
// distance at activation.
func (p *Params) SetComfortLock(on bool, currentDistance float64) {
	p.ComfortLock = on
	if on {
		p.ComfortBase = currentDistance
	}
}

// Package tract implements the Kelly–Lochbaum one-dimensional vocal
// waveguide: the oral tract plus its nasal side branch, reflection
// coefficients, reshaping, turbulence injection, and plosive transients.
package tract

import (
	"github.com/synte-audio/trombone/internal/dsp"
)

const (
	// MinN and MaxN bound the supported tract length.
	MinN = 30
	MaxN = 60

	glottalReflection = 0.75
	lipReflection     = -0.85
	fade              = 0.999

	defaultMovementSpeed = 15 // cm/s
)

// Tract is a single voice's vocal-tract waveguide. All buffers are
// allocated once at New/Init and mutated only by ProcessBlock; the
// hot path never allocates.
type Tract struct {
	sampleRate float64

	n, m                           int
	noseStart                      int
	bladeStart, tipStart, lipStart int

	diameter       []float64
	targetDiameter []float64
	restDiameter   []float64
	a              []float64

	r, l                             []float64
	junctionOutputR, junctionOutputL []float64

	reflection, newReflection []float64

	reflectionLeft, reflectionRight, reflectionNose          float64
	newReflectionLeft, newReflectionRight, newReflectionNose float64

	noseR, noseL, noseDiameter, noseA        []float64
	noseReflection                           []float64
	noseJunctionOutputR, noseJunctionOutputL []float64

	// Live control parameters.
	velumTarget          float64
	constrictionIndex    float64 // 0 means "no constriction"
	constrictionDiameter float64
	tongueIndex          float64
	tongueDiameter       float64
	lipDiameter          float64
	fricativeStrength    float64
	transientStrength    float64
	movementSpeed        float64

	lastObstruction int
	transients      transientPool
}

// New allocates a Tract of length n at the given sample rate.
func New(n int, sampleRate float64) *Tract {
	t := &Tract{sampleRate: sampleRate}
	t.velumTarget = 0.01
	t.constrictionDiameter = 3
	t.tongueDiameter = 2.43
	t.lipDiameter = 1.5
	t.fricativeStrength = 1
	t.transientStrength = 1
	t.movementSpeed = defaultMovementSpeed
	t.Init(n)
	return t
}

// Init (re)allocates every waveguide buffer for length n and reseeds the
// rest geometry. The caller must only invoke this at a block boundary.
// Calling Init(n) twice with the same n is idempotent: it rebuilds
// identical arrays from the same deterministic seed rules.
func (t *Tract) Init(n int) {
	n = clampN(n)
	t.n = n
	t.m = 28 * n / 44
	t.noseStart = n - t.m + 1
	t.bladeStart = 10 * n / 44
	t.tipStart = 32 * n / 44
	t.lipStart = 39 * n / 44

	t.diameter = make([]float64, n)
	t.targetDiameter = make([]float64, n)
	t.restDiameter = make([]float64, n)
	t.a = make([]float64, n)

	t.r = make([]float64, n)
	t.l = make([]float64, n)
	t.junctionOutputR = make([]float64, n+1)
	t.junctionOutputL = make([]float64, n+1)

	t.reflection = make([]float64, n+1)
	t.newReflection = make([]float64, n+1)

	t.noseR = make([]float64, t.m)
	t.noseL = make([]float64, t.m)
	t.noseDiameter = make([]float64, t.m)
	t.noseA = make([]float64, t.m)
	t.noseReflection = make([]float64, t.m+1)
	t.noseJunctionOutputR = make([]float64, t.m+1)
	t.noseJunctionOutputL = make([]float64, t.m+1)

	t.lastObstruction = -1
	t.transients.reset()

	for i := 0; i < n; i++ {
		var d float64
		switch {
		case float64(i) < float64(7*n)/44-0.5:
			d = 0.6
		case i < 12*n/44:
			d = 1.1
		default:
			d = 1.5
		}
		t.diameter[i] = d
		t.targetDiameter[i] = d
		t.restDiameter[i] = d
		t.a[i] = d * d
	}

	for i := 0; i < t.m; i++ {
		d := 2 * float64(i) / float64(t.m)
		var v float64
		if d < 1 {
			v = 0.4 + 1.6*d
		} else {
			v = 0.5 + 1.5*(2-d)
		}
		if v > 1.9 {
			v = 1.9
		}
		t.noseDiameter[i] = v
		t.noseA[i] = v * v
	}
	t.noseDiameter[0] = dsp.Clamp(t.velumTarget, 0, 0.4)
	t.noseA[0] = t.noseDiameter[0] * t.noseDiameter[0]

	t.calculateReflections()
	// calculateReflections rolls the freshly allocated (zero) newReflection*
	// into reflection*; seed reflection* to match the computed targets so
	// the first block doesn't interpolate from zero.
	copy(t.reflection, t.newReflection)
	t.reflectionLeft, t.reflectionRight, t.reflectionNose = t.newReflectionLeft, t.newReflectionRight, t.newReflectionNose
}

func clampN(n int) int {
	if n < MinN {
		return MinN
	}
	if n > MaxN {
		return MaxN
	}
	return n
}

// N reports the tract's current segment count.
func (t *Tract) N() int { return t.n }

// SetShapeParams applies the block-level shape parameters: tongue
// index/diameter, movement speed and transient strength are read once at
// block start. tongueIndexFraction is 0-1; the tract owns
// bladeStart/tipStart, so it maps the fraction to absolute segment space
// itself rather than asking the caller to know the tract's geometry.
func (t *Tract) SetShapeParams(tongueIndexFraction, tongueDiameter, movementSpeed, transientStrength float64) {
	lo, hi := float64(t.bladeStart+2), float64(t.tipStart-3)
	t.tongueIndex = lo + dsp.Clamp01(tongueIndexFraction)*(hi-lo)
	t.tongueDiameter = dsp.Clamp(tongueDiameter, 2.05, 3.5)
	t.movementSpeed = movementSpeed
	t.transientStrength = dsp.Clamp01(transientStrength)
}

// SetSampleParams applies the per-sample-scope control parameters. They're
// named "per-sample" because the host may update them between any two
// samples, but the tract only needs their current value when it next runs
// a step or finalizes a block.
func (t *Tract) SetSampleParams(velumTarget, constrictionIndex, constrictionDiameter, lipDiameter, fricativeStrength float64) {
	t.velumTarget = dsp.Clamp(velumTarget, 0, 0.4)
	t.constrictionIndex = dsp.Clamp(constrictionIndex, 0, float64(t.n))
	t.constrictionDiameter = dsp.Clamp(constrictionDiameter, 0, 5)
	t.lipDiameter = dsp.Clamp(lipDiameter, 0, 1.5)
	t.fricativeStrength = dsp.Clamp01(fricativeStrength)
}

// ProcessBlock runs one block of B samples through the waveguide. glottalIn
// and noiseModIn come from the voice's Glottis (one sample per output
// sample); fricativeNoiseIn is host-supplied pre-band-passed white noise.
// out must have the same length as the inputs.
func (t *Tract) ProcessBlock(glottalIn, fricativeNoiseIn, noiseModIn, out []float64) {
	b := len(out)
	if b == 0 {
		return
	}
	t.setTargetDiameters()
	fb := float64(b)
	for j := 0; j < b; j++ {
		lambda1 := float64(j) / fb
		lambda2 := (float64(j) + 0.5) / fb
		o1 := t.runStep(glottalIn[j], fricativeNoiseIn[j], lambda1, noiseModIn[j])
		o2 := t.runStep(glottalIn[j], fricativeNoiseIn[j], lambda2, noiseModIn[j])
		out[j] = dsp.SanitizeSample((o1 + o2) * 0.125)
	}
	blockTime := fb / t.sampleRate
	t.reshapeTract(blockTime)
	t.calculateReflections()
}

// Diameters exposes the current tract shape for telemetry. The caller must
// not mutate the returned slices.
func (t *Tract) Diameters() ([]float64, float64) {
	return t.diameter, t.noseDiameter[0]
}

// LiveTransients reports the number of currently active release clicks.
func (t *Tract) LiveTransients() int { return t.transients.liveCount() }

func (t *Tract) runStep(glottalOutput, turbulenceNoise, lambda, noiseMod float64) float64 {
	t.transients.process(t.r, t.l, t.sampleRate)
	t.addTurbulenceNoise(turbulenceNoise, noiseMod)

	n := t.n
	t.junctionOutputR[0] = t.l[0]*glottalReflection + glottalOutput
	t.junctionOutputL[n] = t.r[n-1] * lipReflection

	for i := 1; i < n; i++ {
		if i == t.noseStart {
			continue
		}
		r := t.reflection[i]*(1-lambda) + t.newReflection[i]*lambda
		w := r * (t.r[i-1] + t.l[i])
		t.junctionOutputR[i] = t.r[i-1] - w
		t.junctionOutputL[i] = t.l[i] + w
	}

	i := t.noseStart
	rL := t.reflectionLeft*(1-lambda) + t.newReflectionLeft*lambda
	rR := t.reflectionRight*(1-lambda) + t.newReflectionRight*lambda
	rN := t.reflectionNose*(1-lambda) + t.newReflectionNose*lambda
	t.junctionOutputL[i] = rL*t.r[i-1] + (1+rL)*(t.noseL[0]+t.l[i])
	t.junctionOutputR[i] = rR*t.l[i] + (1+rR)*(t.r[i-1]+t.noseL[0])
	t.noseJunctionOutputR[0] = rN*t.noseL[0] + (1+rN)*(t.l[i]+t.r[i-1])

	for i := 0; i < n; i++ {
		t.r[i] = t.junctionOutputR[i] * fade
		t.l[i] = t.junctionOutputL[i+1] * fade
	}
	lipOutput := t.r[n-1]

	m := t.m
	t.noseJunctionOutputL[m] = t.noseR[m-1] * lipReflection
	for i := 1; i < m; i++ {
		r := t.noseReflection[i]
		w := r * (t.noseR[i-1] + t.noseL[i])
		t.noseJunctionOutputR[i] = t.noseR[i-1] - w
		t.noseJunctionOutputL[i] = t.noseL[i] + w
	}
	for i := 0; i < m; i++ {
		t.noseR[i] = t.noseJunctionOutputR[i] * fade
		t.noseL[i] = t.noseJunctionOutputL[i+1] * fade
	}
	noseOutput := t.noseR[m-1]

	return lipOutput + noseOutput
}

// calculateReflections rolls the current newReflection* forward into
// reflection* (the interpolation start point for the next block) and
// computes a fresh target from the current areas. This single pass mirrors
// the reference algorithm exactly: the roll and the recompute happen
// together, index by index.
func (t *Tract) calculateReflections() {
	for i := 0; i < t.n; i++ {
		t.a[i] = t.diameter[i] * t.diameter[i]
	}
	for i := 1; i < t.n; i++ {
		if i == t.noseStart {
			continue
		}
		t.reflection[i] = t.newReflection[i]
		if t.a[i] == 0 {
			t.newReflection[i] = 0.999
		} else {
			t.newReflection[i] = (t.a[i-1] - t.a[i]) / (t.a[i-1] + t.a[i])
		}
	}

	for i := 0; i < t.m; i++ {
		t.noseA[i] = t.noseDiameter[i] * t.noseDiameter[i]
	}

	t.reflectionLeft, t.reflectionRight, t.reflectionNose = t.newReflectionLeft, t.newReflectionRight, t.newReflectionNose
	sum := t.a[t.noseStart] + t.a[t.noseStart+1] + t.noseA[0]
	if sum == 0 {
		sum = 1e-9
	}
	t.newReflectionLeft = (2*t.a[t.noseStart] - sum) / sum
	t.newReflectionRight = (2*t.a[t.noseStart+1] - sum) / sum
	t.newReflectionNose = (2*t.noseA[0] - sum) / sum

	for i := 1; i < t.m; i++ {
		if t.noseA[i] == 0 {
			t.noseReflection[i] = 0.999
		} else {
			t.noseReflection[i] = (t.noseA[i-1] - t.noseA[i]) / (t.noseA[i-1] + t.noseA[i])
		}
	}
}

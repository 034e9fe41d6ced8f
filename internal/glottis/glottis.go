// Package glottis implements the LF-model glottal pulse oscillator: the
// voiced source of the synthesizer, plus its aspiration noise shaping and
// vibrato/wobble block.
package glottis

import (
	"math"

	"github.com/synte-audio/trombone/internal/dsp"
)

// Glottis is a single voice's glottal source. Apart from the wobble
// table, which is only read after construction, all fields are plain
// scalars, so a Glottis needs no heap allocation once constructed; the hot
// path (Step) never allocates.
type Glottis struct {
	sampleRate float64
	wobble     *dsp.Simplex1

	timeInWaveform float64
	totalTime      float64
	waveformLength float64

	oldFrequency, newFrequency, smoothFrequency float64
	oldTenseness, newTenseness                  float64

	// LF shape parameters, recomputed at each period boundary.
	rd, alpha, e0, epsilon, shift, delta, te, omega float64

	// Live UI-driven values, updated by Step/SetBlockParams; read back by
	// the end-of-block bookkeeping.
	baseFrequency    float64 // block-level target, before pitchbend
	uiFrequency      float64 // baseFrequency*2^(pitchbend/12), latest sample
	uiTenseness      float64
	vibratoAmount    float64
	vibratoFrequency float64
}

const (
	minFrequency = 20
	maxFrequency = 2000
	minRd        = 0.5
	maxRd        = 2.7

	defaultFrequency        = 140
	defaultTenseness        = 0.6
	defaultVibratoAmount    = 0.005
	defaultVibratoFrequency = 6
)

// New constructs a Glottis at the given sample rate, seeded so its wobble
// source is independent of every other voice's.
func New(sampleRate float64, seed uint64) *Glottis {
	g := &Glottis{
		sampleRate:       sampleRate,
		wobble:           dsp.NewSimplex1(seed),
		baseFrequency:    defaultFrequency,
		uiFrequency:      defaultFrequency,
		uiTenseness:      defaultTenseness,
		vibratoAmount:    defaultVibratoAmount,
		vibratoFrequency: defaultVibratoFrequency,
	}
	g.oldFrequency = defaultFrequency
	g.newFrequency = defaultFrequency
	g.smoothFrequency = defaultFrequency
	g.oldTenseness = defaultTenseness
	g.newTenseness = defaultTenseness
	g.waveformLength = 1 / defaultFrequency
	g.setupWaveform(0)
	return g
}

// SetBlockParams applies the per-block control parameters, read once at
// block start. vibratoAmount/vibratoFrequency take effect
// immediately; frequency only affects the *target* the per-block smoothing
// in EndOfBlock glides toward, so a step here never clicks.
func (g *Glottis) SetBlockParams(frequency, vibratoAmount, vibratoFrequency float64) {
	g.baseFrequency = dsp.Clamp(frequency, minFrequency, maxFrequency)
	g.vibratoAmount = dsp.Clamp01(vibratoAmount)
	g.vibratoFrequency = dsp.Clamp(vibratoFrequency, 0, 100)
}

// Step advances the glottis by one output sample. intensity, tenseness and
// tensenessMult are per-sample control values; pitchbend is in semitones
// and multiplies the block frequency target for this sample, continuously
// re-targeting uiFrequency, which the once-per-block smoothing step then
// glides toward. lambda is this sample's fraction j/B through the current
// block, used to interpolate frequency/tenseness toward their new targets
// at the period boundary so they move by interpolation, not by step.
// aspirationNoiseIn is one pre-band-passed white-noise sample from the host.
// Returns the voiced sample, the aspiration sample, and the noise
// modulator the tract's turbulence generator needs.
func (g *Glottis) Step(aspirationNoiseIn, intensity, tenseness, tensenessMult, pitchbend, lambda float64) (voiced, aspiration, noiseMod float64) {
	intensity = dsp.Clamp01(intensity)
	tenseness = dsp.Clamp01(tenseness)
	tensenessMult = dsp.Clamp01(tensenessMult)

	g.uiTenseness = tenseness
	pitchbend = dsp.Clamp(pitchbend, -24, 24)
	g.uiFrequency = dsp.Clamp(g.baseFrequency*math.Pow(2, pitchbend/12), minFrequency, maxFrequency)

	dt := 1 / g.sampleRate
	g.timeInWaveform += dt
	g.totalTime += dt
	if g.timeInWaveform > g.waveformLength {
		g.timeInWaveform -= g.waveformLength
		g.setupWaveform(lambda)
	}

	t := g.timeInWaveform / g.waveformLength
	var out float64
	if t > g.te {
		out = (-math.Exp(-g.epsilon*(t-g.te)) + g.shift) / g.delta
	} else {
		out = g.e0 * math.Exp(g.alpha*t) * math.Sin(g.omega*t)
	}
	loudness := math.Pow(tensenessMult*tenseness, 0.25)
	voiced = out * intensity * loudness

	voicedEnvelope := 0.1 + 0.2*math.Max(0, math.Sin(2*math.Pi*t))
	noiseMod = tenseness*intensity*voicedEnvelope + (1-tenseness*intensity)*0.3

	turbulenceShimmer := 0.2 + 0.02*g.wobble.Eval(g.totalTime*1.99)
	aspiration = intensity * (1 - math.Sqrt(tenseness)) * noiseMod * aspirationNoiseIn * 8 * turbulenceShimmer

	return dsp.SanitizeSample(voiced), dsp.SanitizeSample(aspiration), noiseMod
}

// EndOfBlock performs the once-per-block bookkeeping: vibrato, the
// asymmetric frequency-smoothing step, and rolling the old/new trios
// forward for next block's interpolation.
func (g *Glottis) EndOfBlock() {
	vibrato := g.vibratoAmount*math.Sin(2*math.Pi*g.totalTime*g.vibratoFrequency) +
		0.02*g.wobble.Eval(g.totalTime*4.07)

	if g.smoothFrequency < g.uiFrequency {
		g.smoothFrequency *= 1.1
	} else if g.smoothFrequency > g.uiFrequency {
		g.smoothFrequency /= 1.1
	}

	g.oldFrequency = g.newFrequency
	g.newFrequency = g.smoothFrequency * (1 + vibrato)

	g.oldTenseness = g.newTenseness
	g.newTenseness = g.uiTenseness +
		0.1*g.wobble.Eval(g.totalTime*0.46) +
		0.05*g.wobble.Eval(g.totalTime*0.36)
}

// setupWaveform recomputes the LF shape coefficients from a linear blend
// of the old→new frequency and tenseness trios at fraction lambda through
// the transition. This is the numerically delicate part and must not be
// "simplified."
func (g *Glottis) setupWaveform(lambda float64) {
	frequency := g.oldFrequency*(1-lambda) + g.newFrequency*lambda
	tenseness := g.oldTenseness*(1-lambda) + g.newTenseness*lambda
	g.waveformLength = 1 / frequency

	rd := 3 * (1 - tenseness)
	rd = dsp.Clamp(rd, minRd, maxRd)
	g.rd = rd

	ra := -0.01 + 0.048*rd
	rk := 0.224 + 0.118*rd
	rg := (rk / 4) * (0.5 + 1.2*rk) / (0.11*rd - ra*(0.5+1.2*rk))

	ta := ra
	tp := 1 / (2 * rg)
	te := tp + tp*rk

	epsilon := 1 / ta
	shift := math.Exp(-epsilon * (1 - te))
	delta := 1 - shift

	rhsIntegral := ((shift-1)/epsilon + (1-te)*shift) / delta
	lowerI := -(te-tp)/2 + rhsIntegral
	upperI := -lowerI

	omega := math.Pi / tp
	s := math.Sin(omega * te)
	y := -math.Pi * s * upperI / (2 * tp)
	z := math.Log(y)
	alpha := z / (tp/2 - te)
	e0 := -1 / (s * math.Exp(alpha*te))

	g.alpha = alpha
	g.e0 = e0
	g.epsilon = epsilon
	g.shift = shift
	g.delta = delta
	g.te = te
	g.omega = omega
}

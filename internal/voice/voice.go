// Package voice wires one Glottis and one Tract together behind a single
// lock-free Params block: Glottis runs first for sample j, Tract consumes
// its output for sample j, and the two are composed in one pass with no
// buffering beyond the voice's own scratch arrays.
package voice

import (
	"github.com/google/uuid"

	"github.com/synte-audio/trombone/internal/glottis"
	"github.com/synte-audio/trombone/internal/telemetry"
	"github.com/synte-audio/trombone/internal/tract"
)

// maxBlockSize bounds the voice's preallocated scratch buffers. Host block
// sizes beyond this are truncated by ProcessBlock, which renders only the
// first maxBlockSize samples and reports an Error event, rather than
// reallocating on the hot path.
const maxBlockSize = 4096

// Voice is one independent speaker: an LF glottal source feeding a
// Kelly-Lochbaum tract, carrying an identity UUID a host can use to tell
// voices apart. Telemetry events and snapshots are tagged with the
// host-assigned index, not with the UUID.
type Voice struct {
	ID uuid.UUID

	glottis *glottis.Glottis
	tract   *tract.Tract
	params  *Params

	index int // stable small integer for telemetry tagging

	events    *telemetry.Reporter
	snapshots *telemetry.SnapshotReporter

	glottalBuf  [maxBlockSize]float64
	noiseModBuf [maxBlockSize]float64
}

// New constructs a Voice at the given sample rate, with a fresh random
// identity and a PRNG seed folded from that identity. index is a small,
// host-assigned ordinal used only to tag telemetry.
func New(sampleRate float64, index int) *Voice {
	id := uuid.New()
	return newVoice(sampleRate, index, id, seedFromUUID(id))
}

// NewWithSeed constructs a Voice the same way as New, but with an explicit
// PRNG seed instead of one folded from a fresh random identity. A voice
// may be seeded by its index or by a caller-supplied seed; this is the
// entry point reproducible runs need, since New's random identity makes
// every call diverge even with identical parameters and inputs.
func NewWithSeed(sampleRate float64, index int, seed uint64) *Voice {
	return newVoice(sampleRate, index, uuid.New(), seed)
}

func newVoice(sampleRate float64, index int, id uuid.UUID, seed uint64) *Voice {
	return &Voice{
		ID:      id,
		glottis: glottis.New(sampleRate, seed),
		tract:   tract.New(DefaultN, sampleRate),
		params:  NewParams(),
		index:   index,
	}
}

// seedFromUUID folds a uuid.UUID's 16 bytes into a 64-bit PRNG seed.
func seedFromUUID(id uuid.UUID) uint64 {
	var s uint64
	for i, b := range id {
		s ^= uint64(b) << uint((i%8)*8)
	}
	return s
}

// Params exposes the voice's lock-free control plane to the host's control
// thread. The audio thread (ProcessBlock) only ever reads from it.
func (v *Voice) Params() *Params { return v.params }

// AttachTelemetry installs non-blocking sinks for log events and
// end-of-block tract snapshots. Either argument may be nil to skip that
// kind of reporting.
func (v *Voice) AttachTelemetry(events *telemetry.Reporter, snapshots *telemetry.SnapshotReporter) {
	v.events = events
	v.snapshots = snapshots
}

// RequestN queues a tract-length change for the start of the next block.
// ProcessBlock never re-sizes the tract mid-block; it only checks Params.N()
// at the top of each call.
func (v *Voice) RequestN(n int) {
	v.params.SetN(n)
}

// ProcessBlock renders one block of B = len(out) samples. aspirationNoiseIn
// and fricativeNoiseIn are host-supplied, pre-band-passed white noise; out
// receives the mixed mono signal. All three slices must share the same
// length, at most maxBlockSize.
func (v *Voice) ProcessBlock(aspirationNoiseIn, fricativeNoiseIn, out []float64) {
	b := len(out)
	if b == 0 {
		return
	}
	if b > maxBlockSize {
		v.report(telemetry.Error, "block size exceeds voice scratch capacity, truncating")
		b = maxBlockSize
		out = out[:b]
		aspirationNoiseIn = aspirationNoiseIn[:b]
		fricativeNoiseIn = fricativeNoiseIn[:b]
	}

	p := v.params
	if n := p.N(); n != v.tract.N() {
		v.tract.Init(n)
	}

	v.glottis.SetBlockParams(p.Frequency(), p.VibratoAmount(), p.VibratoFrequency())
	v.tract.SetShapeParams(p.TongueIndexFraction(), p.TongueDiameter(), p.MovementSpeed(), p.TransientStrength())
	v.tract.SetSampleParams(p.VelumTarget(), p.ConstrictionIndex(), p.ConstrictionDiameter(), p.LipDiameter(), p.FricativeStrength())

	glottal := v.glottalBuf[:b]
	noiseMod := v.noiseModBuf[:b]
	fb := float64(b)

	for j := 0; j < b; j++ {
		voiced, aspiration, mod := v.glottis.Step(
			aspirationNoiseIn[j],
			p.Intensity(),
			p.Tenseness(),
			p.TensenessMult(),
			p.Pitchbend(),
			float64(j)/fb,
		)
		glottal[j] = voiced + aspiration
		noiseMod[j] = mod
	}

	v.tract.ProcessBlock(glottal, fricativeNoiseIn, noiseMod, out)
	v.glottis.EndOfBlock()

	if v.snapshots != nil {
		diameter, nose0 := v.tract.Diameters()
		v.snapshots.Publish(v.index, diameter, nose0)
	}
}

func (v *Voice) report(level telemetry.Level, message string) {
	if v.events == nil {
		return
	}
	v.events.Report(v.index, level, message)
}

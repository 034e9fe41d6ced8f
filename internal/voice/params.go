package voice

import (
	"math"
	"sync/atomic"
)

// atomicFloat64 is a lock-free float64 box. Writers (the control thread)
// and the single reader (the audio thread) never block each other: the
// audio thread only ever reads parameters, never writes them.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

func (a *atomicFloat64) load() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Params is the lock-free control-plane for one voice: every control
// parameter the engine exposes, as a plain struct of atomics the control
// thread writes and the audio thread reads. There is no queue and no
// locking — each parameter is its own single-producer/single-consumer
// cell.
type Params struct {
	frequency            atomicFloat64
	intensity            atomicFloat64
	tenseness            atomicFloat64
	tensenessMult        atomicFloat64
	vibratoAmount        atomicFloat64
	vibratoFrequency     atomicFloat64
	pitchbend            atomicFloat64
	n                    atomic.Int64
	velumTarget          atomicFloat64
	constrictionIndex    atomicFloat64
	constrictionDiameter atomicFloat64
	tongueIndex          atomicFloat64
	tongueDiameter       atomicFloat64
	lipDiameter          atomicFloat64
	movementSpeed        atomicFloat64
	fricativeStrength    atomicFloat64
	transientStrength    atomicFloat64
}

// Default parameter values for a freshly constructed voice.
const (
	DefaultFrequency            = 140
	DefaultIntensity            = 1
	DefaultTenseness            = 0.6
	DefaultTensenessMult        = 1
	DefaultVibratoAmount        = 0.005
	DefaultVibratoFrequency     = 6
	DefaultPitchbend            = 0
	DefaultN                    = 44
	DefaultVelumTarget          = 0.01
	DefaultConstrictionIndex    = 0
	DefaultConstrictionDiameter = 3
	DefaultTongueIndexFraction  = 0.5
	DefaultTongueDiameter       = 2.43
	DefaultLipDiameter          = 1.5
	DefaultMovementSpeed        = 15
	DefaultFricativeStrength    = 1
	DefaultTransientStrength    = 1
)

// NewParams returns a Params set to its default values.
func NewParams() *Params {
	p := &Params{}
	p.frequency.store(DefaultFrequency)
	p.intensity.store(DefaultIntensity)
	p.tenseness.store(DefaultTenseness)
	p.tensenessMult.store(DefaultTensenessMult)
	p.vibratoAmount.store(DefaultVibratoAmount)
	p.vibratoFrequency.store(DefaultVibratoFrequency)
	p.pitchbend.store(DefaultPitchbend)
	p.n.Store(DefaultN)
	p.velumTarget.store(DefaultVelumTarget)
	p.constrictionIndex.store(DefaultConstrictionIndex)
	p.constrictionDiameter.store(DefaultConstrictionDiameter)
	p.tongueIndex.store(DefaultTongueIndexFraction)
	p.tongueDiameter.store(DefaultTongueDiameter)
	p.lipDiameter.store(DefaultLipDiameter)
	p.movementSpeed.store(DefaultMovementSpeed)
	p.fricativeStrength.store(DefaultFricativeStrength)
	p.transientStrength.store(DefaultTransientStrength)
	return p
}

func (p *Params) SetFrequency(v float64)           { p.frequency.store(v) }
func (p *Params) SetIntensity(v float64)           { p.intensity.store(v) }
func (p *Params) SetTenseness(v float64)           { p.tenseness.store(v) }
func (p *Params) SetTensenessMult(v float64)       { p.tensenessMult.store(v) }
func (p *Params) SetVibratoAmount(v float64)       { p.vibratoAmount.store(v) }
func (p *Params) SetVibratoFrequency(v float64)    { p.vibratoFrequency.store(v) }
func (p *Params) SetPitchbend(v float64)           { p.pitchbend.store(v) }
func (p *Params) SetN(v int)                       { p.n.Store(int64(v)) }
func (p *Params) SetVelumTarget(v float64)          { p.velumTarget.store(v) }
func (p *Params) SetConstrictionIndex(v float64)    { p.constrictionIndex.store(v) }
func (p *Params) SetConstrictionDiameter(v float64) { p.constrictionDiameter.store(v) }
func (p *Params) SetTongueIndexFraction(v float64)  { p.tongueIndex.store(v) }
func (p *Params) SetTongueDiameter(v float64)       { p.tongueDiameter.store(v) }
func (p *Params) SetLipDiameter(v float64)          { p.lipDiameter.store(v) }
func (p *Params) SetMovementSpeed(v float64)        { p.movementSpeed.store(v) }
func (p *Params) SetFricativeStrength(v float64)    { p.fricativeStrength.store(v) }
func (p *Params) SetTransientStrength(v float64)    { p.transientStrength.store(v) }

func (p *Params) Frequency() float64            { return p.frequency.load() }
func (p *Params) Intensity() float64            { return p.intensity.load() }
func (p *Params) Tenseness() float64            { return p.tenseness.load() }
func (p *Params) TensenessMult() float64        { return p.tensenessMult.load() }
func (p *Params) VibratoAmount() float64        { return p.vibratoAmount.load() }
func (p *Params) VibratoFrequency() float64     { return p.vibratoFrequency.load() }
func (p *Params) Pitchbend() float64            { return p.pitchbend.load() }
func (p *Params) N() int                        { return int(p.n.Load()) }
func (p *Params) VelumTarget() float64          { return p.velumTarget.load() }
func (p *Params) ConstrictionIndex() float64    { return p.constrictionIndex.load() }
func (p *Params) ConstrictionDiameter() float64 { return p.constrictionDiameter.load() }
func (p *Params) TongueIndexFraction() float64  { return p.tongueIndex.load() }
func (p *Params) TongueDiameter() float64       { return p.tongueDiameter.load() }
func (p *Params) LipDiameter() float64          { return p.lipDiameter.load() }
func (p *Params) MovementSpeed() float64        { return p.movementSpeed.load() }
func (p *Params) FricativeStrength() float64    { return p.fricativeStrength.load() }
func (p *Params) TransientStrength() float64    { return p.transientStrength.load() }

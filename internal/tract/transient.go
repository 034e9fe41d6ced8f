package tract

import "math"

// maxTransients bounds the live transient collection, which never grows
// past O(tens) because each transient's lifeTime is 0.2s; this fixed
// capacity keeps the collection allocation-free instead of a growable
// slice.
const maxTransients = 64

type transientSlot struct {
	active    bool
	position  int
	timeAlive float64
	lifeTime  float64
	strength  float64
	exponent  float64
}

type transientPool struct {
	slots [maxTransients]transientSlot
	count int
}

func (p *transientPool) reset() {
	for i := range p.slots {
		p.slots[i] = transientSlot{}
	}
	p.count = 0
}

// add inserts a new transient, silently dropping it if the pool is full
// (which would require tens of closure events inside a single 0.2s
// window — far beyond any plausible articulation rate).
func (p *transientPool) add(position int, strength, exponent, lifeTime float64) {
	for i := range p.slots {
		if !p.slots[i].active {
			p.slots[i] = transientSlot{
				active:   true,
				position: position,
				strength: strength,
				exponent: exponent,
				lifeTime: lifeTime,
			}
			p.count++
			return
		}
	}
}

// process adds each live transient's decaying impulse into both wave
// components at its segment and ages it. The per-run-step aging of
// 1/(2*sampleRate) combined with two run-steps per output sample yields a
// net per-sample aging of 1/sampleRate; this ratio must not be changed on
// one side without the other.
func (p *transientPool) process(r, l []float64, sampleRate float64) {
	dt := 1 / (2 * sampleRate)
	for i := range p.slots {
		s := &p.slots[i]
		if !s.active {
			continue
		}
		amt := s.strength * math.Pow(2, -s.exponent*s.timeAlive) / 2
		r[s.position] += amt
		l[s.position] += amt
		s.timeAlive += dt
		if s.timeAlive > s.lifeTime {
			s.active = false
			p.count--
		}
	}
}

// liveCount reports the number of currently active transients (used by
// property tests that check transient-count discipline).
func (p *transientPool) liveCount() int { return p.count }

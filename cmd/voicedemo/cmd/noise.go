package cmd

import "github.com/synte-audio/trombone/internal/dsp"

// bandpassNoise is the host-side collaborator that supplies broadband white
// noise band-passed around a center frequency at roughly Q=0.5: the core
// trombone packages never generate their own noise source, so this CLI —
// standing in for a host audio graph — does. The band-pass is approximated
// with a cascade of one high-pass and one low-pass stage straddling the
// center frequency: a DC-blocking one-pole (`hpf = (hpf + x - prevX) *
// coeff`) re-centered around the band instead of DC, followed by a
// one-pole low-pass smoother.
type bandpassNoise struct {
	source dsp.Noise

	hpCoeff, lpCoeff float64
	hpState, prevIn  float64
	lpState          float64
}

func newBandpassNoise(seed uint64, centerHz, sampleRate float64) *bandpassNoise {
	return &bandpassNoise{
		source:  dsp.NewNoise(seed),
		hpCoeff: dsp.HighpassCoeff(centerHz/2, sampleRate),
		lpCoeff: dsp.LowpassCoeff(centerHz*2, sampleRate),
	}
}

func (b *bandpassNoise) fill(out []float64) {
	for i := range out {
		white := b.source.Next()
		b.hpState = (b.hpState + white - b.prevIn) * b.hpCoeff
		b.prevIn = white
		b.lpState += (b.hpState - b.lpState) * b.lpCoeff
		out[i] = b.lpState
	}
}

package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/synte-audio/trombone/internal/dsp"
	"github.com/synte-audio/trombone/internal/telemetry"
	"github.com/synte-audio/trombone/internal/voice"
	"github.com/synte-audio/trombone/internal/voiceconfig"
)

// engine owns a fixed set of voices plus each voice's noise collaborators
// and mixes their block output into a single mono bus. It is the "host"
// the core packages deliberately leave unimplemented: the noise source,
// the mixer, and the output clip.
type engine struct {
	sampleRate float64
	voices     []*voice.Voice
	aspiration []*bandpassNoise
	fricative  []*bandpassNoise

	events    *telemetry.Reporter
	snapshots *telemetry.SnapshotReporter

	aspBuf, fricBuf, voiceBuf []float64
}

func newEngine(sampleRate float64, n int, presetName string) (*engine, error) {
	preset := voiceconfig.Default()
	if presetName != "" && presetName != "default" {
		p, ok := voiceconfig.Named[presetName]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", presetName)
		}
		preset = p
	}

	e := &engine{
		sampleRate: sampleRate,
		events:     telemetry.NewReporter(64),
		snapshots:  telemetry.NewSnapshotReporter(4),
	}
	for i := 0; i < n; i++ {
		v := voice.New(sampleRate, i)
		voiceconfig.Apply(preset, v.Params())
		v.AttachTelemetry(e.events, e.snapshots)

		seed := seedFor(v, i)
		e.voices = append(e.voices, v)
		e.aspiration = append(e.aspiration, newBandpassNoise(seed^0x1, 500, sampleRate))
		e.fricative = append(e.fricative, newBandpassNoise(seed^0x2, 1000, sampleRate))
	}
	return e, nil
}

func seedFor(v *voice.Voice, index int) uint64 {
	var s uint64
	for i, b := range v.ID {
		s ^= uint64(b) << uint((i%8)*8)
	}
	return s ^ uint64(index)*0x9e3779b97f4a7c15
}

// renderBlock mixes one block from every voice into out, which must be
// preallocated by the caller to the desired block length. Returns the
// RMS of the mixed block (used by play's periodic readout).
func (e *engine) renderBlock(out []float64) float64 {
	n := len(out)
	if cap(e.aspBuf) < n {
		e.aspBuf = make([]float64, n)
		e.fricBuf = make([]float64, n)
		e.voiceBuf = make([]float64, n)
	}
	asp := e.aspBuf[:n]
	fric := e.fricBuf[:n]
	voiceOut := e.voiceBuf[:n]

	for i := range out {
		out[i] = 0
	}
	for vi, v := range e.voices {
		e.aspiration[vi].fill(asp)
		e.fricative[vi].fill(fric)
		v.ProcessBlock(asp, fric, voiceOut)
		for i, s := range voiceOut {
			out[i] += s
		}
	}

	norm := 1.0
	if len(e.voices) > 1 {
		norm = 1 / float64(len(e.voices))
	}
	var sumSq float64
	for i := range out {
		out[i] = dsp.HardClip(out[i] * norm)
		sumSq += out[i] * out[i]
	}
	return math.Sqrt(sumSq / float64(n))
}

// drainEvents prints any pending telemetry events without blocking.
func (e *engine) drainEvents(printf func(string, ...interface{})) {
	for {
		select {
		case ev := <-e.events.Events():
			printf("[%s] voice %d: %s (%s)\n", ev.Level, ev.Voice, ev.Message, ev.At.Format(time.RFC3339))
		default:
			return
		}
	}
}

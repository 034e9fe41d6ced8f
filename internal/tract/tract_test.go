package tract

import (
	"math"
	"testing"
)

const sr = 44100.0
const blockSize = 128

func runSilentBlocks(t *Tract, n int) []float64 {
	glottal := make([]float64, blockSize)
	fricative := make([]float64, blockSize)
	mod := make([]float64, blockSize)
	out := make([]float64, blockSize)
	var all []float64
	for b := 0; b < n; b++ {
		t.ProcessBlock(glottal, fricative, mod, out)
		all = append(all, out...)
	}
	return all
}

func TestInitInvariants(t *testing.T) {
	tr := New(44, sr)
	if tr.noseDiameter[0] < 0 || tr.noseDiameter[0] > 0.4 {
		t.Fatalf("velum width out of range: %g", tr.noseDiameter[0])
	}
	for i, d := range tr.diameter {
		if d < 0 {
			t.Fatalf("diameter[%d] negative: %g", i, d)
		}
	}
	sum := tr.a[tr.noseStart] + tr.a[tr.noseStart+1] + tr.noseA[0]
	if sum <= 0 {
		t.Fatalf("three-way junction undefined: sum=%g", sum)
	}
}

func TestInitIdempotent(t *testing.T) {
	a := New(44, sr)
	a.Init(44)
	b := New(44, sr)
	b.Init(44)
	for i := range a.diameter {
		if a.diameter[i] != b.diameter[i] {
			t.Fatalf("diameter[%d] diverged after repeated Init: %g != %g", i, a.diameter[i], b.diameter[i])
		}
	}
	for i := range a.reflection {
		if a.reflection[i] != b.reflection[i] {
			t.Fatalf("reflection[%d] diverged after repeated Init", i)
		}
	}
}

func TestSilenceStaysBounded(t *testing.T) {
	tr := New(44, sr)
	out := runSilentBlocks(tr, 100)
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d non-finite: %v", i, v)
		}
		if math.Abs(v) > 1e-6 {
			t.Fatalf("sample %d not silent with zero input: %g", i, v)
		}
	}
}

func TestNoNaNUnderMotion(t *testing.T) {
	tr := New(44, sr)
	glottal := make([]float64, blockSize)
	fricative := make([]float64, blockSize)
	mod := make([]float64, blockSize)
	out := make([]float64, blockSize)
	for b := 0; b < 400; b++ {
		for j := range glottal {
			glottal[j] = 0.3 * math.Sin(float64(b*blockSize+j)*0.05)
			fricative[j] = 0.2
			mod[j] = 0.3
		}
		tr.SetShapeParams(0.5, 2.6, 15, 1)
		cIdx := 20 + 10*math.Sin(float64(b)*0.1)
		tr.SetSampleParams(0.01+0.1*math.Abs(math.Sin(float64(b)*0.07)), cIdx, 1+math.Sin(float64(b)*0.03), 1.2, 0.5)
		tr.ProcessBlock(glottal, fricative, mod, out)
		for j, v := range out {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("block %d sample %d non-finite: %v", b, j, v)
			}
		}
	}
}

func TestTransientFiresOnRelease(t *testing.T) {
	tr := New(44, sr)
	glottal := make([]float64, blockSize)
	fricative := make([]float64, blockSize)
	mod := make([]float64, blockSize)
	out := make([]float64, blockSize)
	for j := range glottal {
		glottal[j] = 0.5
		mod[j] = 0.3
	}
	tr.SetShapeParams(0.5, 2.6, -1, 1) // instant motion
	// Close off a point in the oral tract downstream of the nose branch.
	closeIdx := float64(tr.tipStart + 1)
	tr.SetSampleParams(0.01, closeIdx, 0, 1.2, 1)
	for i := 0; i < 3; i++ {
		tr.ProcessBlock(glottal, fricative, mod, out)
	}
	if tr.lastObstruction == -1 {
		t.Fatal("expected an obstruction to be tracked after closure")
	}
	tr.SetSampleParams(0.01, closeIdx, 3, 1.2, 1) // reopen
	tr.ProcessBlock(glottal, fricative, mod, out)
	if tr.LiveTransients() == 0 {
		t.Fatal("expected a transient to fire on release")
	}
}

func TestTransientDiesOut(t *testing.T) {
	tr := New(44, sr)
	tr.transients.add(10, 0.3, 200, 0.2)
	if tr.LiveTransients() != 1 {
		t.Fatalf("expected 1 live transient, got %d", tr.LiveTransients())
	}
	r := make([]float64, tr.n)
	l := make([]float64, tr.n)
	steps := int(0.25*sr*2) + 10 // more than lifeTime's worth of run-steps
	for i := 0; i < steps; i++ {
		tr.transients.process(r, l, sr)
	}
	if tr.LiveTransients() != 0 {
		t.Fatalf("transient outlived its lifeTime: %d still active", tr.LiveTransients())
	}
}

func TestNRangeClamped(t *testing.T) {
	tr := New(200, sr)
	if tr.N() != MaxN {
		t.Fatalf("N not clamped to MaxN: %d", tr.N())
	}
	tr.Init(1)
	if tr.N() != MinN {
		t.Fatalf("N not clamped to MinN: %d", tr.N())
	}
}

func TestMapClamped(t *testing.T) {
	if v := mapClamped(5, 10, 20, 0, 1); v != 0 {
		t.Fatalf("below range should clamp to toLo, got %g", v)
	}
	if v := mapClamped(25, 10, 20, 0, 1); v != 1 {
		t.Fatalf("above range should clamp to toHi, got %g", v)
	}
	if v := mapClamped(15, 10, 20, 0, 10); v != 5 {
		t.Fatalf("midpoint expected 5, got %g", v)
	}
}

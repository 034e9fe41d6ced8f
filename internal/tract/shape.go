package tract

import (
	"math"

	"github.com/synte-audio/trombone/internal/dsp"
)

// setTargetDiameters recomputes targetDiameter from the rest profile plus
// the tongue-body, tongue-tip-constriction and lip-constriction overlays.
// Called once per block, before the per-sample scattering loop.
func (t *Tract) setTargetDiameters() {
	copy(t.targetDiameter, t.restDiameter)

	// Tongue body. The edge-scaling conditions below reference
	// bladeStart-2, which falls just outside the [bladeStart, lipStart)
	// span; the loop is widened by two segments on the low end so those
	// conditions are reachable (see DESIGN.md).
	span := float64(t.tipStart - t.bladeStart)
	fixedTongueDiameter := 2 + (t.tongueDiameter-2)/1.5
	for i := t.bladeStart - 2; i < t.lipStart; i++ {
		if i < 0 || i >= t.n {
			continue
		}
		angle := 1.1 * math.Pi * (t.tongueIndex - float64(i)) / span
		curve := (1.5 - fixedTongueDiameter + 1.7) * math.Cos(angle)
		switch i {
		case t.bladeStart - 2, t.lipStart - 1:
			curve *= 0.8
		case t.bladeStart, t.lipStart - 2:
			curve *= 0.94
		}
		t.targetDiameter[i] = 1.5 - curve
	}

	// Tongue-tip constriction.
	if t.constrictionIndex > 0 && t.constrictionDiameter > -1.6 {
		if t.constrictionIndex > float64(t.noseStart) && t.constrictionDiameter < -0.8 {
			t.velumTarget = 0.4
		}
		dia := math.Max(0, t.constrictionDiameter-0.3)
		width := mapClamped(t.constrictionIndex, 25*float64(t.n)/44, float64(t.tipStart), 10, 5) * float64(t.n) / 44
		t.applyCosineConstriction(t.constrictionIndex, dia, width)
	}

	// Lip constriction, always applied.
	lipIndex := float64(t.n - 2)
	t.applyCosineConstriction(lipIndex, t.lipDiameter, 5)
}

// applyCosineConstriction narrows targetDiameter around index using a
// raised-cosine falloff of half-width width, never widening a segment that
// is already narrower than dia.
func (t *Tract) applyCosineConstriction(index, dia, width float64) {
	centre := math.Round(index)
	frac := index - centre
	lo := -int(math.Ceil(width)) - 1
	hi := int(width) + 1
	for k := lo; k <= hi; k++ {
		idx := int(centre) + k
		if idx < 0 || idx >= t.n {
			continue
		}
		relpos := math.Abs(float64(k)-frac) - 0.5
		var shrink float64
		switch {
		case relpos <= 0:
			shrink = 0
		case relpos > width:
			shrink = 1
		default:
			shrink = 0.5 * (1 - math.Cos(math.Pi*relpos/width))
		}
		if dia < t.targetDiameter[idx] {
			t.targetDiameter[idx] = dia + (t.targetDiameter[idx]-dia)*shrink
		}
	}
}

// mapClamped linearly maps v from [fromLo, fromHi] to [toLo, toHi],
// clamping v to the source range first.
func mapClamped(v, fromLo, fromHi, toLo, toHi float64) float64 {
	if fromLo == fromHi {
		return toLo
	}
	frac := dsp.Clamp01((v - fromLo) / (fromHi - fromLo))
	return toLo + frac*(toHi-toLo)
}

// addTurbulenceNoise injects fricative turbulence around the constriction,
// split across the two nearest segments by the constriction's fractional
// position. Called every run-step, before the oral scattering pass.
func (t *Tract) addTurbulenceNoise(turbulenceNoise, noiseMod float64) {
	index := t.constrictionIndex
	if index < 2 || index > float64(t.n) || t.constrictionDiameter <= 0 {
		return
	}
	i0 := int(math.Floor(index))
	frac := index - float64(i0)

	intensity := t.fricativeStrength * 2
	turb := turbulenceNoise * noiseMod * intensity
	thinness := dsp.Clamp(8*(0.7-t.constrictionDiameter), 0, 1)
	openness := dsp.Clamp(30*(t.constrictionDiameter-0.3), 0, 1)

	noise0 := turb * (1 - frac) * thinness * openness
	noise1 := turb * frac * thinness * openness

	if s := i0 + 1; s >= 0 && s < t.n {
		t.r[s] += noise0 / 2
		t.l[s] += noise0 / 2
	}
	if s := i0 + 2; s >= 0 && s < t.n {
		t.r[s] += noise1 / 2
		t.l[s] += noise1 / 2
	}
}

// reshapeTract eases diameter toward targetDiameter at position-dependent
// rates, detects closure->open transitions to fire release transients, and
// eases the velum opening toward its target. Called once per block, after
// the per-sample scattering loop.
func (t *Tract) reshapeTract(blockTime float64) {
	instant := t.movementSpeed < 0
	var amount float64
	if !instant {
		amount = t.movementSpeed * blockTime
	}

	for i := 0; i < t.n; i++ {
		if instant {
			t.diameter[i] = t.targetDiameter[i]
			continue
		}
		diff := t.targetDiameter[i] - t.diameter[i]
		if diff == 0 {
			continue
		}
		if diff > 0 {
			rate := t.slowReturnAt(i) * amount
			t.diameter[i] = math.Min(t.targetDiameter[i], t.diameter[i]+rate)
		} else {
			rate := 2 * amount
			t.diameter[i] = math.Max(t.targetDiameter[i], t.diameter[i]-rate)
		}
	}

	newLastObstruction := -1
	for i := 0; i < t.n; i++ {
		if t.diameter[i] <= 0 {
			newLastObstruction = i
		}
	}
	if t.lastObstruction > -1 && newLastObstruction == -1 && t.noseA[0] < 0.05 && t.fricativeStrength > 0 {
		t.transients.add(t.lastObstruction, 0.3*t.transientStrength, 200, 0.2)
	}
	t.lastObstruction = newLastObstruction

	if instant {
		t.noseDiameter[0] = t.velumTarget
	} else if t.velumTarget > t.noseDiameter[0] {
		t.noseDiameter[0] = math.Min(t.velumTarget, t.noseDiameter[0]+amount*0.25)
	} else {
		t.noseDiameter[0] = math.Max(t.velumTarget, t.noseDiameter[0]-amount*0.1)
	}
}

func (t *Tract) slowReturnAt(i int) float64 {
	switch {
	case i < t.noseStart:
		return 0.6
	case i >= t.tipStart:
		return 1.0
	default:
		frac := float64(i-t.noseStart) / float64(t.tipStart-t.noseStart)
		return 0.6 + 0.4*frac
	}
}

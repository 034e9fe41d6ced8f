package voiceconfig

import (
	"testing"

	"github.com/synte-audio/trombone/internal/voice"
)

func TestDefaultMatchesParamsDefaults(t *testing.T) {
	p := voice.NewParams()
	d := Default()
	if d.Frequency != p.Frequency() {
		t.Fatalf("preset frequency %g != params default %g", d.Frequency, p.Frequency())
	}
	if d.N != p.N() {
		t.Fatalf("preset n %d != params default %d", d.N, p.N())
	}
}

func TestApplyWritesEveryField(t *testing.T) {
	p := voice.NewParams()
	Apply(Named["fricative-s"], p)
	if p.ConstrictionIndex() != 36 {
		t.Fatalf("expected constriction-index 36, got %g", p.ConstrictionIndex())
	}
	if p.FricativeStrength() != 1 {
		t.Fatalf("expected fricative-strength 1, got %g", p.FricativeStrength())
	}
	if p.Intensity() != 0 {
		t.Fatalf("expected intensity 0 for unvoiced fricative, got %g", p.Intensity())
	}
}

func TestNamedPresetsValidate(t *testing.T) {
	for name, p := range Named {
		if err := p.validate(); err != nil {
			t.Fatalf("built-in preset %q fails validation: %v", name, err)
		}
	}
}

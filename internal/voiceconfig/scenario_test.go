package voiceconfig

import "testing"

func TestLoadScenarioSchwaHum(t *testing.T) {
	sc, err := LoadScenario("../../testdata/schwa_hum.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Voices != 1 {
		t.Fatalf("expected default voices=1, got %d", sc.Voices)
	}
	if sc.Expect.FundamentalHz == nil || *sc.Expect.FundamentalHz != 140 {
		t.Fatalf("expected fundamental_hz=140, got %+v", sc.Expect.FundamentalHz)
	}
}

func TestSweepValueAt(t *testing.T) {
	sw := &Sweep{Field: "velum_target", From: 0.01, To: 0.4, StartSec: 0, DurationSec: 0.5}
	if v := sw.ValueAt(-1); v != 0.01 {
		t.Fatalf("before start expected From, got %g", v)
	}
	if v := sw.ValueAt(0.25); v < 0.01 || v > 0.4 {
		t.Fatalf("midpoint out of range: %g", v)
	}
	if v := sw.ValueAt(10); v != 0.4 {
		t.Fatalf("after end expected To, got %g", v)
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := LoadScenario("../../testdata/does_not_exist.yaml"); err == nil {
		t.Fatal("expected an error for a missing scenario file")
	}
}

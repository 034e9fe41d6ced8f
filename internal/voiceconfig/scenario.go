package voiceconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes one end-to-end fixture: a starting preset, an
// optional linear parameter sweep over the run, and the assertions a test
// or the render subcommand checks the output against.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	DurationSec float64 `yaml:"duration_sec"`
	Voices      int     `yaml:"voices"`

	Start Preset `yaml:"start"`
	Sweep *Sweep `yaml:"sweep,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// Sweep linearly interpolates one named field of Preset from From to To
// over [StartSec, StartSec+DurationSec).
type Sweep struct {
	Field       string  `yaml:"field"`
	From        float64 `yaml:"from"`
	To          float64 `yaml:"to"`
	StartSec    float64 `yaml:"start_sec"`
	DurationSec float64 `yaml:"duration_sec"`
}

// ValueAt returns the swept value at time t seconds into the scenario.
func (s *Sweep) ValueAt(t float64) float64 {
	if s == nil {
		return 0
	}
	if t <= s.StartSec {
		return s.From
	}
	end := s.StartSec + s.DurationSec
	if t >= end || s.DurationSec <= 0 {
		return s.To
	}
	frac := (t - s.StartSec) / s.DurationSec
	return s.From + frac*(s.To-s.From)
}

// Expectation captures the numeric acceptance bounds for a scenario.
type Expectation struct {
	MaxAbsSampleAfterSettle *float64 `yaml:"max_abs_sample_after_settle,omitempty"`
	SettleSamples           int      `yaml:"settle_samples,omitempty"`

	FundamentalHz          *float64 `yaml:"fundamental_hz,omitempty"`
	FundamentalToleranceHz float64  `yaml:"fundamental_tolerance_hz,omitempty"`

	MinRMS *float64 `yaml:"min_rms,omitempty"`
	MaxRMS *float64 `yaml:"max_rms,omitempty"`

	MinSpectralCentroidHz *float64 `yaml:"min_spectral_centroid_hz,omitempty"`
	MaxSpectralCentroidHz *float64 `yaml:"max_spectral_centroid_hz,omitempty"`

	MaxCrossCorrelation *float64 `yaml:"max_cross_correlation,omitempty"`
	MinMeanAbsDifference *float64 `yaml:"min_mean_abs_difference,omitempty"`
}

// LoadScenario reads and validates a scenario fixture.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}
	if s.DurationSec <= 0 {
		return nil, fmt.Errorf("scenario %q: duration_sec must be positive", s.Name)
	}
	if s.Voices <= 0 {
		s.Voices = 1
	}
	return &s, nil
}

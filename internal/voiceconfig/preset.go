// Package voiceconfig loads named voice presets from TOML files and maps
// them onto a voice.Params block. Scenario fixtures (used by the
// end-to-end tests in internal/voice) are loaded separately, from YAML,
// in scenario.go.
package voiceconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/synte-audio/trombone/internal/voice"
)

// Preset is a named, complete snapshot of a voice's parameter table: every
// field a Params block holds, plus a human-readable name and description
// for a host's preset picker.
type Preset struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`

	Frequency            float64 `toml:"frequency"`
	Intensity            float64 `toml:"intensity"`
	Tenseness            float64 `toml:"tenseness"`
	TensenessMult        float64 `toml:"tenseness_mult" yaml:"tenseness_mult"`
	VibratoAmount        float64 `toml:"vibrato_amount" yaml:"vibrato_amount"`
	VibratoFrequency     float64 `toml:"vibrato_frequency" yaml:"vibrato_frequency"`
	Pitchbend            float64 `toml:"pitchbend"`
	N                    int     `toml:"n"`
	VelumTarget          float64 `toml:"velum_target" yaml:"velum_target"`
	ConstrictionIndex    float64 `toml:"constriction_index" yaml:"constriction_index"`
	ConstrictionDiameter float64 `toml:"constriction_diameter" yaml:"constriction_diameter"`
	TongueIndexFraction  float64 `toml:"tongue_index_fraction" yaml:"tongue_index_fraction"`
	TongueDiameter       float64 `toml:"tongue_diameter" yaml:"tongue_diameter"`
	LipDiameter          float64 `toml:"lip_diameter" yaml:"lip_diameter"`
	MovementSpeed        float64 `toml:"movement_speed" yaml:"movement_speed"`
	FricativeStrength    float64 `toml:"fricative_strength" yaml:"fricative_strength"`
	TransientStrength    float64 `toml:"transient_strength" yaml:"transient_strength"`
}

// PresetFile is the root of a presets.toml document: a flat table of named
// presets, keyed the way services.toml keys its services table.
type PresetFile struct {
	Preset map[string]Preset `toml:"preset"`
}

// Default returns the preset matching the default value for every
// parameter — the voice a Params block starts in before any preset loads.
func Default() Preset {
	return Preset{
		Name:                 "default",
		Description:          "neutral schwa-like vowel, default settings",
		Frequency:            voice.DefaultFrequency,
		Intensity:            voice.DefaultIntensity,
		Tenseness:            voice.DefaultTenseness,
		TensenessMult:        voice.DefaultTensenessMult,
		VibratoAmount:        voice.DefaultVibratoAmount,
		VibratoFrequency:     voice.DefaultVibratoFrequency,
		Pitchbend:            voice.DefaultPitchbend,
		N:                    voice.DefaultN,
		VelumTarget:          voice.DefaultVelumTarget,
		ConstrictionIndex:    voice.DefaultConstrictionIndex,
		ConstrictionDiameter: voice.DefaultConstrictionDiameter,
		TongueIndexFraction:  voice.DefaultTongueIndexFraction,
		TongueDiameter:       voice.DefaultTongueDiameter,
		LipDiameter:          voice.DefaultLipDiameter,
		MovementSpeed:        voice.DefaultMovementSpeed,
		FricativeStrength:    voice.DefaultFricativeStrength,
		TransientStrength:    voice.DefaultTransientStrength,
	}
}

// Named holds the presets built into the binary, keyed by name, so a host
// can offer them without shipping a TOML file.
var Named = map[string]Preset{
	"schwa": Default(),
	"fricative-s": {
		Name:                 "fricative-s",
		Description:          "sustained /s/ at a narrow-but-open alveolar constriction",
		Frequency:            voice.DefaultFrequency,
		Intensity:            0,
		Tenseness:            voice.DefaultTenseness,
		TensenessMult:        voice.DefaultTensenessMult,
		VibratoAmount:        0,
		VibratoFrequency:     voice.DefaultVibratoFrequency,
		Pitchbend:            0,
		N:                    voice.DefaultN,
		VelumTarget:          0.01,
		ConstrictionIndex:    36,
		ConstrictionDiameter: 0.5,
		TongueIndexFraction:  voice.DefaultTongueIndexFraction,
		TongueDiameter:       voice.DefaultTongueDiameter,
		LipDiameter:          voice.DefaultLipDiameter,
		MovementSpeed:        voice.DefaultMovementSpeed,
		FricativeStrength:    1,
		TransientStrength:    0,
	},
	"nasal-m": {
		Name:                 "nasal-m",
		Description:          "sustained /m/, velum open and lips sealed",
		Frequency:            voice.DefaultFrequency,
		Intensity:            1,
		Tenseness:            voice.DefaultTenseness,
		TensenessMult:        voice.DefaultTensenessMult,
		VibratoAmount:        voice.DefaultVibratoAmount,
		VibratoFrequency:     voice.DefaultVibratoFrequency,
		Pitchbend:            0,
		N:                    voice.DefaultN,
		VelumTarget:          0.4,
		ConstrictionIndex:    0,
		ConstrictionDiameter: voice.DefaultConstrictionDiameter,
		TongueIndexFraction:  voice.DefaultTongueIndexFraction,
		TongueDiameter:       voice.DefaultTongueDiameter,
		LipDiameter:          0,
		MovementSpeed:        voice.DefaultMovementSpeed,
		FricativeStrength:    0,
		TransientStrength:    1,
	},
}

// Load reads a presets.toml file and returns its preset table.
func Load(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset file: %w", err)
	}
	var f PresetFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse preset file: %w", err)
	}
	for name, p := range f.Preset {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return f.Preset, nil
}

func (p Preset) validate() error {
	if p.N != 0 && (p.N < 30 || p.N > 60) {
		return fmt.Errorf("n=%d out of range [30,60]", p.N)
	}
	if p.Intensity < 0 || p.Intensity > 1 {
		return fmt.Errorf("intensity=%g out of range [0,1]", p.Intensity)
	}
	return nil
}

// Apply writes every field of the preset into a voice's Params block. A
// zero N is left alone rather than forced to 0, since 0 is not a valid
// tract length and almost certainly means "not set" in a partial preset.
func Apply(p Preset, params *voice.Params) {
	params.SetFrequency(p.Frequency)
	params.SetIntensity(p.Intensity)
	params.SetTenseness(p.Tenseness)
	params.SetTensenessMult(p.TensenessMult)
	params.SetVibratoAmount(p.VibratoAmount)
	params.SetVibratoFrequency(p.VibratoFrequency)
	params.SetPitchbend(p.Pitchbend)
	if p.N != 0 {
		params.SetN(p.N)
	}
	params.SetVelumTarget(p.VelumTarget)
	params.SetConstrictionIndex(p.ConstrictionIndex)
	params.SetConstrictionDiameter(p.ConstrictionDiameter)
	params.SetTongueIndexFraction(p.TongueIndexFraction)
	params.SetTongueDiameter(p.TongueDiameter)
	params.SetLipDiameter(p.LipDiameter)
	params.SetMovementSpeed(p.MovementSpeed)
	params.SetFricativeStrength(p.FricativeStrength)
	params.SetTransientStrength(p.TransientStrength)
}

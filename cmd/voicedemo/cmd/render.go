package cmd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/synte-audio/trombone/internal/voiceconfig"
)

var (
	renderOut          string
	renderSeconds      float64
	renderScenarioPath string
)

const renderBlockSize = 256

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render voices to a raw 32-bit float PCM file, entirely offline",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderOut, "out", "out.pcm", "output file path")
	renderCmd.Flags().Float64Var(&renderSeconds, "seconds", 2, "duration to render, ignored if --scenario is set")
	renderCmd.Flags().StringVar(&renderScenarioPath, "scenario", "", "path to a testdata/*.yaml scenario fixture")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	f, err := os.Create(renderOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriterSize(f, 1<<16)
	defer w.Flush()

	if renderScenarioPath != "" {
		return renderFromScenario(w)
	}
	return renderFromPreset(w)
}

func renderFromPreset(w *bufio.Writer) error {
	e, err := newEngine(sampleRate, numVoices, presetName)
	if err != nil {
		return err
	}
	total := int(renderSeconds * sampleRate)
	return renderBlocks(w, e, total)
}

func renderFromScenario(w *bufio.Writer) error {
	sc, err := voiceconfig.LoadScenario(renderScenarioPath)
	if err != nil {
		return err
	}
	fmt.Printf("rendering scenario %q: %s\n", sc.Name, sc.Description)

	e, err := newEngine(sampleRate, sc.Voices, "")
	if err != nil {
		return err
	}
	for _, v := range e.voices {
		voiceconfig.Apply(sc.Start, v.Params())
	}

	total := int(sc.DurationSec * sampleRate)
	block := make([]float64, renderBlockSize)
	for n := 0; n < total; n += renderBlockSize {
		width := renderBlockSize
		if n+width > total {
			width = total - n
		}
		if sc.Sweep != nil {
			applySweep(sc.Sweep, e, float64(n)/sampleRate)
		}
		e.renderBlock(block[:width])
		if err := writeFloat32LE(w, block[:width]); err != nil {
			return err
		}
	}
	return nil
}

func applySweep(sw *voiceconfig.Sweep, e *engine, t float64) {
	v := sw.ValueAt(t)
	for _, voice := range e.voices {
		switch sw.Field {
		case "velum_target":
			voice.Params().SetVelumTarget(v)
		case "constriction_diameter":
			voice.Params().SetConstrictionDiameter(v)
		case "constriction_index":
			voice.Params().SetConstrictionIndex(v)
		}
	}
}

func renderBlocks(w *bufio.Writer, e *engine, total int) error {
	block := make([]float64, renderBlockSize)
	for n := 0; n < total; n += renderBlockSize {
		width := renderBlockSize
		if n+width > total {
			width = total - n
		}
		e.renderBlock(block[:width])
		if err := writeFloat32LE(w, block[:width]); err != nil {
			return err
		}
	}
	return nil
}

func writeFloat32LE(w *bufio.Writer, samples []float64) error {
	var buf [4]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(s)))
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var benchSeconds float64

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure block throughput with no audio device attached",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().Float64Var(&benchSeconds, "seconds", 5, "wall-clock seconds to render")
	rootCmd.AddCommand(benchCmd)
}

const benchBlockSize = 128

func runBench(cmd *cobra.Command, args []string) error {
	e, err := newEngine(sampleRate, numVoices, presetName)
	if err != nil {
		return err
	}

	block := make([]float64, benchBlockSize)
	deadline := time.Now().Add(time.Duration(benchSeconds * float64(time.Second)))

	var blocks int64
	start := time.Now()
	for time.Now().Before(deadline) {
		e.renderBlock(block)
		blocks++
	}
	elapsed := time.Since(start)

	samplesRendered := blocks * int64(benchBlockSize)
	audioSeconds := float64(samplesRendered) / sampleRate
	realtimeFactor := audioSeconds / elapsed.Seconds()

	fmt.Println(TitleStyle.Render("voicedemo bench"))
	fmt.Printf("%d voice(s), preset %q, block size %d\n", numVoices, presetName, benchBlockSize)
	fmt.Printf("rendered %d blocks (%.2fs of audio) in %s\n", blocks, audioSeconds, elapsed)
	fmt.Printf("blocks/sec: %.1f\n", float64(blocks)/elapsed.Seconds())
	fmt.Printf("realtime factor: %s\n", OkStyle.Render(fmt.Sprintf("%.1fx", realtimeFactor)))
	return nil
}

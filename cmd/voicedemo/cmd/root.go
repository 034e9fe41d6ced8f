// Package cmd holds the voicedemo CLI: a small host around the trombone
// voice engine, standing in for the real audio graph, GUI, and tract-canvas
// mouse mapping that sit outside the core synthesis packages.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	sampleRate float64
	numVoices  int
	presetName string
)

var rootCmd = &cobra.Command{
	Use:   "voicedemo",
	Short: "Drive the trombone articulatory voice engine from the command line",
	Long: TitleStyle.Render("voicedemo") + `

A small host for the trombone speech synthesizer: play renders to a live
audio device, render writes raw PCM to a file, and bench measures block
throughput with no audio device at all.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError("running "+rootCmd.Name(), err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&sampleRate, "sample-rate", 44100, "audio sample rate in Hz")
	rootCmd.PersistentFlags().IntVar(&numVoices, "voices", 1, "number of independently-seeded voices to instantiate")
	rootCmd.PersistentFlags().StringVar(&presetName, "preset", "default", "named preset: default, schwa, fricative-s, nasal-m")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s %s: %v\n", ErrorStyle.Render("error:"), msg, err)
}

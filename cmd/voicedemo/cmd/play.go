package cmd

import (
	"fmt"
	"strings"
	"time"

	pa "github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
)

const playBlockSize = 256

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Render voices live to the default audio output device",
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("unable to initialize portaudio: %w", err)
	}
	defer pa.Terminate()

	device, err := pa.DefaultOutputDevice()
	if err != nil {
		return fmt.Errorf("no default output device: %w", err)
	}

	buf := make([]float32, playBlockSize)
	stream, err := pa.OpenDefaultStream(0, 1, sampleRate, playBlockSize, &buf)
	if err != nil {
		return fmt.Errorf("unable to open default stream: %w", err)
	}
	defer stream.Close()

	api, _ := pa.DefaultHostApi()
	fmt.Println(TitleStyle.Render("voicedemo play"))
	fmt.Println(MutedStyle.Render(strings.Split(pa.VersionText(), ",")[0]))
	fmt.Printf("output: %s via %s, sample rate %.0f Hz, %d voice(s), preset %q\n",
		device.Name, api.Type, stream.Info().SampleRate, numVoices, presetName)

	e, err := newEngine(sampleRate, numVoices, presetName)
	if err != nil {
		return err
	}

	if err := stream.Start(); err != nil {
		return fmt.Errorf("unable to start stream: %w", err)
	}
	defer stream.Stop()

	block := make([]float64, playBlockSize)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	lastRMS := 0.0

	fmt.Println(MutedStyle.Render("playing. ctrl-c to stop."))
	for {
		rms := e.renderBlock(block)
		lastRMS = rms
		for i, s := range block {
			buf[i] = float32(s)
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		e.drainEvents(func(f string, a ...interface{}) { fmt.Printf(f, a...) })
		select {
		case <-ticker.C:
			fmt.Printf("\rrms %.4f   ", lastRMS)
		default:
		}
	}
}

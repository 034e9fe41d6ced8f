// Command voicedemo is a small host for the trombone voice engine: it
// supplies the noise source, output mixing, and device I/O that sit
// outside the core synthesis packages.
package main

import (
	"os"

	"github.com/synte-audio/trombone/cmd/voicedemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Command mindlab runs timed cognitive tests and an obstacle dodger in the
// terminal, optionally driven by a serial keypad and distance sensor.
//
// Usage:
//
//	mindlab focus|reflex|span|symbol|puzzle [flags]
//	mindlab dodger [flags]
//	mindlab ports
//	mindlab highscore
//
// Flags:
//
//	--config string    Path to config.toml (default ~/.config/mindlab/config.toml)
//	--device string    Serial port of the input device (default: auto-detect)
//	--theme string     Color theme (light, dark, dracula, nord, solarized)
//	--log-file string  Log destination (default <data_dir>/mindlab.log)
//	-v, --verbose      Enable debug logging
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mindlab: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd(newApp()).ExecuteContext(ctx)
}

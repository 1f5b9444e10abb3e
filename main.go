package main

import (
	"fmt"
	"log/slog"
	"os"

	cmdcalculate "geoeconomia/command/calculate"
	cmdweb "geoeconomia/command/web"
)

// Economic dashboard for Paraguay: companies, profit share and population by
// territory and by economic activity.
// Usage:
//   geoeconomia web [-addr :8080] [-ui ./ui/dist]
//   geoeconomia calculate -page territorial -dimension department -metric density [-select Central.]... [-out ./out] [-xlsx]
// Both commands read the two fact tables named in the config file.

func main() {
	args := os.Args
	// Initialize slog logger (text to stderr)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		switch sub {
		case "calculate":
			if err := cmdcalculate.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "web":
			if err := cmdweb.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: geoeconomia web [-addr :8080] [-ui ./ui/dist] | calculate [-page p] [-dimension d] [-metric m|all] [-select label]... [-out dir] [-xlsx]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)")
	os.Exit(2)
}

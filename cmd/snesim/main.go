package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "visualize":
		if err := visualize(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runs(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("snesim version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`snesim - multiple-point geostatistical simulation

Usage:
  snesim <command> [options]

Commands:
  run        Simulate a realization from a training image
  validate   Check a training image against simulation preconditions
  summary    Display a quick summary of a GSLIB grid file
  visualize  Render a categorical GSLIB grid to SVG
  runs       List cataloged runs from a results database
  help       Show this help message
  version    Show version information

Examples:
  # Simulate from a run specification
  snesim run --config run.yaml

  # Simulate with explicit parameters
  snesim run --ti channels.gslib --ti-dims 250,250 --dims 100,100 \
    --levels 20:1:1:1,20:1:1:1 --seed 42 --output realization.gslib

  # Check a training image
  snesim validate --ti channels.gslib --dims 250,250

  # Render a realization
  snesim visualize --dims 100,100 --output realization.svg realization.gslib

For command-specific help, run:
  snesim <command> --help`)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"captionfix/internal/services"
)

// exitInvalidInput is returned when the caption file itself was rejected.
const exitInvalidInput = 2

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 1
	case services.Kind(err) == "validation":
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidInput
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}

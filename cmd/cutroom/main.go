package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Cancellation is already reported where it happened.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "cutroom:", err)
		}
		os.Exit(1)
	}
}

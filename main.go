package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spiffcs/gameshell/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		if errors.Is(err, cmd.ErrInterrupted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

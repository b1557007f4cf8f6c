package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/me/circuitbuild/internal/cli"
	"github.com/me/circuitbuild/internal/runner"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

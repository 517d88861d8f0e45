package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/syllabus/cmd"
	"github.com/thenoetrevino/syllabus/internal/cli"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}

	// Command errors have already been reported by the command itself
	var cmdErr *cli.CommandError
	if errors.As(err, &cmdErr) {
		os.Exit(cmdErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(cli.ExitUsage)
}

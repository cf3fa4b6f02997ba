package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/ktool/internal/cli"
	"github.com/ppiankov/ktool/internal/util"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		util.Exit(cli.ExitCode(err))
	}
}

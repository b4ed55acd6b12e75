package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/hackcal/internal/cmd"
)

var version = "(unknown)"

func main() {
	cmd.AppVersion = version

	ctl := cli.App{
		Name:     fmt.Sprintf("%sical", cmd.AppName),
		Version:  version,
		Flags:    cmd.GlobalFlags(),
		Commands: []cli.Command{cmd.ServerCmd},
	}

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

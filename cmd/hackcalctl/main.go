package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/hackcal/internal/cmd"
)

func main() {
	var err error

	ctl := cli.App{
		Name:    fmt.Sprintf("%sctl", cmd.AppName),
		Usage:   "Browse the hackathon events",
		Version: cmd.AppVersion,
		Flags:   cmd.GlobalFlags(),
		Commands: []cli.Command{
			cmd.ShowTypesCmd,
			cmd.FetchCmd,
			cmd.ListCmd,
			cmd.ShowCmd,
			cmd.LoginCmd,
			cmd.LogoutCmd,
			cmd.BrowseCmd,
			cmd.ServerCmd,
		},
	}

	err = ctl.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

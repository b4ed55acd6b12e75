package cmd

import (
	"context"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/hackcal/browse"
	"git.sr.ht/~mariusor/hackcal/calendar"
	"git.sr.ht/~mariusor/hackcal/internal/tui"
)

var BrowseCmd = cli.Command{
	Name:   "browse",
	Usage:  "Browses the events interactively",
	Flags:  []cli.Flag{remoteFlag},
	Action: browseEvents,
}

func browseEvents(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	f, err := e.logToFile()
	if err != nil {
		return err
	}
	defer f.Close()

	remote := c.Bool("remote")
	fetch := func(ctx context.Context) (calendar.Events, error) {
		return e.events(ctx, remote)
	}
	return tui.Run(context.Background(), browse.New(e.session()), fetch, e.l)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-ap/errors"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/hackcal/browse"
	"git.sr.ht/~mariusor/hackcal/calendar"
	"git.sr.ht/~mariusor/hackcal/storage"
)

var ListCmd = cli.Command{
	Name:  "list",
	Usage: "Lists the events",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "type",
			Usage: "Which event type to list: workshop, activity, tech_talk",
		},
		&cli.StringFlag{
			Name:  "search",
			Usage: "Only list events with the text in their name or description",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "Date from which to list, as 2006-01-02 (UTC)",
		},
		&cli.DurationFlag{
			Name:  "end",
			Usage: "Date interval to list, starting from --start",
			Value: defaultDuration,
		},
		remoteFlag,
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
	},
	Action: listEvents,
}

var ShowCmd = cli.Command{
	Name:      "show",
	Usage:     "Shows the details of an event",
	ArgsUsage: "ID",
	Flags: []cli.Flag{
		remoteFlag,
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
	},
	Action: showEvent,
}

const defaultDuration = 24 * time.Hour

// loadBrowser returns a browser over the events of types starting inside
// cursor, with the persisted login state.
func loadBrowser(c *cli.Context, cursor storage.DateCursor, types ...calendar.EventType) (*browse.Browser, error) {
	e, err := loadEnv(c)
	if err != nil {
		return nil, err
	}
	events, err := e.selectEvents(context.Background(), c.Bool("remote"), cursor, types...)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to load events")
	}
	b := browse.New(e.session())
	b.Loaded(calendar.NewCatalog(events...))
	return b, nil
}

func writeEvent(w io.Writer, ev calendar.Event, loggedIn bool, loc *time.Location) {
	if calendar.IsRestricted(ev, loggedIn) {
		fmt.Fprintf(w, "[%d] %s: %s [private]\n", ev.ID, ev.Type.Label(), ev.Name)
		return
	}
	fmt.Fprintf(w, "[%d] %s: %s @ %s\n", ev.ID, ev.Type.Label(), ev.Name, ev.FormatRange(loc))
	if len(ev.Speakers) > 0 {
		fmt.Fprintf(w, "\t%s\n", ev.Speakers)
	}
}

// listCursor is the interval given by --start and --end, all time when
// neither is set.
func listCursor(c *cli.Context) (storage.DateCursor, error) {
	if !c.IsSet("start") && !c.IsSet("end") {
		return storage.AllTime, nil
	}
	start := time.Now().UTC().Truncate(24 * time.Hour)
	if sf := c.String("start"); len(sf) > 0 {
		sfp, err := time.Parse("2006-01-02", sf)
		if err != nil {
			return storage.AllTime, errors.NotValidf("invalid start date %q", sf)
		}
		start = sfp
	}
	return storage.DateCursor{T: start, D: c.Duration("end")}, nil
}

func listEvents(c *cli.Context) error {
	typ, err := calendar.ParseEventType(c.String("type"))
	if err != nil {
		return err
	}
	types := make([]calendar.EventType, 0, 1)
	if typ != nil {
		types = append(types, *typ)
	}
	cursor, err := listCursor(c)
	if err != nil {
		return err
	}

	b, err := loadBrowser(c, cursor, types...)
	if err != nil {
		return err
	}
	b.SetQuery(c.String("search"))

	grid := b.Grid()
	if len(grid) == 0 {
		fmt.Fprintln(c.App.Writer, "nothing found")
		return nil
	}
	for _, ev := range grid {
		writeEvent(c.App.Writer, ev, b.LoggedIn(), time.Local)
	}
	return nil
}

func writePanel(w io.Writer, p browse.PanelView, loc *time.Location) {
	ev := p.Event
	fmt.Fprintf(w, "%s [%s]", ev.Name, ev.Type.Label())
	if ev.Perm() == calendar.Private {
		fmt.Fprint(w, " Private")
	}
	fmt.Fprintln(w)
	if p.Restricted {
		fmt.Fprintln(w, "This is a private event, log in to see its details.")
		return
	}
	fmt.Fprintln(w, ev.FormatRange(loc))
	if len(ev.Speakers) > 0 {
		fmt.Fprintf(w, "Speakers: %s\n", ev.Speakers)
	}
	if ev.Description != "" {
		fmt.Fprintf(w, "\n%s\n", ev.Description)
	}
	if len(p.Related) > 0 {
		fmt.Fprintln(w, "\nRelated events:")
		for _, r := range p.Related {
			fmt.Fprintf(w, "\t[%d] %s (%s)\n", r.ID, r.Name, r.Type.Label())
		}
	}
	fmt.Fprintf(w, "\nJoin Event: %s\n", ev.PrivateURL)
	if ev.PublicURL != "" {
		fmt.Fprintf(w, "Public Info: %s\n", ev.PublicURL)
	}
}

func showEvent(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.NotValidf("missing event id")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return errors.NotValidf("invalid event id %q", c.Args().First())
	}

	b, err := loadBrowser(c, storage.AllTime)
	if err != nil {
		return err
	}
	b.Open(id)
	p := b.Panel()
	if !p.Open {
		return errors.NotFoundf("event %d not found", id)
	}
	writePanel(c.App.Writer, p, time.Local)
	return nil
}

package cmd

import (
	"context"
	"net/http"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"git.sr.ht/~mariusor/hackcal/calendar"
	"git.sr.ht/~mariusor/hackcal/storage"
)

var FetchCmd = cli.Command{
	Name:  "fetch",
	Usage: "Fetches the event catalog and stores it locally",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "url",
			Usage: "Which event lists to load, defaults to the configured ones",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Don't persist events",
		},
	},
	Action: fetchEvents,
}

// fetchAll loads every url concurrently. The results are merged in the order
// of urls, so an event present in more than one list keeps its first
// position.
func fetchAll(ctx context.Context, urls []string, cl *http.Client, l lw.Logger) (calendar.Events, error) {
	if len(urls) == 0 {
		urls = []string{calendar.DefaultURL}
	}
	results := make([]calendar.Events, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		f := calendar.NewHTTPFetcher(u, cl, l)
		g.Go(func() error {
			l.WithContext(lw.Ctx{"url": f.URL}).Debugf("Loading events")
			events, err := f.Load(ctx)
			if err != nil {
				return err
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merge(results...), nil
}

// merge concatenates lists, dropping the events with an id seen before.
func merge(lists ...calendar.Events) calendar.Events {
	all := make(calendar.Events, 0)
	seen := make(map[int64]struct{})
	for _, l := range lists {
		for _, ev := range l {
			if _, ok := seen[ev.ID]; ok {
				continue
			}
			seen[ev.ID] = struct{}{}
			all = append(all, ev)
		}
	}
	return all
}

type change struct {
	added, updated, removed int
}

// diff compares the fetched events with the stored ones.
func diff(old, fresh calendar.Events, l lw.Logger) change {
	prev := calendar.NewCatalog(old...)
	next := calendar.NewCatalog(fresh...)

	ch := change{}
	for _, e := range next.Events() {
		o, ok := prev.Get(e.ID)
		switch {
		case !ok:
			ch.added++
			l.WithContext(lw.Ctx{"id": e.ID}).Debugf("New event: %s", e.Name)
		case !o.Equals(e):
			ch.updated++
			l.WithContext(lw.Ctx{"id": e.ID}).Debugf("Updated event: %s", e.Name)
		}
	}
	for _, o := range prev.Events() {
		if !next.Has(o.ID) {
			ch.removed++
			l.WithContext(lw.Ctx{"id": o.ID}).Debugf("Removed event: %s", o.Name)
		}
	}
	return ch
}

func fetchEvents(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	urls := e.conf.URLs
	if u := c.StringSlice("url"); len(u) > 0 {
		urls = u
	}

	events, err := fetchAll(context.Background(), urls, calendar.HTTPClient(e.conf.Timeout), e.l)
	if err != nil {
		return errors.Annotatef(err, "unable to fetch events")
	}

	st := e.store()
	old, err := st.LoadEvents(storage.AllTime)
	if err != nil {
		return err
	}
	ch := diff(old, events, e.l)
	e.l.WithContext(lw.Ctx{"added": ch.added, "updated": ch.updated, "removed": ch.removed}).
		Infof("Fetched %d events", len(events))

	if c.Bool("dry-run") {
		return nil
	}
	return st.SaveEvents(events)
}

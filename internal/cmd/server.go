package cmd

import (
	"context"
	"syscall"
	"time"

	w "git.sr.ht/~mariusor/wrapper"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/hackcal/calendar"
	"git.sr.ht/~mariusor/hackcal/ical"
)

var ServerCmd = cli.Command{
	Name:  "start",
	Usage: "Starts the iCal serving server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Set hostname on which to listen to",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Set port on which to listen to",
		},
		remoteFlag,
	},
	Action: serverStart,
}

var wait = 5 * time.Second

func serverStart(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	if c.IsSet("host") {
		e.conf.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		e.conf.Server.Port = c.Int("port")
	}

	events, err := e.events(context.Background(), c.Bool("remote"))
	if err != nil {
		return err
	}
	catalog := calendar.NewCatalog(events...)

	listen := e.conf.Listen()
	e.l.Infof("Serving %d events, listening on %s", catalog.Len(), listen)

	h := ical.Routes(catalog, e.conf.Credentials(), AppVersion, e.conf.Server.BaseURL, e.l)
	// Get start/stop functions for the http server
	srvRun, srvStop := w.HttpServer(w.Handler(h), w.OnTCP(listen))
	stop := func() {
		// Doesn't block if no connections, but will otherwise wait until the timeout deadline.
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()
		if err := srvStop(ctx); err != nil {
			e.l.Errorf("Error: %s", err)
		}
	}
	w.RegisterSignalHandlers(w.SignalHandlers{
		syscall.SIGINT: func(exit chan int) {
			e.l.Infof("SIGINT received, stopping")
			stop()
			exit <- 0
		},
		syscall.SIGTERM: func(exit chan int) {
			e.l.Infof("SIGTERM received, force stopping")
			stop()
			exit <- 0
		},
		syscall.SIGQUIT: func(exit chan int) {
			e.l.Infof("SIGQUIT received, force stopping with core-dump")
			exit <- 0
		},
	}).Exec(func() error {
		if err := srvRun(); err != nil {
			e.l.Errorf("Error: %s", err)
			return err
		}
		return nil
	})
	return nil
}

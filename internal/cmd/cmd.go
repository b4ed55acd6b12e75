package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/hackcal/auth"
	"git.sr.ht/~mariusor/hackcal/calendar"
	"git.sr.ht/~mariusor/hackcal/internal/config"
	"git.sr.ht/~mariusor/hackcal/storage"
	"git.sr.ht/~mariusor/hackcal/storage/boltdb"
)

const AppName = "hackcal"

var AppVersion = "(unknown)"

func MkDirIfNotExists(p string) error {
	fi, err := os.Stat(p)
	if err != nil && os.IsNotExist(err) {
		err = os.MkdirAll(p, os.ModeDir|os.ModePerm|0700)
	}
	if err != nil {
		return err
	}
	fi, err = os.Stat(p)
	if err != nil {
		return err
	} else if !fi.IsDir() {
		return errors.Newf("path exists, and is not a folder %s", p)
	}
	return nil
}

func DataPath() string {
	if xdgDataPath := os.Getenv("XDG_DATA_HOME"); xdgDataPath != "" {
		return filepath.Join(xdgDataPath, AppName)
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// GlobalFlags are shared by the hackcalctl and hackcalical applications.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:   "path",
			Usage:  "The path for storage",
			Value:  DataPath(),
			EnvVar: "HACKCAL_PATH",
		},
		&cli.StringFlag{
			Name:   "config",
			Usage:  "The configuration file, defaults to config.yaml in the storage path",
			EnvVar: "HACKCAL_CONFIG",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
	}
}

type store interface {
	storage.Repository
	auth.Store
}

// env is what every command needs: the resolved configuration, the storage
// path and a logger.
type env struct {
	conf  config.Config
	path  string
	debug bool
	l     lw.Logger
}

func newLogger(debug bool, out io.Writer) lw.Logger {
	lvl := lw.InfoLevel
	if debug {
		lvl = lw.DebugLevel
	}
	return lw.Dev(lw.SetLevel(lvl), lw.SetOutput(out))
}

func loadEnv(c *cli.Context) (*env, error) {
	path := c.GlobalString("path")
	conf, err := config.Load(config.Find(c.GlobalString("config"), path))
	if err != nil {
		return nil, err
	}
	if !c.GlobalIsSet("path") && conf.Path != "" {
		path = conf.Path
	}
	if err = MkDirIfNotExists(path); err != nil {
		return nil, err
	}
	debug := c.GlobalBool("debug") || c.Bool("debug")
	return &env{
		conf:  conf,
		path:  path,
		debug: debug,
		l:     newLogger(debug, os.Stderr),
	}, nil
}

// logToFile redirects the log output to a file in the storage path, for
// commands that own the terminal.
func (e *env) logToFile() (io.Closer, error) {
	f, err := os.OpenFile(filepath.Join(e.path, AppName+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to open log file")
	}
	e.l = newLogger(e.debug, f)
	return f, nil
}

func (e *env) store() store {
	return boltdb.New(boltdb.Config{
		Path:  filepath.Join(e.path, boltdb.DefaultFile),
		LogFn: e.l.Debugf,
		ErrFn: e.l.Errorf,
	})
}

func (e *env) session() *auth.Session {
	return auth.NewSession(e.store(), e.conf.Credentials(), e.l)
}

// events returns the stored catalog, or the remote one when remote is set or
// nothing has been fetched yet.
func (e *env) events(ctx context.Context, remote bool) (calendar.Events, error) {
	return e.selectEvents(ctx, remote, storage.AllTime)
}

// selectEvents returns the events of types, all of them if none is passed,
// starting inside cursor. The remote catalog is only loaded when remote is
// set or the store is empty.
func (e *env) selectEvents(ctx context.Context, remote bool, cursor storage.DateCursor, types ...calendar.EventType) (calendar.Events, error) {
	if !remote {
		st := e.store()
		events, err := st.LoadEvents(cursor, types...)
		if err != nil {
			return nil, err
		}
		if len(events) > 0 {
			return events, nil
		}
		if !cursor.IsZero() || len(types) > 0 {
			all, err := st.LoadEvents(storage.AllTime)
			if err != nil {
				return nil, err
			}
			if len(all) > 0 {
				return events, nil
			}
		}
		e.l.Infof("No stored events, fetching from %s", strings.Join(e.conf.URLs, ", "))
	}
	events, err := fetchAll(ctx, e.conf.URLs, calendar.HTTPClient(e.conf.Timeout), e.l)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(events, func(ev calendar.Event) bool {
		if len(types) > 0 && !slices.Contains(types, ev.Type) {
			return true
		}
		return !cursor.Contains(ev.Start())
	}), nil
}

var remoteFlag = &cli.BoolFlag{
	Name:  "remote",
	Usage: "Load the events from the API instead of the local storage",
}

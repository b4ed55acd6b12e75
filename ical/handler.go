package ical

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
	"github.com/soh335/ical"

	"git.sr.ht/~mariusor/hackcal/auth"
	"git.sr.ht/~mariusor/hackcal/browse"
	"git.sr.ht/~mariusor/hackcal/calendar"
)

const (
	privateSummary = "Private event"
	realm          = `Basic realm="hackcal", charset="UTF-8"`
)

var colors = map[calendar.EventType]string{
	calendar.TypeWorkshop: "16:185:129",
	calendar.TypeActivity: "147:51:234",
	calendar.TypeTechTalk: "37:99:235",
}

type handler struct {
	Version string
	BaseURL string

	catalog calendar.Catalog
	loaded  time.Time
	creds   auth.Credentials
	loc     *time.Location
	l       lw.Logger
}

// NewHandler serves the events of c. Requests carrying basic auth matching
// creds are treated as logged in.
func NewHandler(c calendar.Catalog, creds auth.Credentials, l lw.Logger) *handler {
	return &handler{
		catalog: c,
		loaded:  time.Now().UTC(),
		creds:   creds,
		loc:     time.Local,
		l:       l,
	}
}

// browser builds the per request browsing state. Every request gets its own
// session, nothing is shared between them except the catalog.
func (h *handler) browser(r *http.Request) (*browse.Browser, error) {
	s := auth.NewSession(&auth.MemStore{}, h.creds, h.l)
	if user, pass, ok := r.BasicAuth(); ok {
		if err := s.Login(user, pass); err != nil {
			return nil, err
		}
	}
	b := browse.New(s)
	b.Loaded(h.catalog)
	return b, nil
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err), errors.IsNotValid(err):
		status = http.StatusNotFound
	case errors.IsUnauthorized(err):
		status = http.StatusUnauthorized
		w.Header().Set("WWW-Authenticate", realm)
	}
	if status == http.StatusInternalServerError {
		h.l.Errorf("%s", err)
	}
	http.Error(w, err.Error(), status)
}

// ServeHTTP writes the iCal feed for /{type}?q=search.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, err := h.browser(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	typ, err := calendar.ParseEventType(r.PathValue("type"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	b.SetTypeFilter(typ)
	b.SetQuery(r.URL.Query().Get("q"))

	cal := ical.NewBasicVCalendar()
	cal.PRODID = fmt.Sprintf("-//HACKCAL//EVENTS//EN/%s", h.Version)
	cal.VERSION = "2.0"
	cal.URL = strings.TrimRight(h.BaseURL, "/") + r.URL.Path

	name := "Hackathon events"
	description := name
	if typ != nil {
		description = fmt.Sprintf("%s, %s sessions", name, typ.Label())
		if col, ok := colors[*typ]; ok {
			cal.COLOR = col
		}
	}
	cal.NAME = name
	cal.X_WR_CALNAME = name
	cal.DESCRIPTION = description
	cal.X_WR_CALDESC = description

	tz := h.loc.String()
	cal.TIMEZONE_ID = tz
	cal.X_WR_TIMEZONE = tz

	cal.REFRESH_INTERVAL = "PT1H"
	cal.X_PUBLISHED_TTL = "PT1H"
	cal.CALSCALE = "GREGORIAN"
	cal.METHOD = "PUBLISH"

	loggedIn := b.LoggedIn()
	for _, ev := range b.Grid() {
		cal.VComponent = append(cal.VComponent, h.vevent(ev, loggedIn, tz))
	}

	buf := bytes.Buffer{}
	if err = cal.Encode(&buf); err != nil {
		h.writeError(w, errors.Annotatef(err, "unable to encode calendar"))
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *handler) vevent(ev calendar.Event, loggedIn bool, tz string) *ical.VEvent {
	e := &ical.VEvent{
		UID:     fmt.Sprintf("%d@hackcal", ev.ID),
		DTSTAMP: h.loaded,
		DTSTART: ev.Start().In(h.loc),
		DTEND:   ev.End().In(h.loc),
		TZID:    tz,
		AllDay:  ev.Duration() >= 24*time.Hour,
	}
	if calendar.IsRestricted(ev, loggedIn) {
		e.SUMMARY = privateSummary
		return e
	}
	e.SUMMARY = fmt.Sprintf("[%s] %s", ev.Type.Label(), ev.Name)
	e.DESCRIPTION = eventText(ev)
	return e
}

func eventText(ev calendar.Event) string {
	s := strings.Builder{}
	s.WriteString(ev.Description)
	if len(ev.Speakers) > 0 {
		s.WriteString("\n\nSpeakers: ")
		s.WriteString(ev.Speakers.String())
	}
	s.WriteString("\n\nJoin: ")
	s.WriteString(ev.PrivateURL)
	if ev.PublicURL != "" {
		s.WriteString("\nPublic info: ")
		s.WriteString(ev.PublicURL)
	}
	return strings.TrimSpace(s.String())
}

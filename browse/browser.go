package browse

import (
	"slices"

	"github.com/go-ap/errors"

	"git.sr.ht/~mariusor/hackcal/auth"
	"git.sr.ht/~mariusor/hackcal/calendar"
)

type LoadState int

const (
	Loading LoadState = iota
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "loading"
}

// PanelView is what the detail panel shows for the current selection.
type PanelView struct {
	Open       bool
	Event      calendar.Event
	Restricted bool
	Related    calendar.Events
}

// Browser holds the state of one browsing session: the catalog, the filters,
// the detail panel and the login session used for gating.
type Browser struct {
	state   LoadState
	err     error
	catalog calendar.Catalog
	typ     *calendar.EventType
	query   string
	nav     Navigator
	session *auth.Session
}

func New(s *auth.Session) *Browser {
	return &Browser{
		state:   Loading,
		catalog: calendar.NewCatalog(),
		session: s,
	}
}

// Loaded replaces the catalog after a successful fetch.
func (b *Browser) Loaded(c calendar.Catalog) {
	b.state = Loaded
	b.err = nil
	b.catalog = c
}

// Reload drops back to the loading state ahead of a new fetch.
func (b *Browser) Reload() {
	b.state = Loading
	b.err = nil
}

// Failed records a fetch error. Nothing from the failed load is kept.
func (b *Browser) Failed(err error) {
	b.state = Failed
	b.err = err
	b.catalog = calendar.NewCatalog()
	b.nav.Close()
}

func (b *Browser) State() LoadState {
	return b.state
}

func (b *Browser) Err() error {
	return b.err
}

func (b *Browser) Catalog() calendar.Catalog {
	return b.catalog
}

func (b *Browser) Session() *auth.Session {
	return b.session
}

func (b *Browser) SetTypeFilter(typ *calendar.EventType) {
	if typ == nil {
		b.typ = nil
		return
	}
	t := *typ
	b.typ = &t
}

func (b *Browser) TypeFilter() *calendar.EventType {
	return b.typ
}

func (b *Browser) SetQuery(q string) {
	b.query = q
}

func (b *Browser) Query() string {
	return b.query
}

// Grid returns the events to display in the listing.
func (b *Browser) Grid() calendar.Events {
	if b.state != Loaded {
		return nil
	}
	return calendar.Visible(b.catalog, b.typ, b.query)
}

// Open shows the event with id in the detail panel.
func (b *Browser) Open(id int64) {
	b.nav.Open(id)
}

// OpenRelated moves the open panel to one of the current event's related
// events.
func (b *Browser) OpenRelated(id int64) error {
	p := b.Panel()
	if !p.Open {
		return errors.NotFoundf("no event is open")
	}
	if !slices.Contains(p.Related.IDs(), id) {
		return errors.NotFoundf("event %d is not related to %d", id, p.Event.ID)
	}
	b.nav.Open(id)
	return nil
}

// Close hides the detail panel, it returns false if it was already closed.
func (b *Browser) Close() bool {
	return b.nav.Close()
}

func (b *Browser) Navigator() Navigator {
	return b.nav
}

func (b *Browser) LoggedIn() bool {
	return b.session != nil && b.session.LoggedIn()
}

// Panel resolves the current selection. Restriction is evaluated against the
// live login state on every call.
func (b *Browser) Panel() PanelView {
	ev, ok := b.nav.Resolve(b.catalog)
	if !ok {
		return PanelView{}
	}
	p := PanelView{
		Open:       true,
		Event:      ev,
		Restricted: calendar.IsRestricted(ev, b.LoggedIn()),
	}
	if !p.Restricted {
		p.Related = calendar.Related(ev, b.catalog)
	}
	return p
}

func (b *Browser) Login(user, pass string) error {
	if b.session == nil {
		return errors.Newf("no login session")
	}
	return b.session.Login(user, pass)
}

func (b *Browser) Logout() error {
	if b.session == nil {
		return nil
	}
	return b.session.Logout()
}

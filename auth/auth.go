package auth

import (
	"crypto/subtle"
	"sync"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// Store persists the login flag between runs.
type Store interface {
	LoadLoggedIn() (bool, error)
	SaveLoggedIn(bool) error
}

// Credentials is the stand-in user/password pair accepted by Login.
type Credentials struct {
	Username string
	Password string
}

var DefaultCredentials = Credentials{Username: "hacker", Password: "htn2025"}

func (c Credentials) Match(user, pass string) bool {
	return secureCompare(user, c.Username) && secureCompare(pass, c.Password)
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Session owns the login state of one browsing session. The state is read
// from the store once, and every transition is written back to it.
type Session struct {
	st    State
	store Store
	creds Credentials
	l     lw.Logger
}

func NewSession(store Store, creds Credentials, l lw.Logger) *Session {
	s := Session{
		st:    LoggedOut,
		store: store,
		creds: creds,
		l:     l,
	}
	if store == nil {
		return &s
	}
	loggedIn, err := store.LoadLoggedIn()
	if err != nil {
		l.Warnf("Unable to load login state, assuming logged out: %s", err)
		return &s
	}
	if loggedIn {
		s.st = LoggedIn
	}
	return &s
}

func (s *Session) State() State {
	return s.st
}

func (s *Session) LoggedIn() bool {
	return s.st == LoggedIn
}

// Login checks the credentials and switches to LoggedIn on a match. On a
// mismatch the state is left unchanged.
func (s *Session) Login(user, pass string) error {
	if !s.creds.Match(user, pass) {
		s.l.WithContext(lw.Ctx{"user": user}).Infof("Login rejected")
		return errors.Unauthorizedf("invalid credentials")
	}
	return s.ForceLogin()
}

// ForceLogin switches to LoggedIn without checking credentials, for callers
// that authenticated the user some other way.
func (s *Session) ForceLogin() error {
	return s.set(LoggedIn)
}

func (s *Session) Logout() error {
	return s.set(LoggedOut)
}

// set changes the in-memory state before persisting it, a failed write is
// reported but doesn't roll back the transition.
func (s *Session) set(st State) error {
	s.st = st
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveLoggedIn(st == LoggedIn); err != nil {
		return errors.Annotatef(err, "unable to persist login state")
	}
	return nil
}

// MemStore keeps the flag in memory.
type MemStore struct {
	mu  sync.Mutex
	set bool
	val bool
}

func (m *MemStore) LoadLoggedIn() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.val, nil
}

func (m *MemStore) SaveLoggedIn(v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = true
	m.val = v
	return nil
}

// Saved reports whether the flag has ever been written.
func (m *MemStore) Saved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set
}

package boltdb

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-ap/errors"
	bolt "go.etcd.io/bbolt"

	"git.sr.ht/~mariusor/hackcal/calendar"
	"git.sr.ht/~mariusor/hackcal/storage"
)

type LoggerFn func(string, ...interface{})

type repo struct {
	d    *bolt.DB
	root []byte
	path string
	log  LoggerFn
	err  LoggerFn
}

const (
	DefaultFile = "hackcal.bdb"

	rootBucket  = "events"
	authBucket  = "auth"
	loggedInKey = "isLoggedIn"
)

// Config holds the location of the database file and the functions used
// for logging.
type Config struct {
	Path  string
	LogFn LoggerFn
	ErrFn LoggerFn
}

// New returns a new repo repository
func New(c Config) *repo {
	b := repo{
		root: []byte(rootBucket),
		path: c.Path,
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if c.ErrFn != nil {
		b.err = c.ErrFn
	}
	if c.LogFn != nil {
		b.log = c.LogFn
	}

	return &b
}

func (r *repo) open() error {
	var err error
	r.d, err = bolt.Open(r.path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return errors.Annotatef(err, "could not open db %s", r.path)
	}
	err = r.d.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{r.root, []byte(authBucket)} {
			b, err := tx.CreateBucketIfNotExists(name)
			if err != nil {
				return errors.Annotatef(err, "unable to create bucket %s", name)
			}
			if !b.Writable() {
				return errors.Newf("non writeable bucket %s", name)
			}
		}
		return nil
	})
	if err != nil {
		r.close()
	}
	return err
}

// Close closes the boltdb database if possible.
func (r *repo) close() error {
	if r.d == nil {
		return nil
	}
	err := r.d.Close()
	r.d = nil
	return err
}

// LoadEvent returns the stored event with id, or a not found error.
func (r *repo) LoadEvent(id int64) (calendar.Event, error) {
	events, err := r.LoadEvents(storage.AllTime)
	if err != nil {
		return calendar.Event{}, err
	}
	for _, event := range events {
		if event.ID == id {
			return event, nil
		}
	}
	return calendar.Event{}, errors.NotFoundf("event %d not found", id)
}

// LoadEvents returns the stored events of the given types, all of them if no
// type is passed, in the order they were fetched.
func (r *repo) LoadEvents(cursor storage.DateCursor, types ...calendar.EventType) (calendar.Events, error) {
	var err error
	err = r.open()
	if err != nil {
		return nil, err
	}
	defer r.close()
	if len(types) == 0 {
		types = calendar.ValidTypes[:]
	}
	items, err := loadFromBucket(r.d, r.root, cursor, r.err, types...)
	if err != nil {
		return nil, err
	}
	return items.Events(), nil
}

func loadFromBucketRecursive(b *bolt.Bucket, prefix, min, max []byte, errFn LoggerFn) storage.Items {
	items := make(storage.Items, 0)

	c := b.Cursor()
	for key, raw := c.First(); key != nil; key, raw = c.Next() {
		if raw == nil {
			// this is a bucket mate: descend!
			path := append(append([]byte{}, prefix...), key...)
			if !inRange(path, min, max) {
				continue
			}
			path = append(path, pathSeparator...)
			items = append(items, loadFromBucketRecursive(b.Bucket(key), path, min, max, errFn)...)
			continue
		}
		it, err := loadItem(raw)
		if err != nil {
			errFn("unable to load item %s%s: %s", prefix, key, err)
			continue
		}
		if it.IsValid() {
			items = append(items, it)
		}
	}

	return items
}

// inRange compares the path against the same length prefix of the bounds.
func inRange(path, min, max []byte) bool {
	if len(min) > 0 {
		l := len(path)
		if l > len(min) {
			l = len(min)
		}
		if bytes.Compare(path, min[:l]) < 0 {
			return false
		}
	}
	if len(max) > 0 {
		l := len(path)
		if l > len(max) {
			l = len(max)
		}
		if bytes.Compare(path[:l], max[:l]) > 0 {
			return false
		}
	}
	return true
}

func loadFromBucket(db *bolt.DB, root []byte, cursor storage.DateCursor, errFn LoggerFn, types ...calendar.EventType) (storage.Items, error) {
	items := make(storage.Items, 0)

	err := db.View(func(tx *bolt.Tx) error {
		rb := tx.Bucket(root)
		if rb == nil {
			return errors.Newf("invalid bucket %s", root)
		}

		min, max := getCursorPaths(cursor)
		for _, typ := range types {
			b := rb.Bucket([]byte(typ))
			if b == nil {
				continue
			}
			items = append(items, loadFromBucketRecursive(b, nil, min, max, errFn)...)
		}
		return nil
	})
	if err != nil || cursor.IsZero() {
		return items, err
	}

	inCursor := make(storage.Items, 0, len(items))
	for _, it := range items {
		if cursor.Contains(it.Event.Start()) {
			inCursor = append(inCursor, it)
		}
	}
	return inCursor, nil
}

func loadItem(raw []byte) (storage.Item, error) {
	it := storage.Item{}
	if len(raw) == 0 {
		return it, errors.Newf("empty raw item")
	}
	err := json.Unmarshal(raw, &it)
	return it, err
}

var pathSeparator = []byte{'/'}

func getCursorPaths(c storage.DateCursor) ([]byte, []byte) {
	if c.IsZero() {
		return nil, nil
	}
	var min, max []byte
	if c.D < 0 {
		max = itemBucketPath(c.T)
		min = itemBucketPath(c.T.Add(c.D))
	} else {
		min = itemBucketPath(c.T)
		max = itemBucketPath(c.T.Add(c.D))
	}
	return min, max
}

// itemBucketPath is the location of an event starting at date, relative to
// its type bucket.
func itemBucketPath(date time.Time) []byte {
	date = date.UTC()
	pathEl := make([][]byte, 0)

	pathEl = append(pathEl, []byte(date.Format("06")))
	pathEl = append(pathEl, []byte(date.Format("01")))
	pathEl = append(pathEl, []byte(date.Format("02")))
	pathEl = append(pathEl, []byte(date.Format("15")))
	pathEl = append(pathEl, []byte(date.Format("04")))

	return bytes.Join(pathEl, pathSeparator)
}

func descendInBucket(root *bolt.Bucket, path []byte, create bool) (*bolt.Bucket, []byte, error) {
	if root == nil {
		return nil, path, errors.Newf("trying to descend into nil bucket")
	}
	if len(path) == 0 {
		return root, path, nil
	}
	buckets := bytes.Split(path, pathSeparator)

	lvl := 0
	b := root
	// descend the bucket tree up to the last found bucket
	for _, name := range buckets {
		lvl++
		if len(name) == 0 {
			continue
		}
		if b == nil {
			return root, path, errors.Newf("trying to load from nil bucket")
		}
		var cb *bolt.Bucket
		if create {
			cb, _ = b.CreateBucketIfNotExists(name)
		} else {
			cb = b.Bucket(name)
		}
		if cb == nil {
			lvl--
			break
		}
		b = cb
	}
	path = bytes.Join(buckets[lvl:], pathSeparator)

	return b, path, nil
}

// SaveEvents replaces the stored catalog with events. Either all of them
// are saved or none.
func (r *repo) SaveEvents(events calendar.Events) error {
	var err error
	err = r.open()
	if err != nil {
		return err
	}
	defer r.close()

	return r.d.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(r.root); err != nil && err != bolt.ErrBucketNotFound {
			return errors.Annotatef(err, "unable to clear bucket %s", r.root)
		}
		root, err := tx.CreateBucket(r.root)
		if err != nil {
			return errors.Annotatef(err, "unable to create bucket %s", r.root)
		}
		for _, it := range storage.ToItems(events) {
			if err := save(root, it); err != nil {
				r.err("Error saving event %d: %s", it.Event.ID, err)
				return err
			}
		}
		r.log("Saved %d events", len(events))
		return nil
	})
}

func save(root *bolt.Bucket, it storage.Item) error {
	ev := it.Event
	path := bytes.Join([][]byte{[]byte(ev.Type), itemBucketPath(ev.Start())}, pathSeparator)

	b, rest, err := descendInBucket(root, path, true)
	if err != nil {
		return errors.Annotatef(err, "unable to find %s in root bucket", path)
	}
	if len(rest) > 0 {
		return errors.Newf("unable to create bucket path %s", path)
	}
	if !b.Writable() {
		return errors.Newf("non writeable bucket %s", path)
	}
	entryBytes, err := json.Marshal(it)
	if err != nil {
		return errors.Annotatef(err, "could not marshal event %d", ev.ID)
	}
	objectID := []byte(strconv.FormatInt(ev.ID, 10))
	if err = b.Put(objectID, entryBytes); err != nil {
		return errors.Annotatef(err, "could not store encoded event %d", ev.ID)
	}
	return nil
}

// LoadLoggedIn reads the persisted login flag, false when it was never saved.
func (r *repo) LoadLoggedIn() (bool, error) {
	if err := r.open(); err != nil {
		return false, err
	}
	defer r.close()

	loggedIn := false
	err := r.d.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(authBucket))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(loggedInKey))
		if v == nil {
			return nil
		}
		val, err := strconv.ParseBool(string(v))
		if err != nil {
			return errors.Annotatef(err, "invalid %s value %q", loggedInKey, v)
		}
		loggedIn = val
		return nil
	})
	return loggedIn, err
}

func (r *repo) SaveLoggedIn(v bool) error {
	if err := r.open(); err != nil {
		return err
	}
	defer r.close()

	return r.d.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(authBucket))
		if b == nil {
			return errors.Newf("invalid bucket %s", authBucket)
		}
		return b.Put([]byte(loggedInKey), []byte(strconv.FormatBool(v)))
	})
}

package calendar

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
)

// DefaultURL is the endpoint returning the full list of events.
const DefaultURL = "https://api.hackthenorth.com/v3/events"

// Fetcher loads the whole event list in one call.
type Fetcher interface {
	Load(ctx context.Context) (Events, error)
}

type HTTPFetcher struct {
	URL string
	cl  *http.Client
	l   lw.Logger
}

func NewHTTPFetcher(u string, cl *http.Client, l lw.Logger) *HTTPFetcher {
	if u == "" {
		u = DefaultURL
	}
	if cl == nil {
		cl = HTTPClient(15 * time.Second)
	}
	return &HTTPFetcher{URL: u, cl: cl, l: l}
}

// HTTPClient returns a client with connection and overall request timeouts.
func HTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 2,
			DialContext: (&net.Dialer{
				Timeout: 2500 * time.Millisecond,
			}).DialContext,
			TLSHandshakeTimeout: 2500 * time.Millisecond,
		},
	}
}

// Load retrieves the events. Entries that can't be decoded or fail
// validation are skipped.
func (f *HTTPFetcher) Load(ctx context.Context) (Events, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, errors.Annotatef(err, "invalid events URL %s", f.URL)
	}
	req.Header.Set("Accept", "application/json")

	f.l.Debugf("Loading events: %s", f.URL)
	resp, err := f.cl.Do(req)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to load events from %s", f.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Newf("failed to fetch events from %s: %s", f.URL, resp.Status)
	}
	return Decode(resp.Body, f.l)
}

// Decode reads a JSON array of events from r.
func Decode(r io.Reader, l lw.Logger) (Events, error) {
	raw := make([]json.RawMessage, 0)
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Annotatef(err, "unable to decode events")
	}
	events := make(Events, 0, len(raw))
	for i, msg := range raw {
		ev := Event{}
		if err := json.Unmarshal(msg, &ev); err != nil {
			l.WithContext(lw.Ctx{"index": i}).Warnf("Skipping malformed event: %s", err)
			continue
		}
		if err := ev.Validate(); err != nil {
			l.WithContext(lw.Ctx{"index": i, "id": ev.ID}).Warnf("Skipping invalid event: %s", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

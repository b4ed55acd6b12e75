package ical

import (
	"net/http"

	"git.sr.ht/~mariusor/lw"

	"git.sr.ht/~mariusor/hackcal/auth"
	"git.sr.ht/~mariusor/hackcal/calendar"
)

// Routes serves the feeds under / and /{type}, and the event pages under
// /events/{id}.
func Routes(c calendar.Catalog, creds auth.Credentials, version, baseURL string, l lw.Logger) http.Handler {
	h := NewHandler(c, creds, l)
	h.Version = version
	h.BaseURL = baseURL

	r := http.NewServeMux()
	r.HandleFunc("GET /events/{id}", h.ServeEvent)
	r.Handle("GET /{type}", h)
	r.Handle("GET /{$}", h)
	return r
}

package ical

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-ap/errors"
	"gitlab.com/golang-commonmark/markdown"

	"git.sr.ht/~mariusor/hackcal/calendar"
)

const eventHTMLTpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{ .Event.Name }}</title>
</head>
<body>
<article class="event {{ .Event.Type }}">
<header>
<span class="badge">{{ .Event.Type.Label }}</span>
{{- if .Private }} <span class="private">Private</span>{{ end }}
<h1>{{ .Event.Name }}</h1>
</header>
{{ if .Restricted -}}
<section class="locked">
<p>This is a private event</p>
<p>Log in to see its details.</p>
</section>
{{- else -}}
<section class="details">
<p class="time">{{ .When }}</p>
{{- if .Event.Speakers }}
<p class="speakers">{{ .Event.Speakers.String }}</p>
{{- end }}
<h2>About this event</h2>
{{ markdown .Event.Description }}
</section>
{{- if .Related }}
<section class="related">
<h2>Related Events</h2>
<ul>
{{- range .Related }}
<li><a href="{{ eventURL .ID }}">{{ .Name }}</a> <span class="badge">{{ .Type.Label }}</span></li>
{{- end }}
</ul>
</section>
{{- end }}
<footer>
<a class="join" href="{{ .Event.PrivateURL }}" target="_blank" rel="noopener noreferrer">Join Event</a>
{{- if .Event.PublicURL }}
<a class="public" href="{{ .Event.PublicURL }}" target="_blank" rel="noopener noreferrer">Public Info</a>
{{- end }}
</footer>
{{- end }}
</article>
</body>
</html>
`

var eventHTMLTemplate = template.Must(template.New("event").
	Funcs(template.FuncMap{
		"markdown": renderMarkdown,
		"eventURL": eventURL,
	}).Parse(eventHTMLTpl))

type eventPage struct {
	Event      calendar.Event
	Private    bool
	Restricted bool
	When       string
	Related    calendar.Events
}

func renderMarkdown(data string) template.HTML {
	md := markdown.New(
		markdown.HTML(false),
		markdown.Tables(true),
		markdown.Linkify(true),
		markdown.Typographer(true),
		markdown.Breaks(true),
	)
	return template.HTML(md.RenderToString([]byte(data)))
}

func eventURL(id int64) string {
	return "/events/" + strconv.FormatInt(id, 10)
}

// ServeEvent renders the detail page of /events/{id}.
func (h *handler) ServeEvent(w http.ResponseWriter, r *http.Request) {
	b, err := h.browser(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, errors.NotFoundf("invalid event id %q", r.PathValue("id")))
		return
	}
	b.Open(id)
	p := b.Panel()
	if !p.Open {
		h.writeError(w, errors.NotFoundf("event %d not found", id))
		return
	}

	page := eventPage{
		Event:      p.Event,
		Private:    p.Event.Perm() == calendar.Private,
		Restricted: p.Restricted,
		When:       p.Event.FormatRange(h.loc),
		Related:    p.Related,
	}
	buf := strings.Builder{}
	if err := eventHTMLTemplate.Execute(&buf, page); err != nil {
		h.writeError(w, errors.Annotatef(err, "unable to render event %d", id))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(buf.String()))
}

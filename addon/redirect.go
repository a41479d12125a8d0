package addon

import (
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/retutils/redirectfix/message"
	"github.com/retutils/redirectfix/notify"
	"github.com/retutils/redirectfix/rewrite"
)

const historyHighlight = "cyan"

// alertCacheSize bounds the LRU of recently alerted URLs.
const alertCacheSize = 1024

// RedirectFixer repairs 3xx responses that carry the gzip-compressed
// target content in their body. On a rewrite it substitutes the repaired
// message on the flow, annotates the history entry and alerts the
// operator sinks. Safe for concurrent use across in-flight flows.
type RedirectFixer struct {
	BaseAddon

	scope     *Scope
	annotator notify.Annotator
	sinks     []notify.Sink

	examined  atomic.Int64
	rewritten atomic.Int64

	mu      sync.Mutex
	alerted *lru.Cache
}

// NewRedirectFixer builds the addon. scope and annotator may be nil; with
// no sinks the alert goes to the process log.
func NewRedirectFixer(scope *Scope, annotator notify.Annotator, sinks ...notify.Sink) *RedirectFixer {
	if len(sinks) == 0 {
		sinks = []notify.Sink{notify.LogSink{}}
	}
	return &RedirectFixer{
		scope:     scope,
		annotator: annotator,
		sinks:     sinks,
		alerted:   lru.New(alertCacheSize),
	}
}

func (a *RedirectFixer) Response(f *message.Flow) {
	if f == nil || f.Response == nil {
		return
	}
	a.examined.Inc()
	if !a.scope.Match(f.Request) {
		return
	}

	d := rewrite.Process(f.Response, f)
	if !d.Rewritten {
		return
	}

	f.Response = &message.Response{
		StatusLine: d.StatusLine,
		Headers:    d.Headers,
		Body:       d.Body,
	}
	a.rewritten.Inc()

	a.notifyRewrite(f, d.Note)
}

// notifyRewrite applies the side effects of a rewrite. Neither the
// annotation nor the alert may affect the substituted response, so
// failures are logged and dropped here.
func (a *RedirectFixer) notifyRewrite(f *message.Flow, note *rewrite.Notification) {
	if note == nil {
		return
	}

	if a.annotator != nil {
		ann := notify.Annotation{
			Highlight: historyHighlight,
			Comment:   note.Summary,
		}
		if err := a.annotator.Annotate(f, ann); err != nil {
			log.Errorf("RedirectFixer: failed to annotate flow %s: %v", f.Id, err)
		}
	}

	// A hot resource can be fetched many times in a row; alert once per
	// URL within the LRU window.
	a.mu.Lock()
	_, seen := a.alerted.Get(note.URL)
	if !seen {
		a.alerted.Add(note.URL, struct{}{})
	}
	a.mu.Unlock()
	if seen {
		return
	}

	msg := fmt.Sprintf("Modified response for URL: %s", note.URL)
	for _, s := range a.sinks {
		s.Alert(msg)
	}
}

// Examined returns how many responses passed through the addon.
func (a *RedirectFixer) Examined() int64 { return a.examined.Load() }

// Rewritten returns how many responses were repaired.
func (a *RedirectFixer) Rewritten() int64 { return a.rewritten.Load() }

// Package rewrite repairs a specific server misconfiguration: a 3xx
// redirect response whose body carries the full, GZIP-compressed content
// of the target resource instead of a short moved notice. Process
// classifies a response, strips the spurious "Object moved" markup,
// inflates the embedded payload and rewrites the message into a coherent
// 200 OK — or leaves it untouched.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/retutils/redirectfix/message"
)

// URLResolver resolves an intercepted response to the URL of the request
// that produced it. It is consulted only when a rewrite happens.
type URLResolver interface {
	RequestURL() string
}

// Notification describes a completed rewrite for the host's history and
// alert surfaces.
type Notification struct {
	Summary string
	URL     string
}

// Decision is the sole output of Process: either pass the original
// message through, or substitute the rewritten status line, headers and
// body for it.
type Decision struct {
	Rewritten  bool
	StatusLine string
	Headers    []string
	Body       []byte
	Note       *Notification
}

func unchanged() Decision { return Decision{} }

// Process applies the repair pipeline to one response. The input is never
// mutated. Any internal failure degrades to an unchanged decision; a
// half-fixed response is never produced.
func Process(resp *message.Response, urls URLResolver) Decision {
	if resp == nil || !isCandidate(resp) {
		return unchanged()
	}

	body, carved := carveStub(resp.Body)
	if carved {
		log.Debug("removed 'Object moved' redirect HTML from body")
	}

	inflated := false
	if hasJavascriptContentType(resp.Headers) {
		out, found, err := inflatePayload(body)
		if err != nil {
			log.Warnf("gzip decompression failed, serving original response: %v", err)
			return unchanged()
		}
		if found {
			body = out
			inflated = true
		}
	}

	var headers []string
	if inflated {
		headers = lo.Filter(resp.Headers, func(line string, _ int) bool {
			return !strings.HasPrefix(strings.ToLower(line), "content-encoding:")
		})
	} else {
		headers = append([]string(nil), resp.Headers...)
	}

	url := ""
	if urls != nil {
		url = urls.RequestURL()
	}
	log.Infof("status changed: %s -> 200 OK (body size > 1KB)", strings.TrimSpace(resp.StatusLine))

	return Decision{
		Rewritten:  true,
		StatusLine: rewriteStatusLine(resp.StatusLine),
		Headers:    headers,
		Body:       body,
		Note: &Notification{
			Summary: fmt.Sprintf("Redirect modified and decompressed for URL: %s", url),
			URL:     url,
		},
	}
}

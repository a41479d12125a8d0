package message

import (
	"net/url"
	"strconv"
	"strings"

	uuid "github.com/satori/go.uuid"
)

// Request carries the fields of an originating request that are needed to
// resolve and filter intercepted responses. Parsing is done by the host
// interception layer.
type Request struct {
	Method string
	URL    *url.URL
}

// Response is the raw view of an intercepted HTTP response: the status
// line, the header lines in wire order (duplicates allowed) and the body
// bytes. Rewrites never edit a Response in place; they build new values.
type Response struct {
	StatusLine string
	Headers    []string
	Body       []byte
}

// StatusCode parses the numeric code out of the status line. Malformed
// lines yield 0.
func (r *Response) StatusCode() int {
	parts := strings.SplitN(r.StatusLine, " ", 3)
	if len(parts) < 2 {
		return 0
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return code
}

// Header returns the value of the first header line whose name matches
// (case-insensitive), with surrounding whitespace trimmed. Missing
// headers return "".
func (r *Response) Header(name string) string {
	prefix := strings.ToLower(name) + ":"
	for _, line := range r.Headers {
		if strings.HasPrefix(strings.ToLower(line), prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	return ""
}

// Flow ties an intercepted response to the request that produced it.
type Flow struct {
	Id       uuid.UUID
	Request  *Request
	Response *Response

	// Metadata passes data between addons.
	Metadata map[string]interface{}
}

func NewFlow() *Flow {
	return &Flow{
		Id:       uuid.NewV4(),
		Metadata: make(map[string]interface{}),
	}
}

// RequestURL resolves the flow to the URL of its originating request.
func (f *Flow) RequestURL() string {
	if f.Request == nil || f.Request.URL == nil {
		return ""
	}
	return f.Request.URL.String()
}

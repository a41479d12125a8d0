package rewrite

import "regexp"

// The misconfigured server prepends a static "Object moved" notice to the
// real (usually compressed) target content. Only that boilerplate is
// removed; whatever follows it is left alone regardless of encoding.
var stubPattern = regexp.MustCompile(`(?s)<html><head><title>Object moved</title></head><body>.*?</body></html>`)

// carveStub removes the first occurrence of the moved-notice fragment
// from the raw body bytes and reports whether anything was removed.
func carveStub(body []byte) ([]byte, bool) {
	loc := stubPattern.FindIndex(body)
	if loc == nil {
		return body, false
	}
	out := make([]byte, 0, len(body)-(loc[1]-loc[0]))
	out = append(out, body[:loc[0]]...)
	out = append(out, body[loc[1]:]...)
	return out, true
}

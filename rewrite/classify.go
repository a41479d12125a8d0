package rewrite

import (
	"strings"

	"github.com/retutils/redirectfix/message"
)

// isCandidate reports whether the response looks like an instance of the
// misconfiguration: any 3xx status with a body larger than 1000 bytes.
// Malformed status lines are never candidates. Pure; no decompression,
// no header rewriting.
func isCandidate(resp *message.Response) bool {
	if len(resp.Headers) == 0 {
		return false
	}
	parts := strings.SplitN(resp.StatusLine, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[1], "3") {
		return false
	}
	return len(resp.Body) > 1000
}

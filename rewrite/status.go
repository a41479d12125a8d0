package rewrite

import "regexp"

var statusSegment = regexp.MustCompile(` 3\d{2} .+`)

// rewriteStatusLine splices " 200 OK" over the first code-and-reason
// segment of a redirect status line. Lines without a matching segment
// pass through as is.
func rewriteStatusLine(line string) string {
	loc := statusSegment.FindStringIndex(line)
	if loc == nil {
		return line
	}
	return line[:loc[0]] + " 200 OK" + line[loc[1]:]
}
